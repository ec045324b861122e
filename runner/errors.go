package runner

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentfan/agent"
)

var (
	// ErrNoAgents is returned when RunAll is called with an empty agent list.
	ErrNoAgents = errors.New("no agents to run")
	// ErrEmptyInput is returned when RunAll is called with an empty message.
	ErrEmptyInput = agent.ErrEmptyInput
	// ErrDuplicateName is returned when two agents share a name.
	ErrDuplicateName = errors.New("duplicate agent name")
	// ErrNilAgent is returned when the agent list contains a nil entry.
	ErrNilAgent = errors.New("nil agent")
)

// AgentError reports the agent whose failure aborted a batch.
type AgentError struct {
	Index int
	Name  string
	Err   error
}

// Error implements error.
func (e *AgentError) Error() string {
	return fmt.Sprintf("batch aborted by agent %d (%s): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AgentError) Unwrap() error { return e.Err }
