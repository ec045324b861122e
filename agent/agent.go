package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentfan/model"
)

// DefaultModel is used when no model is supplied at construction.
const DefaultModel = "gpt-4o"

// Options configures an Agent at construction time.
type Options struct {
	Model string
}

// Agent is an immutable persona bound to a model identifier.
// It is safe for concurrent use.
type Agent struct {
	name         string
	instructions string
	model        string
}

// New creates an Agent. Without options the agent uses DefaultModel.
//
//	a := agent.New("Busy Sales Agent", "Reply tersely.", func(o *agent.Options) {
//		o.Model = "gpt-4o-mini"
//	})
func New(name, instructions string, optFns ...func(o *Options)) *Agent {
	opts := Options{Model: DefaultModel}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Agent{name: name, instructions: instructions, model: opts.Model}
}

// WithModel returns an option that sets the model identifier.
func WithModel(m string) func(o *Options) {
	return func(o *Options) { o.Model = m }
}

// Name returns the agent's identifier.
func (a *Agent) Name() string { return a.name }

// Instructions returns the system persona text.
func (a *Agent) Instructions() string { return a.instructions }

// Model returns the backend model identifier.
func (a *Agent) Model() string { return a.model }

// Validate reports construction mistakes.
func (a *Agent) Validate() error {
	if a.name == "" {
		return ErrEmptyName
	}
	if a.model == "" {
		return fmt.Errorf("agent %s: %w", a.name, ErrEmptyModel)
	}
	return nil
}

// Prompt builds the two message prompt for input: the instructions as the
// system message followed by input as the user message.
func (a *Agent) Prompt(input string) []model.Message {
	return []model.Message{
		model.SystemMessage(a.instructions),
		model.UserMessage(input),
	}
}

// Request builds the backend request for input.
func (a *Agent) Request(input string) model.Request {
	return model.Request{Model: a.model, Messages: a.Prompt(input)}
}

// Run sends input to backend and returns the text of the first choice.
//
// A nil output with a nil error means the backend answered without content.
// Backend errors are returned wrapped with the agent name and are never retried.
func (a *Agent) Run(ctx context.Context, input string, backend model.Backend) (*string, error) {
	if input == "" {
		return nil, fmt.Errorf("agent %s: %w", a.name, ErrEmptyInput)
	}
	if backend == nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, ErrNilBackend)
	}

	resp, err := backend.Chat(ctx, a.Request(input))
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, err)
	}

	return resp.Content(), nil
}

// String implements fmt.Stringer.
func (a *Agent) String() string {
	return fmt.Sprintf("%s (%s)", a.name, a.model)
}
