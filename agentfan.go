// Package agentfan provides a high-level façade over the runner and model
// abstractions for sending one message to many persona agents at once.
// Most applications interact with this package by:
//  1. Creating a model.Backend (openai, anthropic or the in-memory mock)
//  2. Creating an AgentFan via New() with optional overrides
//  3. Calling Run with a list of agents and an input message
//
// The façade delegates orchestration to runner.Runner while keeping setup and
// usage ergonomics concise.
package agentfan

import (
	"context"
	"time"

	"github.com/hupe1980/agentfan/agent"
	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
	"github.com/hupe1980/agentfan/runner"
)

// Options configures the AgentFan instance.
type Options struct {
	// MaxConcurrency limits the number of backend calls that run at the
	// same time. Set to 0 for unlimited.
	MaxConcurrency int

	// CallTimeout bounds every individual agent call. Zero disables it.
	CallTimeout time.Duration

	// ErrorPolicy selects whether one failure aborts the batch (FailFast)
	// or is recorded on the failing agent only (Isolate).
	ErrorPolicy runner.ErrorPolicy

	// MaxCalls caps the total number of backend calls made through this
	// instance over its lifetime. Zero means unlimited.
	MaxCalls int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentFan is the high-level façade aggregating a backend and a runner.
type AgentFan struct {
	opts    Options
	backend model.Backend
	runner  *runner.Runner
}

// New creates a new AgentFan around backend.
func New(backend model.Backend, optFns ...func(o *Options)) *AgentFan {
	opts := Options{
		ErrorPolicy: runner.FailFast,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.MaxCalls > 0 && backend != nil {
		backend = model.NewCallLimiter(backend, opts.MaxCalls)
	}

	r := runner.New(backend, func(o *runner.Options) {
		o.MaxConcurrency = opts.MaxConcurrency
		o.CallTimeout = opts.CallTimeout
		o.ErrorPolicy = opts.ErrorPolicy
		o.Logger = opts.Logger
	})

	return &AgentFan{opts: opts, backend: backend, runner: r}
}

// Run sends input to every agent concurrently and returns the batch in agent order.
func (f *AgentFan) Run(ctx context.Context, agents []*agent.Agent, input string) (*runner.Batch, error) {
	return f.runner.RunAll(ctx, agents, input)
}

// Backend returns the backend in use, including any call limiter wrapper.
func (f *AgentFan) Backend() model.Backend { return f.backend }

// Options returns a copy of the effective options.
func (f *AgentFan) Options() Options { return f.opts }
