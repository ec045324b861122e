package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentfan/agent"
	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// MaxConcurrency limits simultaneous backend calls. 0 means unlimited.
	MaxConcurrency int
	// CallTimeout bounds each agent call. 0 means no deadline.
	CallTimeout time.Duration
	// ErrorPolicy selects FailFast or Isolate.
	ErrorPolicy ErrorPolicy
	// Logging services.
	Logger logging.Logger
}

type batchLogger interface {
	LogBatch(batchID string, agents, failed int, dur time.Duration, success bool, err error)
}

// Runner fans one input out to many agents over a shared backend.
// It holds no per-batch state, so RunAll is safe for concurrent use.
type Runner struct {
	backend model.Backend

	maxConcurrency int
	callTimeout    time.Duration
	errorPolicy    ErrorPolicy
	logger         logging.Logger
}

// New constructs a Runner with optional overrides.
func New(backend model.Backend, optFns ...func(o *Options)) *Runner {
	opts := Options{
		ErrorPolicy: FailFast,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		backend:        backend,
		maxConcurrency: opts.MaxConcurrency,
		callTimeout:    opts.CallTimeout,
		errorPolicy:    opts.ErrorPolicy,
		logger:         opts.Logger,
	}
}

// RunAll sends input to every agent concurrently and returns one result per
// agent in input order.
//
// Under FailFast the first failure cancels the remaining calls and RunAll
// returns (nil, *AgentError). Under Isolate failures end up in Result.Err and
// the batch is returned unless ctx itself was cancelled.
func (r *Runner) RunAll(ctx context.Context, agents []*agent.Agent, input string) (*Batch, error) {
	if err := validate(agents, input); err != nil {
		return nil, err
	}
	if r.backend == nil {
		return nil, agent.ErrNilBackend
	}

	batch := &Batch{
		ID:      uuid.NewString(),
		Input:   input,
		Results: make([]Result, len(agents)),
		Started: time.Now(),
	}

	r.logger.Info("Batch started",
		"batch_id", batch.ID,
		"agents", len(agents),
		"policy", r.errorPolicy.String(),
		"max_concurrency", r.maxConcurrency,
	)

	g, gctx := errgroup.WithContext(ctx)
	if r.maxConcurrency > 0 {
		g.SetLimit(r.maxConcurrency)
	}

	for i, a := range agents {
		g.Go(func() error {
			res := r.call(gctx, batch.ID, i, a, input)
			if res.Err != nil && r.errorPolicy == FailFast {
				return &AgentError{Index: i, Name: a.Name(), Err: res.Err}
			}
			batch.Results[i] = res
			return nil
		})
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("batch cancelled: %w", ctx.Err())
	}
	batch.Finished = time.Now()

	r.logBatch(batch, err)

	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *Runner) call(ctx context.Context, batchID string, index int, a *agent.Agent, input string) Result {
	res := Result{Index: index, Name: a.Name()}

	// A slot may open only after a sibling already failed.
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	start := time.Now()
	res.Output, res.Err = a.Run(ctx, input, r.backend)
	res.Duration = time.Since(start)

	if res.Err != nil {
		r.logger.Warn("Agent call failed",
			"batch_id", batchID,
			"agent", a.Name(),
			"model", a.Model(),
			"duration_ms", res.Duration.Milliseconds(),
			"error", res.Err.Error(),
		)
	} else {
		r.logger.Debug("Agent call completed",
			"batch_id", batchID,
			"agent", a.Name(),
			"model", a.Model(),
			"duration_ms", res.Duration.Milliseconds(),
			"has_output", res.Output != nil,
		)
	}

	return res
}

func (r *Runner) logBatch(b *Batch, err error) {
	failed := len(b.Failed())
	if err != nil {
		failed++
	}

	if bl, ok := r.logger.(batchLogger); ok {
		bl.LogBatch(b.ID, len(b.Results), failed, b.Duration(), err == nil, err)
		return
	}

	if err != nil {
		r.logger.Error("Batch failed", "batch_id", b.ID, "agents", len(b.Results), "error", err.Error())
		return
	}
	r.logger.Info("Batch completed", "batch_id", b.ID, "agents", len(b.Results), "failed", failed)
}

func validate(agents []*agent.Agent, input string) error {
	if len(agents) == 0 {
		return ErrNoAgents
	}
	if input == "" {
		return ErrEmptyInput
	}

	seen := make(map[string]int, len(agents))
	for i, a := range agents {
		if a == nil {
			return fmt.Errorf("agent %d: %w", i, ErrNilAgent)
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("agent %d: %w", i, err)
		}
		if j, ok := seen[a.Name()]; ok {
			return fmt.Errorf("%w: %q at %d and %d", ErrDuplicateName, a.Name(), j, i)
		}
		seen[a.Name()] = i
	}

	return nil
}
