package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentfan/model"
)

// SystemPrompt returns the content of the first system message in req.
func SystemPrompt(req model.Request) string {
	for _, m := range req.Messages {
		if m.Role == model.RoleSystem {
			return m.Content
		}
	}
	return ""
}

// Sleep waits for d or until ctx is done, whichever happens first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DelayedEcho wraps model.EchoHandler and delays each answer by the duration
// registered for the request's system prompt.
func DelayedEcho(delays map[string]time.Duration) model.Handler {
	return func(ctx context.Context, req model.Request) (*model.Response, error) {
		if err := Sleep(ctx, delays[SystemPrompt(req)]); err != nil {
			return nil, err
		}
		return model.EchoHandler(ctx, req)
	}
}

// FailFor returns err for requests carrying the given system prompt and
// delegates everything else to next.
func FailFor(system string, err error, next model.Handler) model.Handler {
	if next == nil {
		next = model.EchoHandler
	}
	return func(ctx context.Context, req model.Request) (*model.Response, error) {
		if SystemPrompt(req) == system {
			return nil, err
		}
		return next(ctx, req)
	}
}

// BlockUntilDone parks the call until ctx is done and returns its error.
func BlockUntilDone(ctx context.Context, _ model.Request) (*model.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// InFlight tracks concurrent handler executions.
type InFlight struct {
	mu      sync.Mutex
	current int
	peak    int
}

// Wrap returns a handler that counts itself in flight while next runs.
func (f *InFlight) Wrap(next model.Handler) model.Handler {
	return func(ctx context.Context, req model.Request) (*model.Response, error) {
		f.mu.Lock()
		f.current++
		if f.current > f.peak {
			f.peak = f.current
		}
		f.mu.Unlock()

		defer func() {
			f.mu.Lock()
			f.current--
			f.mu.Unlock()
		}()

		return next(ctx, req)
	}
}

// Peak returns the highest number of simultaneous executions observed.
func (f *InFlight) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}
