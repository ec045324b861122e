package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCallLimitExceeded is returned once a CallLimiter has used up its budget.
var ErrCallLimitExceeded = errors.New("exceeded max backend calls")

// CallLimiter wraps a Backend and enforces a maximum number of calls over its
// lifetime. A max of 0 allows unlimited calls.
type CallLimiter struct {
	backend Backend
	max     int

	mu    sync.Mutex
	count int
}

// NewCallLimiter creates a limiter around backend.
func NewCallLimiter(backend Backend, max int) *CallLimiter {
	return &CallLimiter{backend: backend, max: max}
}

func (cl *CallLimiter) increment() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max > 0 && cl.count >= cl.max {
		return fmt.Errorf("%w: %d", ErrCallLimitExceeded, cl.max)
	}
	cl.count++

	return nil
}

// Chat implements Backend. Calls beyond the budget fail without reaching the
// wrapped backend.
func (cl *CallLimiter) Chat(ctx context.Context, req Request) (*Response, error) {
	if err := cl.increment(); err != nil {
		return nil, err
	}
	return cl.backend.Chat(ctx, req)
}

// Info implements Backend by delegating to the wrapped backend.
func (cl *CallLimiter) Info() Info { return cl.backend.Info() }

// Count returns the number of calls let through so far.
func (cl *CallLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	return cl.count
}

// Remaining returns how many calls are left before hitting the limit, or -1
// when unlimited.
func (cl *CallLimiter) Remaining() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max == 0 {
		return -1
	}

	return cl.max - cl.count
}
