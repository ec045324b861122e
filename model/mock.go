package model

import (
	"context"
	"fmt"
	"sync"
)

// Handler computes the mock response for a request.
type Handler func(ctx context.Context, req Request) (*Response, error)

// EchoHandler answers every request with "<model>:<last user message>".
func EchoHandler(_ context.Context, req Request) (*Response, error) {
	last, _ := req.LastUserMessage()
	return TextResponse(req.Model, fmt.Sprintf("%s:%s", req.Model, last)), nil
}

// TextResponse builds a well-formed single choice response.
func TextResponse(model, text string) *Response {
	return &Response{
		Model: model,
		Choices: []Choice{{
			Message:      ResponseMessage{Role: RoleAssistant, Content: String(text)},
			FinishReason: "stop",
		}},
	}
}

// MockBackend is a lightweight in‑memory Backend useful for tests & examples.
// It records every request in arrival order.
type MockBackend struct {
	handler Handler
	info    Info

	mu    sync.Mutex
	calls []Request
}

// NewMockBackend constructs a MockBackend. A nil handler defaults to EchoHandler.
func NewMockBackend(handler Handler) *MockBackend {
	if handler == nil {
		handler = EchoHandler
	}
	return &MockBackend{handler: handler, info: Info{Name: "mock", Provider: "mock"}}
}

// Chat implements Backend.
func (m *MockBackend) Chat(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.handler(ctx, req)
}

// Calls returns a copy of the recorded requests in arrival order.
func (m *MockBackend) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of recorded requests.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Info implements Backend.
func (m *MockBackend) Info() Info { return m.info }
