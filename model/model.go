package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned by Request.Validate for malformed requests.
var ErrInvalidRequest = errors.New("invalid request")

// Role tags a message with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant role message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Request captures one chat completion exchange.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Validate checks the request shape before it is handed to a provider.
func (r Request) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidRequest)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: at least one message is required", ErrInvalidRequest)
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidRequest, i, m.Role)
		}
	}
	return nil
}

// LastUserMessage returns the content of the last user message, if any.
func (r Request) LastUserMessage() (string, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content, true
		}
	}
	return "", false
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseMessage is the message part of a choice. Content is nil when the
// provider returned no text.
type ResponseMessage struct {
	Role    Role    `json:"role"`
	Content *string `json:"content"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"` // "stop", "length", "end_turn", etc.
}

// Response is the normalized result of a chat exchange.
type Response struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// Content returns the text of the first choice or nil when the response has
// no choices or no content. It never panics, including on a nil receiver.
func (r *Response) Content() *string {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	return r.Choices[0].Message.Content
}

// TotalTokens returns the reported token total or zero.
func (r *Response) TotalTokens() int {
	if r == nil || r.Usage == nil {
		return 0
	}
	return r.Usage.TotalTokens
}

// String returns a pointer to s. Handy for building responses.
func String(s string) *string { return &s }

// Info contains metadata about a backend implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Backend performs one request/response exchange with a chat model.
// Implementations must be safe for concurrent use.
type Backend interface {
	Chat(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the backend implementation.
	Info() Info
}

// BackendFunc adapts an ordinary function to the Backend interface.
type BackendFunc func(ctx context.Context, req Request) (*Response, error)

// Chat implements Backend.
func (f BackendFunc) Chat(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }

// Info implements Backend.
func (f BackendFunc) Info() Info { return Info{Name: "func", Provider: "func"} }
