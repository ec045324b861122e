package testutil

import "github.com/hupe1980/agentfan/model"

// ResponseBuilder provides a fluent helper for constructing responses in tests.
// Example:
//
//	resp := NewResponseBuilder().Model("m1").Text("hello").Usage(3, 2).Build()
//
// Chain only the parts you need; a builder without choices yields a response
// with an empty choice list.
type ResponseBuilder struct {
	id      string
	model   string
	choices []model.Choice
	usage   *model.TokenUsage
}

// NewResponseBuilder creates an empty builder.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// ID sets the response ID (chainable).
func (b *ResponseBuilder) ID(id string) *ResponseBuilder { b.id = id; return b }

// Model sets the model echoed by the response (chainable).
func (b *ResponseBuilder) Model(m string) *ResponseBuilder { b.model = m; return b }

// Text appends a choice carrying text content (chainable).
func (b *ResponseBuilder) Text(t string) *ResponseBuilder {
	b.choices = append(b.choices, model.Choice{
		Index:        len(b.choices),
		Message:      model.ResponseMessage{Role: model.RoleAssistant, Content: model.String(t)},
		FinishReason: "stop",
	})
	return b
}

// NoContent appends a choice whose message has no content (chainable).
func (b *ResponseBuilder) NoContent() *ResponseBuilder {
	b.choices = append(b.choices, model.Choice{
		Index:        len(b.choices),
		Message:      model.ResponseMessage{Role: model.RoleAssistant},
		FinishReason: "tool_calls",
	})
	return b
}

// Usage sets token usage (chainable).
func (b *ResponseBuilder) Usage(prompt, completion int) *ResponseBuilder {
	b.usage = &model.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
	return b
}

// Build constructs the response.
func (b *ResponseBuilder) Build() *model.Response {
	return &model.Response{
		ID:      b.id,
		Model:   b.model,
		Choices: append([]model.Choice{}, b.choices...),
		Usage:   b.usage,
	}
}
