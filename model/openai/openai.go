// Package openai provides an implementation of model.Backend using the OpenAI
// Chat Completions API. It adapts the normalized model.Request into the SDK's
// message format and converts the completion back into a model.Response.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI backend adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	// APIKey is passed explicitly to the client. When empty the SDK falls back
	// to its own environment lookup.
	APIKey string
	// BaseURL overrides the API endpoint (proxies, compatible servers, tests).
	BaseURL string
	// MaxRetries overrides the SDK retry count when non-nil.
	MaxRetries *int
	// Temperature is sent only when non-nil.
	Temperature *float64
	// MaxCompletionTokens is sent only when positive.
	MaxCompletionTokens int64
	Logger              logging.Logger
}

// Backend wraps the OpenAI Chat Completions API behind the model.Backend interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

// NewBackend creates a new OpenAI backend using the official client.
func NewBackend(optFns ...func(o *Options)) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.MaxRetries != nil {
		clientOpts = append(clientOpts, option.WithMaxRetries(*opts.MaxRetries))
	}

	client := openai.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a new OpenAI backend from an existing client.
// Connection related options (APIKey, BaseURL, MaxRetries) are ignored.
func NewBackendFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{Logger: logging.NoOpLogger{}}
}

// Chat implements model.Backend with a single non-streaming completion.
func (b *Backend) Chat(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := b.client.Chat.Completions.New(ctx, b.buildParams(req))
	if err != nil {
		logging.BackendCall(b.opts.Logger, req.Model, 0, time.Since(start), err)
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	out := toResponse(resp)
	logging.BackendCall(b.opts.Logger, req.Model, out.TotalTokens(), time.Since(start), nil)

	return out, nil
}

// buildParams assembles the OpenAI request parameters.
func (b *Backend) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: buildMessages(req.Messages),
		Model:    req.Model,
	}
	if b.opts.Temperature != nil {
		params.Temperature = openai.Float(*b.opts.Temperature)
	}
	if b.opts.MaxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(b.opts.MaxCompletionTokens)
	}
	return params
}

// buildMessages converts normalized messages into OpenAI chat messages.
func buildMessages(msgs []model.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case model.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	return messages
}

// toResponse converts a completion into the normalized response. A choice
// whose content field is absent or null keeps a nil Content.
func toResponse(c *openai.ChatCompletion) *model.Response {
	out := &model.Response{
		ID:      c.ID,
		Model:   c.Model,
		Choices: make([]model.Choice, 0, len(c.Choices)),
	}
	for _, ch := range c.Choices {
		msg := model.ResponseMessage{Role: model.RoleAssistant}
		if ch.Message.JSON.Content.Valid() {
			msg.Content = model.String(ch.Message.Content)
		}
		out.Choices = append(out.Choices, model.Choice{
			Index:        int(ch.Index),
			Message:      msg,
			FinishReason: ch.FinishReason,
		})
	}
	if c.JSON.Usage.Valid() {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(c.Usage.PromptTokens),
			CompletionTokens: int(c.Usage.CompletionTokens),
			TotalTokens:      int(c.Usage.TotalTokens),
		}
	}
	return out
}

// Info returns metadata describing this OpenAI backend implementation.
func (b *Backend) Info() model.Info {
	return model.Info{
		Name:     "chat-completions",
		Provider: "openai",
	}
}
