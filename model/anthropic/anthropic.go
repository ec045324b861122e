// Package anthropic provides a model.Backend for the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
)

// DefaultMaxTokens is sent when Options.MaxTokens is not positive. The
// Messages API requires max_tokens on every request.
const DefaultMaxTokens = 4096

// Options configures the Anthropic backend adapter (API key, endpoint, max
// tokens, temperature). Extend via functional options to preserve stability.
type Options struct {
	APIKey      string
	BaseURL     string
	MaxRetries  *int
	MaxTokens   int64
	Temperature *float64
	Logger      logging.Logger
}

// Backend wraps the Anthropic Messages API behind the model.Backend interface.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

// NewBackend creates a new Anthropic backend using the official client.
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

	client := anthropic.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a new Anthropic backend from an existing client.
func NewBackendFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{MaxTokens: DefaultMaxTokens, Logger: logging.NoOpLogger{}}
}

// Chat implements model.Backend with a single non-streaming message call.
func (b *Backend) Chat(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	maxTokens := b.opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  buildMessages(req.Messages),
		MaxTokens: maxTokens,
	}
	if system := extractSystem(req.Messages); len(system) > 0 {
		params.System = system
	}
	if b.opts.Temperature != nil {
		params.Temperature = anthropic.Float(*b.opts.Temperature)
	}

	start := time.Now()
	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		logging.BackendCall(b.opts.Logger, req.Model, 0, time.Since(start), err)
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	out := toResponse(resp)
	logging.BackendCall(b.opts.Logger, req.Model, out.TotalTokens(), time.Since(start), nil)

	return out, nil
}

// extractSystem collects system messages as top-level system text blocks.
func extractSystem(msgs []model.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range msgs {
		if m.Role == model.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// buildMessages converts user and assistant messages. System messages are
// carried separately by extractSystem.
func buildMessages(msgs []model.Message) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, m := range msgs {
		switch m.Role {
		case model.RoleSystem:
			continue
		case model.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return messages
}

// toResponse folds all text blocks into a single choice. A message without
// any text block yields a nil Content.
func toResponse(resp *anthropic.Message) *model.Response {
	var (
		text    strings.Builder
		hasText bool
	)
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		hasText = true
		text.WriteString(block.AsText().Text)
	}

	msg := model.ResponseMessage{Role: model.RoleAssistant}
	if hasText {
		msg.Content = model.String(text.String())
	}

	in, out := int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)

	return &model.Response{
		ID:    resp.ID,
		Model: string(resp.Model),
		Choices: []model.Choice{{
			Message:      msg,
			FinishReason: string(resp.StopReason),
		}},
		Usage: &model.TokenUsage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		},
	}
}

// Info returns metadata describing this Anthropic backend implementation.
func (b *Backend) Info() model.Info {
	return model.Info{
		Name:     "messages",
		Provider: "anthropic",
	}
}
