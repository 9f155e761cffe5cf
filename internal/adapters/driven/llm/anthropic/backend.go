// Package anthropic provides a model backend over the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ephemere-io/pickles/internal/adapters/driven/llm"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.ModelBackend = (*Backend)(nil)

// Default configuration values.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 8192
)

// Config holds configuration for the Anthropic backend.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// Model is the model to use (default: claude-sonnet-4-5).
	Model string

	// MaxRetries overrides the SDK retry count when positive.
	MaxRetries int

	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Backend invokes Claude models. Responses are streamed and accumulated so
// large output budgets do not hit the non-streaming request limit.
type Backend struct {
	client anthropic.Client
	model  string
}

// New creates an Anthropic backend.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(llm.DefaultTimeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Backend{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Invoke sends the conversation and converts the reply to the shared
// output layout. Effort has no Messages API equivalent and is ignored.
func (b *Backend) Invoke(
	ctx context.Context,
	messages []domain.Message,
	opts driven.InvokeOptions,
) (domain.RawResponse, error) {
	params, err := b.params(messages, opts)
	if err != nil {
		return nil, err
	}

	stream := b.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var message anthropic.Message
	for stream.Next() {
		if err := message.Accumulate(stream.Current()); err != nil {
			return nil, fmt.Errorf("accumulate stream: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	return toResponse(b.model, message), nil
}

func (b *Backend) params(messages []domain.Message, opts driven.InvokeOptions) (anthropic.MessageNewParams, error) {
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(maxTokens),
	}

	hasUser := false
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case domain.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			hasUser = true
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if !hasUser {
		return params, fmt.Errorf("anthropic: at least one user message is required")
	}
	return params, nil
}

// toResponse joins text blocks into one message item. Thinking blocks
// become reasoning items.
func toResponse(model string, message anthropic.Message) domain.RawResponse {
	var (
		items []map[string]any
		text  strings.Builder
		found bool
	)
	for _, block := range message.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
			found = true
		case "thinking":
			items = append(items, llm.ReasoningItem(block.Thinking))
		}
	}
	if found {
		items = append(items, llm.MessageItem(text.String()))
	}
	return llm.NewResponse(model, items...)
}

// ModelName returns the configured model.
func (b *Backend) ModelName() string {
	return b.model
}

// Close releases resources.
func (b *Backend) Close() error {
	return nil
}
