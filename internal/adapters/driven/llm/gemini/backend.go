// Package gemini provides a model backend over the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/ephemere-io/pickles/internal/adapters/driven/llm"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.ModelBackend = (*Backend)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-pro"

// Config holds configuration for the Gemini backend.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// Model is the model to use (default: gemini-2.5-pro).
	Model string

	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Backend invokes Gemini models through genai.
type Backend struct {
	client *genai.Client
	model  string
}

// New creates a Gemini backend.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Backend{client: client, model: cfg.Model}, nil
}

// Invoke sends the conversation and converts the first candidate to the
// shared output layout.
func (b *Backend) Invoke(
	ctx context.Context,
	messages []domain.Message,
	opts driven.InvokeOptions,
) (domain.RawResponse, error) {
	contents, config := b.request(messages, opts)

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return toResponse(b.model, resp), nil
}

func (b *Backend) request(messages []domain.Message, opts driven.InvokeOptions) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}
	if level := thinkingLevel(b.model, opts.Effort); level != "" {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingLevel: level}
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, config
}

// toResponse reads the first candidate. Thought parts become reasoning
// items and text parts are joined into one message item.
func toResponse(model string, resp *genai.GenerateContentResponse) domain.RawResponse {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.NewResponse(model)
	}

	var (
		items []map[string]any
		text  strings.Builder
		found bool
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.Thought:
			items = append(items, llm.ReasoningItem(part.Text))
		case part.Text != "":
			text.WriteString(part.Text)
			found = true
		}
	}
	if found {
		items = append(items, llm.MessageItem(text.String()))
	}
	return llm.NewResponse(model, items...)
}

// thinkingLevel maps an effort hint for models that take thinking levels.
func thinkingLevel(model, effort string) genai.ThinkingLevel {
	if !strings.HasPrefix(model, "gemini-3") {
		return ""
	}
	switch strings.ToLower(effort) {
	case "minimal":
		return genai.ThinkingLevelMinimal
	case "low":
		return genai.ThinkingLevelLow
	case "medium":
		return genai.ThinkingLevelMedium
	case "high":
		return genai.ThinkingLevelHigh
	default:
		return ""
	}
}

// ModelName returns the configured model.
func (b *Backend) ModelName() string {
	return b.model
}

// Close releases resources.
func (b *Backend) Close() error {
	return nil
}
