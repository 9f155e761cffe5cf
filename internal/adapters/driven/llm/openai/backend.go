// Package openai provides a model backend over the OpenAI Responses API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ephemere-io/pickles/internal/adapters/driven/llm"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.ModelBackend = (*Backend)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-5"
)

// Config holds configuration for the OpenAI backend.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-5).
	Model string

	// HTTPClient overrides the client. Nil uses one with llm.DefaultTimeout.
	HTTPClient *http.Client
}

// Backend invokes models through POST /responses and returns the response
// body untouched.
type Backend struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// responsesRequest is the /responses request format.
type responsesRequest struct {
	Model           string      `json:"model"`
	Input           []inputItem `json:"input"`
	MaxOutputTokens int         `json:"max_output_tokens,omitempty"`
	Reasoning       *reasoning  `json:"reasoning,omitempty"`
	Store           *bool       `json:"store,omitempty"`
}

type inputItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type reasoning struct {
	Effort string `json:"effort"`
}

// New creates an OpenAI backend.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: llm.DefaultTimeout}
	}

	return &Backend{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Invoke sends the conversation as Responses API input items.
func (b *Backend) Invoke(
	ctx context.Context,
	messages []domain.Message,
	opts driven.InvokeOptions,
) (domain.RawResponse, error) {
	input := make([]inputItem, len(messages))
	for i, m := range messages {
		input[i] = inputItem{Role: m.Role, Content: m.Content}
	}

	store := false
	reqBody := responsesRequest{
		Model:           b.model,
		Input:           input,
		MaxOutputTokens: opts.MaxOutputTokens,
		Store:           &store,
	}
	if opts.Effort != "" && supportsReasoning(b.model) {
		reqBody.Reasoning = &reasoning{Effort: opts.Effort}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/responses", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, llm.StatusError("openai", resp)
	}

	var raw domain.RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiErr, ok := raw["error"].(map[string]any); ok {
		return nil, fmt.Errorf("openai error: %v", apiErr["message"])
	}
	return raw, nil
}

// Ping validates the API key by listing models.
func (b *Backend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return llm.StatusError("openai", resp)
	}
	return nil
}

// ModelName returns the configured model.
func (b *Backend) ModelName() string {
	return b.model
}

// Close releases resources.
func (b *Backend) Close() error {
	return nil
}

// supportsReasoning reports whether the model accepts a reasoning effort.
func supportsReasoning(model string) bool {
	for _, prefix := range []string{"gpt-5", "o1", "o3", "o4"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
