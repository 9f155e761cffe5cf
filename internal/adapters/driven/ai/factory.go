// Package ai provides factory functions for creating model backends.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/ephemere-io/pickles/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/ephemere-io/pickles/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/ephemere-io/pickles/internal/adapters/driven/llm/ollama"
	openaillm "github.com/ephemere-io/pickles/internal/adapters/driven/llm/openai"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for backend connectivity validation.
const pingTimeout = 5 * time.Second

// Pinger is implemented by backends with a cheap connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreateAndValidateBackend creates a backend and, when it supports it,
// validates connectivity. Returns nil if the provider is not configured.
func CreateAndValidateBackend(ctx context.Context, settings *domain.LLMSettings) (driven.ModelBackend, error) {
	backend, err := CreateBackend(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'pickles config set llm.provider' to fix",
			domain.ErrModelUnavailable, err)
	}
	if backend == nil {
		return nil, nil
	}

	if err := ping(ctx, backend); err != nil {
		backend.Close()
		return nil, fmt.Errorf("%w: backend unreachable (%w)", domain.ErrModelUnavailable, err)
	}
	return backend, nil
}

// ValidateLLMConfig creates a backend from settings and pings it.
// Backends without a connectivity check only have their settings checked.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	backend, err := CreateBackend(ctx, settings)
	if err != nil {
		return err
	}
	if backend == nil {
		return nil
	}
	defer backend.Close()

	return ping(ctx, backend)
}

// CreateBackend creates the backend for the configured provider.
// Returns nil if the provider is not configured.
func CreateBackend(ctx context.Context, settings *domain.LLMSettings) (driven.ModelBackend, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.New(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.New(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func ping(ctx context.Context, backend driven.ModelBackend) error {
	p, ok := backend.(Pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}
