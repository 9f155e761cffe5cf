package driven

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// ModelBackend invokes a language model.
//
// Implementations may include:
//   - OpenAI (Responses API)
//   - Anthropic (Messages API)
//   - Google Gemini
//   - Ollama (local models)
//
// Every backend returns its payload as a domain.RawResponse with an
// "output" list of typed items, so one parser handles all of them.
type ModelBackend interface {
	// Invoke sends the conversation and returns the raw response.
	Invoke(ctx context.Context, messages []domain.Message, opts InvokeOptions) (domain.RawResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// InvokeOptions configures a single model call.
type InvokeOptions struct {
	// MaxOutputTokens caps the response length.
	MaxOutputTokens int

	// Effort is the reasoning effort hint ("low", "medium", "high").
	// Backends without an equivalent ignore it.
	Effort string
}
