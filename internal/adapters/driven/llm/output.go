// Package llm holds the model backends and the response shape they share.
//
// Every backend reports its answer in the Responses API layout: an "output"
// list of typed items, where the answer is a "message" item whose content
// list carries "output_text" parts. Backends with a native API of a
// different shape translate into this layout so one parser serves them all.
package llm

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 10 * time.Minute

// MessageItem builds a "message" output item from text parts.
func MessageItem(parts ...string) map[string]any {
	content := make([]any, 0, len(parts))
	for _, p := range parts {
		content = append(content, map[string]any{"type": "output_text", "text": p})
	}
	return map[string]any{
		"type":    "message",
		"role":    domain.RoleAssistant,
		"content": content,
	}
}

// ReasoningItem builds a "reasoning" output item. The parser skips these.
func ReasoningItem(summary string) map[string]any {
	return map[string]any{
		"type":    "reasoning",
		"summary": []any{map[string]any{"type": "summary_text", "text": summary}},
	}
}

// NewResponse wraps output items in a raw response.
func NewResponse(model string, items ...map[string]any) domain.RawResponse {
	output := make([]any, 0, len(items))
	for _, item := range items {
		output = append(output, item)
	}
	return domain.RawResponse{"model": model, "output": output}
}

// StatusError reads a non-2xx HTTP response into an error.
func StatusError(provider string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("%s: API returned status %d (failed to read body: %w)", provider, resp.StatusCode, err)
	}
	return fmt.Errorf("%s: API returned status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
}
