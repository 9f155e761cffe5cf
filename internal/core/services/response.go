package services

import (
	"fmt"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// responseShape is one recognized way a backend wraps its answer.
type responseShape struct {
	name    string
	match   func(item map[string]any) bool
	extract func(item map[string]any) (string, error)
}

// responseShapes are tried in order; the first item matching a shape wins.
var responseShapes = []responseShape{
	{name: "text", match: itemType("text"), extract: extractTextItem},
	{name: "message", match: itemType("message"), extract: extractMessageItem},
}

func itemType(t string) func(map[string]any) bool {
	return func(item map[string]any) bool {
		typ, _ := item["type"].(string)
		return typ == t
	}
}

func extractTextItem(item map[string]any) (string, error) {
	text, ok := item["text"].(string)
	if !ok {
		return "", &domain.ResponseShapeError{Reason: "text item has no text field"}
	}
	return text, nil
}

func extractMessageItem(item map[string]any) (string, error) {
	content, ok := item["content"].([]any)
	if !ok || len(content) == 0 {
		return "", &domain.ResponseShapeError{Reason: "message item has empty content"}
	}
	first, ok := content[0].(map[string]any)
	if !ok {
		return "", &domain.ResponseShapeError{Reason: "message content is not an object"}
	}
	text, ok := first["text"].(string)
	if !ok {
		return "", &domain.ResponseShapeError{Reason: "message content has no text field"}
	}
	return text, nil
}

// ParseResponse extracts the answer text from a raw model response.
func ParseResponse(resp domain.RawResponse) (string, error) {
	raw, ok := resp["output"]
	if !ok {
		return "", &domain.ResponseShapeError{Reason: "missing output"}
	}
	list, ok := raw.([]any)
	if !ok {
		return "", &domain.ResponseShapeError{Reason: fmt.Sprintf("output is %T, not a list", raw)}
	}

	items := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}

	for _, shape := range responseShapes {
		for _, item := range items {
			if shape.match(item) {
				return shape.extract(item)
			}
		}
	}

	return "", &domain.ResponseShapeError{
		Reason:       "no text or message item",
		PresentTypes: presentTypes(items),
	}
}

func presentTypes(items []map[string]any) []string {
	types := make([]string, 0, len(items))
	for _, item := range items {
		typ, ok := item["type"].(string)
		if !ok {
			typ = "<untyped>"
		}
		types = append(types, typ)
	}
	return types
}
