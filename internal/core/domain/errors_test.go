package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidWindow", ErrInvalidWindow},
		{"ErrWindowTooShort", ErrWindowTooShort},
		{"ErrNoData", ErrNoData},
		{"ErrUnknownSource", ErrUnknownSource},
		{"ErrUnknownDelivery", ErrUnknownDelivery},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrModelUnavailable", ErrModelUnavailable},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestSourceAccessError(t *testing.T) {
	cause := errors.New("401 unauthorized")
	err := fmt.Errorf("fetch: %w", &SourceAccessError{Source: "notion", Op: "check access", Err: cause})

	var sae *SourceAccessError
	assert.True(t, errors.As(err, &sae))
	assert.Equal(t, "notion", sae.Source)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "fetch: source notion: check access: 401 unauthorized", err.Error())
}

func TestModelInvocationError(t *testing.T) {
	cause := errors.New("quota exceeded")

	err := &ModelInvocationError{Model: "gpt-5", Err: cause}
	assert.Equal(t, "model invocation failed (gpt-5): quota exceeded", err.Error())
	assert.True(t, errors.Is(err, cause))

	bare := &ModelInvocationError{Err: cause}
	assert.Equal(t, "model invocation failed: quota exceeded", bare.Error())
}

func TestResponseShapeError(t *testing.T) {
	err := &ResponseShapeError{Reason: "no text or message item", PresentTypes: []string{"reasoning", "tool_call"}}
	assert.Equal(t,
		"unrecognized model response: no text or message item (present types: reasoning, tool_call)",
		err.Error())

	missing := &ResponseShapeError{Reason: "missing output"}
	assert.Equal(t, "unrecognized model response: missing output", missing.Error())
}
