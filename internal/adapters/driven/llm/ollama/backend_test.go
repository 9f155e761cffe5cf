package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

func TestNew_Defaults(t *testing.T) {
	b := New(Config{})
	assert.Equal(t, DefaultModel, b.ModelName())
	assert.Equal(t, DefaultBaseURL, b.baseURL)
}

func TestBackend_Invoke(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "report", "thinking": "hmm"}, "done": true}`))
	}))
	defer srv.Close()

	b := New(Config{BaseURL: srv.URL, Model: "qwen3"})
	resp, err := b.Invoke(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "prompt"}},
		driven.InvokeOptions{MaxOutputTokens: 1000, Effort: "high"})

	require.NoError(t, err)
	output := resp["output"].([]any)
	require.Len(t, output, 2)
	assert.Equal(t, "reasoning", output[0].(map[string]any)["type"])
	assert.Equal(t, "message", output[1].(map[string]any)["type"])

	assert.Equal(t, "qwen3", got.Model)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 1000, got.Options.NumPredict)
}

func TestBackend_Invoke_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model \"missing\" not found"}`))
	}))
	defer srv.Close()

	b := New(Config{BaseURL: srv.URL, Model: "missing"})
	_, err := b.Invoke(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "x"}}, driven.InvokeOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBackend_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	assert.NoError(t, New(Config{BaseURL: srv.URL}).Ping(context.Background()))
}
