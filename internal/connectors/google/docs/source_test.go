package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ephemere-io/pickles/internal/connectors/google"
	"github.com/ephemere-io/pickles/internal/core/domain"
)

const testURL = "https://docs.google.com/document/d/doc-123_x/edit#heading=h.1"

func TestParseDocumentID(t *testing.T) {
	id, err := ParseDocumentID(testURL)
	require.NoError(t, err)
	assert.Equal(t, "doc-123_x", id)

	_, err = ParseDocumentID("https://example.com/nothing")
	assert.ErrorIs(t, err, google.ErrInvalidURL)
}

// newTestSource serves the Docs and Drive endpoints from one handler.
func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	opts := []option.ClientOption{
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL + "/"),
	}
	docsSvc, err := gdocs.NewService(ctx, opts...)
	require.NoError(t, err)
	driveSvc, err := drive.NewService(ctx, opts...)
	require.NoError(t, err)

	src, err := New(docsSvc, driveSvc, testURL)
	require.NoError(t, err)
	return src
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func paragraph(text string) map[string]any {
	return map[string]any{"paragraph": map[string]any{
		"elements": []any{map[string]any{"textRun": map[string]any{"content": text}}},
	}}
}

func TestSource_Paragraphs(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/documents/doc-123_x"), r.URL.Path)
		writeJSON(t, w, map[string]any{
			"title": "Journal",
			"body": map[string]any{"content": []any{
				map[string]any{"sectionBreak": map[string]any{}},
				paragraph("# 2025-08-09\n"),
				paragraph("quiet morning\n"),
				map[string]any{"table": map[string]any{"tableRows": []any{
					map[string]any{"tableCells": []any{
						map[string]any{"content": []any{paragraph("cell text\n")}},
					}},
				}}},
			}},
		})
	})

	paragraphs, err := src.Paragraphs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"# 2025-08-09\n", "quiet morning\n", "cell text\n"}, paragraphs)
	assert.Equal(t, string(domain.SourceGDocs), src.Name())
}

func TestSource_CheckAccess(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/files/doc-123_x"), r.URL.Path)
		writeJSON(t, w, map[string]any{
			"id":       "doc-123_x",
			"name":     "Journal",
			"mimeType": "application/vnd.google-apps.document",
		})
	})

	assert.NoError(t, src.CheckAccess(context.Background()))
}

func TestSource_CheckAccess_WrongType(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"id": "doc-123_x", "name": "sheet", "mimeType": "application/vnd.google-apps.spreadsheet"})
	})

	err := src.CheckAccess(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_CheckAccess_Forbidden(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	})

	err := src.CheckAccess(context.Background())

	assert.ErrorIs(t, err, google.ErrForbidden)
}

func TestSource_Paragraphs_NotFound(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	})

	_, err := src.Paragraphs(context.Background())

	assert.ErrorIs(t, err, google.ErrNotFound)
}
