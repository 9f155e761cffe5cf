package driven

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// WorkspaceSource is a notes workspace that may hold a structured container
// (a database of typed records) alongside free-form pages.
//
// Implementations return raw records; date filtering, extraction and
// ordering happen in core.
type WorkspaceSource interface {
	// Name returns the source identifier used in errors and events.
	Name() string

	// CheckAccess verifies credentials and connectivity.
	CheckAccess(ctx context.Context) error

	// ProbeStructured looks for a structured container. Failures are
	// reported in the result rather than as an error so callers can fall
	// back explicitly.
	ProbeStructured(ctx context.Context) domain.ProbeResult

	// QueryByDate returns records whose date field is on or after cutoff,
	// sorted ascending by that field. Only valid when the container has a
	// date field.
	QueryByDate(ctx context.Context, container domain.ContainerHandle, cutoff string) ([]domain.RawRecord, error)

	// QueryAll returns every record in the container, sorted by creation time.
	QueryAll(ctx context.Context, container domain.ContainerHandle) ([]domain.RawRecord, error)

	// SearchUnstructured returns one page of records sorted by most recently
	// edited first. An empty cursor requests the first page.
	SearchUnstructured(ctx context.Context, cutoff, cursor string) (domain.SearchPage, error)

	// FetchBody returns the content blocks owned by a record.
	FetchBody(ctx context.Context, recordID string) ([]domain.RawBlock, error)
}

// DocumentSource is a single shared document holding many dated entries.
type DocumentSource interface {
	// Name returns the source identifier used in errors and events.
	Name() string

	// CheckAccess verifies the document can be read.
	CheckAccess(ctx context.Context) error

	// Paragraphs returns the document body as plain-text paragraphs in
	// document order.
	Paragraphs(ctx context.Context) ([]string, error)
}
