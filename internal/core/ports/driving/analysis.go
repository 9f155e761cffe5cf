package driving

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// Analyzer builds a model request from document batches and returns the
// parsed result.
type Analyzer interface {
	// Analyze runs one analysis. Model failures are returned as
	// *domain.ModelInvocationError and unparseable responses as
	// *domain.ResponseShapeError.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// HistoryService exposes the stored analysis history.
type HistoryService interface {
	// List returns entries, newest first, optionally filtered by type.
	// An empty type returns every entry.
	List(ctx context.Context, analysisType domain.AnalysisType) ([]domain.HistoryEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Summary counts entries per type and reports the stored date range.
	Summary(ctx context.Context) (*domain.HistorySummary, error)
}
