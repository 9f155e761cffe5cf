package driving

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// DocumentReconciler turns a data source and a lookback window into an
// ordered list of documents.
type DocumentReconciler interface {
	// Fetch returns deduplicated documents dated within the last days days,
	// oldest first. Zero results is not an error. Unrecoverable access
	// failures are returned as *domain.SourceAccessError.
	Fetch(ctx context.Context, source string, days int) ([]domain.Document, error)

	// Sources lists the source names this reconciler can fetch from.
	Sources() []string
}
