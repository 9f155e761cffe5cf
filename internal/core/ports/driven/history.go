package driven

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// HistoryStore persists past analyses as a bounded log.
// It is not designed for concurrent writers.
type HistoryStore interface {
	// Load returns stored entries, oldest first.
	Load(ctx context.Context) ([]domain.HistoryEntry, error)

	// Append stores an entry and evicts the oldest entries beyond the
	// store's capacity.
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
