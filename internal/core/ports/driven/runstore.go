package driven

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// RunStore persists analysis runs and their deliveries.
type RunStore interface {
	// SaveRun inserts or updates a run by ID.
	SaveRun(ctx context.Context, run *domain.AnalysisRun) error

	// GetRun retrieves a run by ID. Returns domain.ErrNotFound if missing.
	GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error)

	// SaveDelivery inserts or updates a delivery by ID.
	SaveDelivery(ctx context.Context, d *domain.Delivery) error

	// ListDeliveries returns the deliveries recorded for a run.
	ListDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error)
}
