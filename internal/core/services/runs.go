package services

import (
	"context"
	"fmt"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// DefaultRunListLimit is used when List is called with a non-positive limit.
const DefaultRunListLimit = 20

// RunService reads recorded runs.
type RunService struct {
	store driven.RunStore
}

// NewRunService creates a run service.
func NewRunService(store driven.RunStore) *RunService {
	return &RunService{store: store}
}

// List returns the most recent runs, newest first.
func (s *RunService) List(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns a run with its deliveries.
func (s *RunService) Get(ctx context.Context, id string) (*driving.RunOutcome, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty run id", domain.ErrInvalidInput)
	}
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	deliveries, err := s.store.ListDeliveries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list deliveries for %s: %w", id, err)
	}
	return &driving.RunOutcome{
		Run: *run,
		Result: domain.AnalysisResult{
			Statistics:   run.Statistics,
			Insights:     run.Insights,
			RecentCount:  run.RecentCount,
			ContextCount: run.ContextCount,
		},
		Deliveries: deliveries,
	}, nil
}
