package services

import (
	"context"
	"fmt"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes the analysis history store.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns entries newest first, filtered by type when t is non-empty.
func (s *HistoryService) List(ctx context.Context, t domain.AnalysisType) ([]domain.HistoryEntry, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]domain.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if t == "" || entries[i].Type == t {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

// Clear removes all entries.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Summary returns counts per analysis type and the stored date range.
func (s *HistoryService) Summary(ctx context.Context) (*domain.HistorySummary, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	sum := &domain.HistorySummary{Total: len(entries), ByType: make(map[domain.AnalysisType]int)}
	for _, e := range entries {
		sum.ByType[e.Type]++
	}
	if len(entries) > 0 {
		sum.Oldest = domain.DateOf(entries[0].Timestamp)
		sum.Newest = domain.DateOf(entries[len(entries)-1].Timestamp)
	}
	return sum, nil
}
