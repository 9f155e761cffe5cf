package memory

import (
	"context"
	"sync"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// DefaultHistorySize is the number of entries kept when no size is given.
const DefaultHistorySize = 10

// HistoryStore is a bounded in-memory history log.
type HistoryStore struct {
	mu      sync.RWMutex
	max     int
	entries []domain.HistoryEntry
}

// NewHistoryStore creates a store keeping at most max entries.
// A non-positive max uses DefaultHistorySize.
func NewHistoryStore(max int) *HistoryStore {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &HistoryStore{max: max}
}

// Load returns a copy of the stored entries, oldest first.
func (s *HistoryStore) Load(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Append stores an entry, evicting the oldest beyond capacity.
func (s *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.max; over > 0 {
		s.entries = append([]domain.HistoryEntry(nil), s.entries[over:]...)
	}
	return nil
}

// Clear removes all entries.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
