package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// DefaultHistorySize is the number of analyses kept.
const DefaultHistorySize = 10

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
	max   int
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Load returns all entries, oldest first.
func (s *historyStore) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT timestamp, analysis_type, data_summary, insights
		FROM analysis_history ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var ts sql.NullTime
		var typ string
		if err := rows.Scan(&ts, &typ, &e.DataSummary, &e.Insights); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		e.Type = domain.AnalysisType(typ)
		if ts.Valid {
			e.Timestamp = ts.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append adds an entry and prunes the oldest beyond the size limit.
func (s *historyStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_history (timestamp, analysis_type, data_summary, insights)
		VALUES (?, ?, ?, ?)
	`, entry.Timestamp.UTC(), string(entry.Type), entry.DataSummary, entry.Insights)
	if err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM analysis_history WHERE id NOT IN (
			SELECT id FROM analysis_history ORDER BY timestamp DESC, id DESC LIMIT ?
		)
	`, s.max)
	if err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM analysis_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
