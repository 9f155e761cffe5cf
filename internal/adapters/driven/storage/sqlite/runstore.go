package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = `id, analysis_type, days, source, status, insights, statistics, error_message,
	trigger_type, trigger_id, recent_count, context_count, created_at, completed_at`

// SaveRun inserts or updates a run.
func (s *runStore) SaveRun(ctx context.Context, run *domain.AnalysisRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			insights = excluded.insights,
			statistics = excluded.statistics,
			error_message = excluded.error_message,
			recent_count = excluded.recent_count,
			context_count = excluded.context_count,
			completed_at = excluded.completed_at
	`, run.ID, string(run.Type), run.Days, run.Source, string(run.Status),
		run.Insights, run.Statistics, run.ErrorMessage,
		string(run.TriggerType), run.TriggerID, run.RecentCount, run.ContextCount,
		run.CreatedAt.UTC(), nullTime(run.CompletedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM analysis_runs
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// SaveDelivery inserts or updates a delivery.
func (s *runStore) SaveDelivery(ctx context.Context, d *domain.Delivery) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, run_id, method, recipient, location, status, error_message, created_at, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			location = excluded.location,
			error_message = excluded.error_message,
			sent_at = excluded.sent_at
	`, d.ID, d.RunID, d.Method, d.Recipient, d.Location, string(d.Status), d.ErrorMessage,
		d.CreatedAt.UTC(), nullTime(d.SentAt))
	if err != nil {
		return fmt.Errorf("saving delivery: %w", err)
	}
	return nil
}

// ListDeliveries returns the deliveries recorded for a run, oldest first.
func (s *runStore) ListDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, method, recipient, location, status, error_message, created_at, sent_at
		FROM deliveries WHERE run_id = ? ORDER BY created_at ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying deliveries: %w", err)
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		var status string
		var createdAt, sentAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.RunID, &d.Method, &d.Recipient, &d.Location,
			&status, &d.ErrorMessage, &createdAt, &sentAt); err != nil {
			return nil, fmt.Errorf("scanning delivery: %w", err)
		}
		d.Status = domain.DeliveryStatus(status)
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time
		}
		d.SentAt = timePtr(sentAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ==================== Helpers ====================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	var typ, status, trigger string
	var createdAt, completedAt sql.NullTime
	err := row.Scan(&run.ID, &typ, &run.Days, &run.Source, &status,
		&run.Insights, &run.Statistics, &run.ErrorMessage,
		&trigger, &run.TriggerID, &run.RecentCount, &run.ContextCount,
		&createdAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Type = domain.AnalysisType(typ)
	run.Status = domain.RunStatus(status)
	run.TriggerType = domain.TriggerType(trigger)
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	run.CompletedAt = timePtr(completedAt)
	return &run, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
