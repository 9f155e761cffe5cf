package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

// ==================== Store Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.HistoryStore(0).Append(ctx, domain.HistoryEntry{
		Timestamp: time.Now(),
		Type:      domain.AnalysisDomi,
		Insights:  "kept",
	}))
	require.NoError(t, store.Close())

	// Migrations are recorded and not re-run.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.HistoryStore(0).Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Insights)

	var versions int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 3, versions)

	v, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestOpen_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":   {Data: []byte("SELECT 1;")},
		"002_runs.up.sql":    {Data: []byte("SELECT 1;")},
		"002_runs.down.sql":  {Data: []byte("SELECT 1;")},
		"001_history.up.sql": {Data: []byte("SELECT 1;")},
		"notes.up.sql":       {Data: []byte("SELECT 1;")},
	}

	all, err := pendingMigrations(fsys, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{all[0].version, all[1].version, all[2].version})

	newer, err := pendingMigrations(fsys, 2)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "010_later.up.sql", newer[0].name)
}

// ==================== HistoryStore Tests ====================

func TestHistoryStore_AppendAndLoad(t *testing.T) {
	store := setupTestStore(t)
	history := store.HistoryStore(DefaultHistorySize)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, history.Append(ctx, domain.HistoryEntry{
		Timestamp: base.Add(time.Hour), Type: domain.AnalysisAga, DataSummary: "2 documents", Insights: "second",
	}))
	require.NoError(t, history.Append(ctx, domain.HistoryEntry{
		Timestamp: base, Type: domain.AnalysisDomi, Insights: "first",
	}))

	entries, err := history.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Insights)
	assert.Equal(t, "second", entries[1].Insights)
	assert.Equal(t, domain.AnalysisAga, entries[1].Type)
	assert.Equal(t, "2 documents", entries[1].DataSummary)
	assert.WithinDuration(t, base, entries[0].Timestamp, time.Second)
}

func TestHistoryStore_KeepsNewestEntries(t *testing.T) {
	store := setupTestStore(t)
	history := store.HistoryStore(3)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, history.Append(ctx, domain.HistoryEntry{
			Timestamp: base.AddDate(0, 0, i),
			Type:      domain.AnalysisDomi,
			Insights:  fmt.Sprintf("entry %d", i),
		}))
	}

	entries, err := history.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "entry 2", entries[0].Insights)
	assert.Equal(t, "entry 4", entries[2].Insights)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	history := store.HistoryStore(0)
	ctx := context.Background()

	require.NoError(t, history.Append(ctx, domain.HistoryEntry{Timestamp: time.Now(), Type: domain.AnalysisDomi}))
	require.NoError(t, history.Clear(ctx))

	entries, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// ==================== RunStore Tests ====================

func TestRunStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	created := time.Date(2025, 8, 10, 7, 0, 0, 0, time.UTC)
	run := &domain.AnalysisRun{
		ID:          "run-1",
		Type:        domain.AnalysisDomi,
		Days:        30,
		Source:      "notion",
		Status:      domain.RunRunning,
		TriggerType: domain.TriggerGitHubActions,
		TriggerID:   "42",
		CreatedAt:   created,
	}
	require.NoError(t, runs.SaveRun(ctx, run))

	completed := created.Add(time.Minute)
	run.Status = domain.RunCompleted
	run.Insights = "insight"
	run.Statistics = "fetched 3, after filter 3"
	run.RecentCount = 3
	run.ContextCount = 12
	run.CompletedAt = &completed
	require.NoError(t, runs.SaveRun(ctx, run))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, got.Status)
	assert.Equal(t, "insight", got.Insights)
	assert.Equal(t, 30, got.Days)
	assert.Equal(t, 3, got.RecentCount)
	assert.Equal(t, 12, got.ContextCount)
	assert.Equal(t, domain.TriggerGitHubActions, got.TriggerType)
	assert.Equal(t, "42", got.TriggerID)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, completed, *got.CompletedAt, time.Second)
}

func TestRunStore_GetRun_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.RunStore().GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListRunsNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, runs.SaveRun(ctx, &domain.AnalysisRun{
			ID:        fmt.Sprintf("run-%d", i),
			Type:      domain.AnalysisDomi,
			Days:      7,
			Source:    "notion",
			Status:    domain.RunCompleted,
			CreatedAt: base.AddDate(0, 0, i),
		}))
	}

	list, err := runs.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-3", list[0].ID)
	assert.Equal(t, "run-2", list[1].ID)
	assert.Nil(t, list[0].CompletedAt)
}

func TestRunStore_Deliveries(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	now := time.Date(2025, 8, 10, 7, 0, 0, 0, time.UTC)
	require.NoError(t, runs.SaveRun(ctx, &domain.AnalysisRun{
		ID: "run-1", Type: domain.AnalysisAga, Days: 7, Source: "gdocs", Status: domain.RunRunning, CreatedAt: now,
	}))

	sent := now.Add(time.Second)
	require.NoError(t, runs.SaveDelivery(ctx, &domain.Delivery{
		ID: "d-1", RunID: "run-1", Method: domain.DeliveryEmailHTML, Recipient: "me@example.com",
		Status: domain.DeliverySent, CreatedAt: now, SentAt: &sent,
	}))
	require.NoError(t, runs.SaveDelivery(ctx, &domain.Delivery{
		ID: "d-2", RunID: "run-1", Method: domain.DeliveryFileText,
		Status: domain.DeliveryFailed, ErrorMessage: "permission denied", CreatedAt: now.Add(time.Minute),
	}))

	list, err := runs.ListDeliveries(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "me@example.com", list[0].Recipient)
	assert.Equal(t, domain.DeliverySent, list[0].Status)
	require.NotNil(t, list[0].SentAt)
	assert.Equal(t, domain.DeliveryFailed, list[1].Status)
	assert.Equal(t, "permission denied", list[1].ErrorMessage)
	assert.Nil(t, list[1].SentAt)

	empty, err := runs.ListDeliveries(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRunStore_DeliveryRequiresRun(t *testing.T) {
	store := setupTestStore(t)

	err := store.RunStore().SaveDelivery(context.Background(), &domain.Delivery{
		ID: "d-1", RunID: "ghost", Method: domain.DeliveryConsole, Status: domain.DeliverySent,
	})

	assert.Error(t, err)
}
