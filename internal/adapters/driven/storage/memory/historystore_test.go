package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

func TestHistoryStore_AppendAndLoad(t *testing.T) {
	store := NewHistoryStore(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, domain.HistoryEntry{
			Timestamp: time.Date(2025, 8, i+1, 0, 0, 0, 0, time.UTC),
			Type:      domain.AnalysisDomi,
			Insights:  fmt.Sprintf("insight %d", i),
		}))
	}

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "insight 2", entries[0].Insights)
	assert.Equal(t, "insight 4", entries[2].Insights)
}

func TestHistoryStore_DefaultSize(t *testing.T) {
	store := NewHistoryStore(0)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, store.Append(ctx, domain.HistoryEntry{Type: domain.AnalysisAga}))
	}

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultHistorySize)
}

func TestHistoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewHistoryStore(5)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, domain.HistoryEntry{Insights: "a"}))

	entries, _ := store.Load(ctx)
	entries[0].Insights = "mutated"

	again, _ := store.Load(ctx)
	assert.Equal(t, "a", again[0].Insights)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := NewHistoryStore(5)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, domain.HistoryEntry{Insights: "a"}))

	require.NoError(t, store.Clear(ctx))

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
