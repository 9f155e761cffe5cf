package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/adapters/driven/storage/memory"
	"github.com/ephemere-io/pickles/internal/core/domain"
)

func seededHistory(t *testing.T) *memory.HistoryStore {
	t.Helper()
	store := memory.NewHistoryStore(memory.DefaultHistorySize)
	ctx := context.Background()
	for _, e := range []domain.HistoryEntry{
		{Timestamp: day("2025-08-01"), Type: domain.AnalysisDomi, Insights: "first"},
		{Timestamp: day("2025-08-02"), Type: domain.AnalysisAga, Insights: "letter"},
		{Timestamp: day("2025-08-03"), Type: domain.AnalysisDomi, Insights: "second"},
	} {
		require.NoError(t, store.Append(ctx, e))
	}
	return store
}

func TestHistoryService_ListNewestFirst(t *testing.T) {
	svc := NewHistoryService(seededHistory(t))

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "second", all[0].Insights)

	domi, err := svc.List(context.Background(), domain.AnalysisDomi)
	require.NoError(t, err)
	require.Len(t, domi, 2)
	assert.Equal(t, "second", domi[0].Insights)
	assert.Equal(t, "first", domi[1].Insights)
}

func TestHistoryService_Summary(t *testing.T) {
	svc := NewHistoryService(seededHistory(t))

	sum, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.ByType[domain.AnalysisDomi])
	assert.Equal(t, "2025-08-01", sum.Oldest)
	assert.Equal(t, "2025-08-03", sum.Newest)
}

func TestHistoryService_Clear(t *testing.T) {
	svc := NewHistoryService(seededHistory(t))

	require.NoError(t, svc.Clear(context.Background()))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Empty(t, sum.Newest)
}
