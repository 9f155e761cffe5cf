package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/adapters/driven/storage/memory"
	"github.com/ephemere-io/pickles/internal/core/domain"
)

func TestRunService_Get(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	completed := time.Date(2025, 6, 10, 7, 1, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, &domain.AnalysisRun{
		ID:           "run-1",
		Status:       domain.RunCompleted,
		Insights:     "insights",
		Statistics:   "stats",
		RecentCount:  4,
		ContextCount: 20,
		CreatedAt:    completed.Add(-time.Minute),
		CompletedAt:  &completed,
	}))
	require.NoError(t, store.SaveDelivery(ctx, &domain.Delivery{
		ID: "d-1", RunID: "run-1", Method: domain.DeliveryConsole, Status: domain.DeliverySent,
	}))

	outcome, err := NewRunService(store).Get(ctx, "run-1")

	require.NoError(t, err)
	assert.Equal(t, "run-1", outcome.Run.ID)
	assert.Equal(t, "insights", outcome.Result.Insights)
	assert.Equal(t, "stats", outcome.Result.Statistics)
	assert.Equal(t, 4, outcome.Result.RecentCount)
	assert.Equal(t, 20, outcome.Result.ContextCount)
	require.Len(t, outcome.Deliveries, 1)
	assert.Equal(t, domain.DeliveryConsole, outcome.Deliveries[0].Method)
}

func TestRunService_GetErrors(t *testing.T) {
	service := NewRunService(memory.NewRunStore())

	_, err := service.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunService_ListDefaultsLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultRunListLimit+5; i++ {
		require.NoError(t, store.SaveRun(ctx, &domain.AnalysisRun{
			ID:        "run-" + string(rune('a'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := NewRunService(store).List(ctx, 0)

	require.NoError(t, err)
	assert.Len(t, runs, DefaultRunListLimit)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
}
