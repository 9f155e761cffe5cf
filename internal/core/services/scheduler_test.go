package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// mockPipeline records pipeline requests.
type mockPipeline struct {
	mu       sync.Mutex
	requests []driving.RunRequest
	err      error
}

func (m *mockPipeline) Run(_ context.Context, req driving.RunRequest) (*driving.RunOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &driving.RunOutcome{Run: domain.AnalysisRun{ID: "run-1"}}, nil
}

func defaultSchedule() domain.ScheduleSettings {
	return domain.ScheduleSettings{Cron: domain.DefaultCron, Timezone: domain.DefaultTimezone}
}

func TestNewScheduler_RejectsBadConfig(t *testing.T) {
	_, err := NewScheduler(domain.ScheduleSettings{Cron: "not a cron", Timezone: "UTC"}, &mockPipeline{}, driving.RunRequest{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewScheduler(domain.ScheduleSettings{Cron: "0 7 * * 1", Timezone: "Mars/Olympus"}, &mockPipeline{}, driving.RunRequest{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScheduler_NextMondayMorningTokyo(t *testing.T) {
	s, err := NewScheduler(defaultSchedule(), &mockPipeline{}, driving.RunRequest{}, nil)
	require.NoError(t, err)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// Wednesday 2025-08-06 10:00 JST.
	from := time.Date(2025, 8, 6, 10, 0, 0, 0, tokyo)

	next := s.Next(from)

	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, "2025-08-11 07:00", next.In(tokyo).Format("2006-01-02 15:04"))
}

func TestScheduler_RunOnceMarksTrigger(t *testing.T) {
	pipeline := &mockPipeline{}
	obs := &recordingObserver{}
	s, err := NewScheduler(defaultSchedule(), pipeline, driving.RunRequest{Source: "notion", Days: 7}, obs)
	require.NoError(t, err)

	s.RunOnce(context.Background())

	require.Len(t, pipeline.requests, 1)
	assert.Equal(t, domain.TriggerSchedule, pipeline.requests[0].Trigger)
	assert.Equal(t, "notion", pipeline.requests[0].Source)
	assert.Equal(t, 1, obs.count(domain.EventInfo, "schedule"))
}

func TestScheduler_RunOnceFailureIsReported(t *testing.T) {
	pipeline := &mockPipeline{err: errors.New("no data")}
	obs := &recordingObserver{}
	s, err := NewScheduler(defaultSchedule(), pipeline, driving.RunRequest{}, obs)
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Equal(t, 1, obs.count(domain.EventWarn, "schedule"))
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(defaultSchedule(), &mockPipeline{}, driving.RunRequest{}, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.running
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.NoError(t, s.Stop(), "stopping twice is a no-op")
}

func TestScheduler_StartReturnsOnContextCancel(t *testing.T) {
	s, err := NewScheduler(defaultSchedule(), &mockPipeline{}, driving.RunRequest{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
