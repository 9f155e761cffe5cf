package google

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestThrottle_DoPassesThrough(t *testing.T) {
	th := NewThrottle(Quota{PerMinute: 6000, Burst: 5})
	calls := 0

	err := th.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, th.Paused())
}

func TestThrottle_DoPausesOnQuotaError(t *testing.T) {
	now := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	th := NewThrottle(DriveQuota)
	th.now = func() time.Time { return now }

	header := http.Header{}
	header.Set("Retry-After", "30")
	err := th.Do(context.Background(), func() error {
		return &googleapi.Error{Code: http.StatusTooManyRequests, Header: header}
	})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, th.Paused())
	assert.Equal(t, now.Add(30*time.Second), th.pausedUntil)
}

func TestThrottle_DoTranslatesErrors(t *testing.T) {
	th := NewThrottle(DocsQuota)

	err := th.Do(context.Background(), func() error {
		return &googleapi.Error{Code: http.StatusNotFound}
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, th.Paused())
}

func TestThrottle_PauseDefaultAndMonotonic(t *testing.T) {
	now := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	th := NewThrottle(DocsQuota)
	th.now = func() time.Time { return now }

	th.Pause(0)
	assert.Equal(t, now.Add(DefaultPause), th.pausedUntil)

	th.Pause(time.Second)
	assert.Equal(t, now.Add(DefaultPause), th.pausedUntil)
}

func TestThrottle_WaitRespectsContext(t *testing.T) {
	th := NewThrottle(DocsQuota)
	th.Pause(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := th.Do(ctx, func() error {
		called = true
		return errors.New("unreachable")
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
