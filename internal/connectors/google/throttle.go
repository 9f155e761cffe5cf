package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Quota is a per-user request budget for one Google API.
type Quota struct {
	PerMinute int
	Burst     int
}

// Published per-user read quotas.
var (
	DocsQuota  = Quota{PerMinute: 60, Burst: 3}
	DriveQuota = Quota{PerMinute: 600, Burst: 10}
)

// DefaultPause is how long calls are held after a 429 without Retry-After.
const DefaultPause = time.Minute

// Throttle paces calls against a Quota and pauses every caller after the
// API reports the quota exhausted.
type Throttle struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
	now         func() time.Time
}

// NewThrottle creates a throttle for q.
func NewThrottle(q Quota) *Throttle {
	every := time.Minute / time.Duration(max(q.PerMinute, 1))
	return &Throttle{
		limiter: rate.NewLimiter(rate.Every(every), max(q.Burst, 1)),
		now:     time.Now,
	}
}

// Do waits for a slot, runs call and translates its error. A 429 pauses
// the throttle for the delay the server asked for.
func (t *Throttle) Do(ctx context.Context, call func() error) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	err := call()
	if err == nil {
		return nil
	}
	if delay, limited := retryAfter(err); limited {
		t.Pause(delay)
	}
	return Translate(err)
}

// Pause holds calls for d. A non-positive d uses DefaultPause.
func (t *Throttle) Pause(d time.Duration) {
	if d <= 0 {
		d = DefaultPause
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if until := t.now().Add(d); until.After(t.pausedUntil) {
		t.pausedUntil = until
	}
}

// Paused reports whether calls are currently held.
func (t *Throttle) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Before(t.pausedUntil)
}

func (t *Throttle) wait(ctx context.Context) error {
	t.mu.Lock()
	hold := t.pausedUntil.Sub(t.now())
	t.mu.Unlock()

	if hold > 0 {
		timer := time.NewTimer(hold)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.limiter.Wait(ctx)
}
