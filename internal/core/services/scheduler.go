package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs the pipeline on a cron schedule.
// A run still in progress when the next tick fires causes that tick to be
// skipped.
type Scheduler struct {
	schedule cron.Schedule
	spec     string
	location *time.Location
	pipeline driving.Pipeline
	request  driving.RunRequest
	observer driven.Observer

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a scheduler for a standard five-field cron spec
// evaluated in the configured timezone.
func NewScheduler(
	cfg domain.ScheduleSettings,
	pipeline driving.Pipeline,
	request driving.RunRequest,
	observer driven.Observer,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", domain.ErrInvalidInput, cfg.Timezone, err)
	}
	schedule, err := cron.ParseStandard(cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("%w: cron %q: %v", domain.ErrInvalidInput, cfg.Cron, err)
	}
	request.Trigger = domain.TriggerSchedule
	return &Scheduler{
		schedule: schedule,
		spec:     cfg.Cron,
		location: loc,
		pipeline: pipeline,
		request:  request,
		observer: observer,
	}, nil
}

// Next returns the next activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Start begins scheduling. This method blocks until ctx is done or Stop is
// called, then waits for a running job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	logger := cronLogger{observer: s.observer}
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))
	s.cron = c
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	c.Start()
	s.emit(domain.EventInfo, "scheduler started", map[string]string{
		"cron": s.spec,
		"tz":   s.location.String(),
		"next": s.Next(time.Now()).Format(time.RFC3339),
	})

	select {
	case <-ctx.Done():
	case <-stopCh:
	}

	<-c.Stop().Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.emit(domain.EventInfo, "scheduler stopped", nil)
	return nil
}

// Stop ends a running Start call.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.stopCh == nil {
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	return nil
}

// RunOnce executes one scheduled run. Failures are reported, not returned.
func (s *Scheduler) RunOnce(ctx context.Context) {
	outcome, err := s.pipeline.Run(ctx, s.request)
	if err != nil {
		s.emit(domain.EventWarn, "scheduled run failed", map[string]string{"error": err.Error()})
		return
	}
	s.emit(domain.EventInfo, "scheduled run completed", map[string]string{"run": outcome.Run.ID})
}

func (s *Scheduler) emit(level domain.EventLevel, msg string, fields map[string]string) {
	if s.observer == nil {
		return
	}
	s.observer.Notify(domain.Event{Level: level, Stage: "schedule", Message: msg, Fields: fields})
}

// cronLogger forwards cron's own log lines to the observer.
type cronLogger struct {
	observer driven.Observer
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.notify(domain.EventDebug, msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.notify(domain.EventWarn, msg, append(keysAndValues, "error", err))
}

func (l cronLogger) notify(level domain.EventLevel, msg string, kv []any) {
	if l.observer == nil {
		return
	}
	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = fmt.Sprint(kv[i+1])
	}
	l.observer.Notify(domain.Event{Level: level, Stage: "cron", Message: msg, Fields: fields})
}
