package driving

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// RunRequest describes one end-to-end pipeline execution.
type RunRequest struct {
	Source   string
	Days     int
	Type     domain.AnalysisType
	Language string
	UserName string

	// Delivery lists the delivery methods to use. Empty skips delivery.
	Delivery []string

	// Trigger overrides trigger detection when set.
	Trigger domain.TriggerType
}

// RunOutcome is the result of a pipeline execution.
type RunOutcome struct {
	Run        domain.AnalysisRun
	Result     domain.AnalysisResult
	Deliveries []domain.Delivery
}

// Pipeline fetches, analyzes and delivers.
type Pipeline interface {
	// Run executes the pipeline and records the run. The returned outcome
	// is non-nil whenever a run record was created, even on failure.
	Run(ctx context.Context, req RunRequest) (*RunOutcome, error)
}

// RunService exposes recorded runs.
type RunService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.AnalysisRun, error)

	// Get returns a run and its deliveries.
	Get(ctx context.Context, id string) (*RunOutcome, error)
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns effective settings: stored values, then environment
	// overrides, over defaults.
	Get() (*domain.Settings, error)

	// Set stores a single dotted key, e.g. "analysis.language".
	Set(key string, value any) error

	// Validate checks the effective settings.
	Validate() error

	// Keys lists the keys accepted by Set, sorted.
	Keys() []string

	// ConfigPath returns the config file location.
	ConfigPath() string
}

// Scheduler runs the pipeline on a cron schedule.
type Scheduler interface {
	// Start begins scheduling. It blocks until ctx is done or Stop is called.
	Start(ctx context.Context) error

	// Stop stops scheduling and waits for a running job to finish.
	Stop() error
}
