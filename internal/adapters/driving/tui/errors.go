package tui

import "errors"

// ErrMissingPipeline is returned when the pipeline is not provided.
var ErrMissingPipeline = errors.New("tui: pipeline is required")

// ErrNoOutcome is returned when a report pager is opened without a run.
var ErrNoOutcome = errors.New("tui: run outcome is required")
