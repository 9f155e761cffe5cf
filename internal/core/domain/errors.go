package domain

import (
	"errors"
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWindow indicates a non-positive lookback.
	ErrInvalidWindow = errors.New("lookback days must be positive")

	// ErrWindowTooShort indicates a pipeline run asked for fewer days than
	// the recent window.
	ErrWindowTooShort = errors.New("days must be at least 7")

	// ErrNoData indicates the data source had no matching content.
	ErrNoData = errors.New("data source had no matching content")

	// ErrUnknownSource indicates a source name with no configured adapter.
	ErrUnknownSource = errors.New("unknown source")

	// ErrUnknownDelivery indicates a delivery method with no deliverer.
	ErrUnknownDelivery = errors.New("unknown delivery method")

	// ErrNotConfigured indicates a required setting is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrModelUnavailable indicates no model backend is configured.
	ErrModelUnavailable = errors.New("model backend unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// SourceAccessError is an unrecoverable failure reaching a data source:
// bad credentials, permission denial or a malformed source identifier.
type SourceAccessError struct {
	Source string
	Op     string
	Err    error
}

func (e *SourceAccessError) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *SourceAccessError) Unwrap() error {
	return e.Err
}

// ModelInvocationError wraps a failed model backend call.
type ModelInvocationError struct {
	Model string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("model invocation failed: %v", e.Err)
	}
	return fmt.Sprintf("model invocation failed (%s): %v", e.Model, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// ResponseShapeError reports a model response that matched no known shape.
type ResponseShapeError struct {
	// Reason describes the mismatch.
	Reason string

	// PresentTypes lists the output item types that were found.
	PresentTypes []string
}

func (e *ResponseShapeError) Error() string {
	if len(e.PresentTypes) == 0 {
		return "unrecognized model response: " + e.Reason
	}
	return fmt.Sprintf("unrecognized model response: %s (present types: %s)",
		e.Reason, strings.Join(e.PresentTypes, ", "))
}
