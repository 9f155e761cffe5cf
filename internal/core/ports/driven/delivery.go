package driven

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// Deliverer renders and ships a report through one delivery method.
type Deliverer interface {
	// Method returns the delivery method name (console, file_html, ...).
	Method() string

	// Deliver ships the report. It returns where the report went: a file
	// path, a recipient address or "stdout".
	Deliver(ctx context.Context, report domain.Report) (string, error)
}
