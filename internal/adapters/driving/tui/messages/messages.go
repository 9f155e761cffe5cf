// Package messages defines Bubbletea message types for the report pager.
package messages

import (
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// RunCompleted carries the pipeline outcome back to the model.
type RunCompleted struct {
	Outcome *driving.RunOutcome
	Err     error
}
