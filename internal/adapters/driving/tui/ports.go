// Package tui provides the interactive report pager: it runs an analysis,
// then shows the report in a scrollable viewport.
package tui

import (
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ports aggregates the driving ports the pager uses.
type Ports struct {
	// Pipeline runs the analysis shown in the pager.
	Pipeline driving.Pipeline

	// Request is the run to execute.
	Request driving.RunRequest
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
