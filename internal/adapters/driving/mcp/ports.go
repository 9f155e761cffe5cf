package mcp

import (
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Reconciler fetches journal documents. Required.
	Reconciler driving.DocumentReconciler

	// Pipeline runs analyses. Without it analyze_journal is not registered.
	Pipeline driving.Pipeline

	// History lists past analyses. Optional.
	History driving.HistoryService

	// Runs lists recorded runs. Optional.
	Runs driving.RunService

	// Defaults fills fields a tool call leaves empty.
	Defaults driving.RunRequest
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Reconciler == nil {
		return ErrMissingReconciler
	}
	return nil
}

// request merges a tool call's arguments over the defaults.
func (p *Ports) request(source string, days int, analysisType, language string) driving.RunRequest {
	req := p.Defaults
	req.Delivery = nil
	if source != "" {
		req.Source = source
	}
	if days > 0 {
		req.Days = days
	}
	if analysisType != "" {
		req.Type = domainType(analysisType)
	}
	if language != "" {
		req.Language = language
	}
	return req
}
