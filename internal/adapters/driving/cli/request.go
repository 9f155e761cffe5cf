package cli

import (
	"strings"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// runFlags are the request overrides shared by analyze and schedule.
type runFlags struct {
	source   string
	days     int
	kind     string
	language string
	userName string
	delivery string
}

// defaultRequest builds a run request from the effective settings. Without
// a settings service the built-in defaults are used.
func defaultRequest() driving.RunRequest {
	settings := domain.DefaultSettings()
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s != nil {
			settings = *s
		}
	}
	return driving.RunRequest{
		Source:   settings.Source.String(),
		Days:     settings.Analysis.Days,
		Type:     settings.Analysis.Type,
		Language: settings.Analysis.Language,
		UserName: settings.Analysis.UserName,
		Delivery: settings.Delivery.Methods,
	}
}

// apply overlays non-zero flags on req.
func (f runFlags) apply(req driving.RunRequest) driving.RunRequest {
	if f.source != "" {
		req.Source = f.source
	}
	if f.days > 0 {
		req.Days = f.days
	}
	if f.kind != "" {
		req.Type = domain.AnalysisType(f.kind)
	}
	if f.language != "" {
		req.Language = f.language
	}
	if f.userName != "" {
		req.UserName = f.userName
	}
	if f.delivery != "" {
		req.Delivery = splitList(f.delivery)
	}
	return req
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
