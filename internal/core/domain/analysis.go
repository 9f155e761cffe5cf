package domain

import "time"

// AnalysisType selects the prompt family used for an analysis.
type AnalysisType string

// Known analysis types. Unknown values are allowed and fall back to a
// generic prompt.
const (
	// AnalysisDomi looks for thinking patterns, interests and activity trends.
	AnalysisDomi AnalysisType = "domi"

	// AnalysisAga writes a reflective letter addressed to the user.
	AnalysisAga AnalysisType = "aga"
)

// String returns the string representation.
func (t AnalysisType) String() string {
	return string(t)
}

// IsKnown returns true if the type has a dedicated prompt family.
func (t AnalysisType) IsKnown() bool {
	switch t {
	case AnalysisDomi, AnalysisAga:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the type.
func (t AnalysisType) Description() string {
	switch t {
	case AnalysisDomi:
		return "Domi (patterns, interests and trends)"
	case AnalysisAga:
		return "Aga (reflective letter)"
	default:
		return unknownDescription
	}
}

// AllAnalysisTypes returns the types with dedicated prompt families.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{AnalysisDomi, AnalysisAga}
}

// AnalysisRequest is the input to a single analysis call.
type AnalysisRequest struct {
	// Recent is the primary window, oldest first.
	Recent []Document

	// Context is the optional longer window. Nil means no context.
	Context []Document

	// ContextDays is the lookback of Context, used in section labels.
	ContextDays int

	// Type selects the prompt family.
	Type AnalysisType

	// Language is the requested output language.
	Language string

	// UserName personalizes salutations. Optional.
	UserName string
}

// HasContext reports whether a context window was supplied.
func (r AnalysisRequest) HasContext() bool {
	return r.Context != nil
}

// AnalysisResult is the output of a single analysis call.
type AnalysisResult struct {
	Statistics   string
	Insights     string
	RecentCount  int
	ContextCount int

	// Skipped is true when the model was not called because there was no data.
	Skipped bool
}

// HistoryEntry is a remembered past analysis.
type HistoryEntry struct {
	Timestamp   time.Time
	Type        AnalysisType
	DataSummary string
	Insights    string
}

// HistorySummary counts stored analyses.
type HistorySummary struct {
	Total  int
	ByType map[AnalysisType]int

	// Oldest and Newest are YYYY-MM-DD dates, empty when there is no history.
	Oldest string
	Newest string
}

// Message roles for model conversations.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one conversation turn sent to a model backend.
type Message struct {
	Role    string
	Content string
}

// RawResponse is the loosely typed model response. Backends decode their
// payload into this shape: an "output" list of typed items.
type RawResponse map[string]any

// EventLevel is the severity of a pipeline event.
type EventLevel string

// Event levels.
const (
	EventDebug EventLevel = "debug"
	EventInfo  EventLevel = "info"
	EventWarn  EventLevel = "warn"
)

// Event is an observability notification emitted by core services.
type Event struct {
	Level   EventLevel
	Stage   string
	Message string
	Fields  map[string]string
}
