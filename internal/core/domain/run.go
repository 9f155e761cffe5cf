package domain

import "time"

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

// Run statuses.
const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// IsTerminal reports whether the run has finished.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed
}

// TriggerType records what started a run.
type TriggerType string

// Trigger types.
const (
	TriggerManual        TriggerType = "manual"
	TriggerGitHubActions TriggerType = "github_actions"
	TriggerSchedule      TriggerType = "schedule"
	TriggerMCP           TriggerType = "mcp"
)

// DetectTrigger inspects CI environment variables. It returns the trigger
// type and, for CI runs, the CI run identifier.
func DetectTrigger(getenv func(string) string) (TriggerType, string) {
	if getenv("GITHUB_ACTIONS") != "" {
		return TriggerGitHubActions, getenv("GITHUB_RUN_ID")
	}
	return TriggerManual, ""
}

// AnalysisRun is the record of one pipeline execution.
type AnalysisRun struct {
	ID           string
	Type         AnalysisType
	Days         int
	Source       string
	Status       RunStatus
	Insights     string
	Statistics   string
	ErrorMessage string
	TriggerType  TriggerType
	TriggerID    string
	RecentCount  int
	ContextCount int
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// DeliveryStatus is the state of a single delivery attempt.
type DeliveryStatus string

// Delivery statuses.
const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Delivery methods.
const (
	DeliveryConsole   = "console"
	DeliveryEmailText = "email_text"
	DeliveryEmailHTML = "email_html"
	DeliveryFileText  = "file_text"
	DeliveryFileHTML  = "file_html"
)

// AllDeliveryMethods returns the supported delivery methods.
func AllDeliveryMethods() []string {
	return []string{
		DeliveryConsole,
		DeliveryEmailText,
		DeliveryEmailHTML,
		DeliveryFileText,
		DeliveryFileHTML,
	}
}

// Delivery records one attempt to ship a report.
type Delivery struct {
	ID           string
	RunID        string
	Method       string
	Recipient    string
	Location     string
	Status       DeliveryStatus
	ErrorMessage string
	CreatedAt    time.Time
	SentAt       *time.Time
}

// Report is what deliverers render and ship.
type Report struct {
	RunID       string
	Type        AnalysisType
	Source      string
	Days        int
	Language    string
	Result      AnalysisResult
	GeneratedAt time.Time
}
