package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// DefaultRunLimit is the number of runs list_runs returns by default.
const DefaultRunLimit = 10

// FetchInput is the input schema for the fetch_journal tool.
type FetchInput struct {
	Source string `json:"source,omitempty" jsonschema:"data source: notion or gdocs (default from settings)"`
	Days   int    `json:"days,omitempty" jsonschema:"lookback window in days (default 7)"`
}

// FetchOutput is the output schema for the fetch_journal tool.
type FetchOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one journal entry.
type DocumentOutput struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// AnalyzeInput is the input schema for the analyze_journal tool.
type AnalyzeInput struct {
	Source   string `json:"source,omitempty" jsonschema:"data source: notion or gdocs (default from settings)"`
	Days     int    `json:"days,omitempty" jsonschema:"lookback window in days, at least 7"`
	Type     string `json:"type,omitempty" jsonschema:"analysis type: domi or aga"`
	Language string `json:"language,omitempty" jsonschema:"output language, e.g. English or Japanese"`
}

// AnalyzeOutput is the output schema for the analyze_journal tool.
type AnalyzeOutput struct {
	RunID        string `json:"run_id"`
	Insights     string `json:"insights"`
	Statistics   string `json:"statistics"`
	RecentCount  int    `json:"recent_count"`
	ContextCount int    `json:"context_count"`
}

// HistoryInput is the input schema for the list_history tool.
type HistoryInput struct {
	Type string `json:"type,omitempty" jsonschema:"only entries of this analysis type"`
}

// HistoryOutput is the output schema for the list_history tool.
type HistoryOutput struct {
	Entries []HistoryEntryOutput `json:"entries"`
	Count   int                  `json:"count"`

	// Stored counts every kept entry regardless of the type filter.
	Stored int `json:"stored"`
}

// HistoryEntryOutput is one past analysis.
type HistoryEntryOutput struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	DataSummary string `json:"data_summary"`
	Insights    string `json:"insights"`
}

// RunsInput is the input schema for the list_runs tool.
type RunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 10)"`
}

// RunsOutput is the output schema for the list_runs tool.
type RunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput summarizes one recorded run.
type RunOutput struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Days        int    `json:"days"`
	Status      string `json:"status"`
	Trigger     string `json:"trigger"`
	CreatedAt   string `json:"created_at"`
	Error       string `json:"error,omitempty"`
	RecentCount int    `json:"recent_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch_journal",
		Description: "Fetch journal entries dated within the last N days",
	}, s.handleFetch)

	if s.ports.Pipeline != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "analyze_journal",
			Description: "Analyze recent journal entries and return insights",
		}, s.handleAnalyze)
	}
	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_history",
			Description: "List past analyses, newest first",
		}, s.handleHistory)
	}
	if s.ports.Runs != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_runs",
			Description: "List recorded analysis runs, newest first",
		}, s.handleRuns)
	}
}

// handleFetch handles the fetch_journal tool invocation.
func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	req := s.ports.request(input.Source, input.Days, "", "")
	if req.Days <= 0 {
		req.Days = domain.RecentWindowDays
	}

	docs, err := s.ports.Reconciler.Fetch(ctx, req.Source, req.Days)
	if err != nil {
		return nil, FetchOutput{}, err
	}

	output := FetchOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, d := range docs {
		output.Documents[i] = DocumentOutput{Date: d.Date, Title: d.Title, Text: d.Text}
	}
	return nil, output, nil
}

// handleAnalyze handles the analyze_journal tool invocation. Reports are
// not delivered; the result goes back to the caller.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	req := s.ports.request(input.Source, input.Days, input.Type, input.Language)
	req.Trigger = domain.TriggerMCP

	outcome, err := s.ports.Pipeline.Run(ctx, req)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{
		RunID:        outcome.Run.ID,
		Insights:     outcome.Result.Insights,
		Statistics:   outcome.Result.Statistics,
		RecentCount:  outcome.Result.RecentCount,
		ContextCount: outcome.Result.ContextCount,
	}, nil
}

// handleHistory handles the list_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	entries, err := s.ports.History.List(ctx, domainType(input.Type))
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	sum, err := s.ports.History.Summary(ctx)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Entries: make([]HistoryEntryOutput, len(entries)),
		Count:   len(entries),
		Stored:  sum.Total,
	}
	for i, e := range entries {
		output.Entries[i] = HistoryEntryOutput{
			Date:        domain.DateOf(e.Timestamp),
			Type:        e.Type.String(),
			DataSummary: e.DataSummary,
			Insights:    e.Insights,
		}
	}
	return nil, output, nil
}

// handleRuns handles the list_runs tool invocation.
func (s *Server) handleRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunsInput,
) (*mcp.CallToolResult, RunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	runs, err := s.ports.Runs.List(ctx, limit)
	if err != nil {
		return nil, RunsOutput{}, fmt.Errorf("listing runs: %w", err)
	}

	output := RunsOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = runOutput(&runs[i])
	}
	return nil, output, nil
}

func runOutput(r *domain.AnalysisRun) RunOutput {
	return RunOutput{
		ID:          r.ID,
		Type:        r.Type.String(),
		Source:      r.Source,
		Days:        r.Days,
		Status:      string(r.Status),
		Trigger:     string(r.TriggerType),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Error:       r.ErrorMessage,
		RecentCount: r.RecentCount,
	}
}

func domainType(s string) domain.AnalysisType {
	return domain.AnalysisType(s)
}
