package mcp

import (
	"context"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// mockReconciler is a mock implementation of driving.DocumentReconciler.
type mockReconciler struct {
	docs    []domain.Document
	sources []string
	err     error

	gotSource string
	gotDays   int
}

func (m *mockReconciler) Fetch(_ context.Context, source string, days int) ([]domain.Document, error) {
	m.gotSource, m.gotDays = source, days
	return m.docs, m.err
}

func (m *mockReconciler) Sources() []string {
	return m.sources
}

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	outcome *driving.RunOutcome
	err     error
	got     driving.RunRequest
}

func (m *mockPipeline) Run(_ context.Context, req driving.RunRequest) (*driving.RunOutcome, error) {
	m.got = req
	return m.outcome, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	gotType domain.AnalysisType
}

func (m *mockHistoryService) List(_ context.Context, t domain.AnalysisType) ([]domain.HistoryEntry, error) {
	m.gotType = t
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockHistoryService) Summary(_ context.Context) (*domain.HistorySummary, error) {
	return &domain.HistorySummary{Total: len(m.entries)}, m.err
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs     []domain.AnalysisRun
	outcome  *driving.RunOutcome
	err      error
	gotLimit int
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.AnalysisRun, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, _ string) (*driving.RunOutcome, error) {
	return m.outcome, m.err
}
