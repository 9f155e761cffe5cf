package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/adapters/driven/storage/memory"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// fakeReconciler returns canned documents per window size.
type fakeReconciler struct {
	byDays map[int][]domain.Document
	err    error
	calls  []int
}

func (f *fakeReconciler) Fetch(_ context.Context, _ string, days int) ([]domain.Document, error) {
	f.calls = append(f.calls, days)
	if f.err != nil {
		return nil, f.err
	}
	return f.byDays[days], nil
}

func (f *fakeReconciler) Sources() []string { return []string{"notion"} }

// fakeDeliverer records delivered reports.
type fakeDeliverer struct {
	method  string
	err     error
	reports []domain.Report
}

func (f *fakeDeliverer) Method() string { return f.method }

func (f *fakeDeliverer) Deliver(_ context.Context, r domain.Report) (string, error) {
	f.reports = append(f.reports, r)
	if f.err != nil {
		return "", f.err
	}
	return "out/" + f.method, nil
}

func newTestPipeline(rec driving.DocumentReconciler, backend *fakeBackend, runs *memory.RunStore, deliverers ...*fakeDeliverer) *Pipeline {
	a := NewAnalyzer(backend, nil, nil, AnalyzerOptions{}, nil)
	p := NewPipeline(rec, a, runs, nil)
	for _, d := range deliverers {
		p.deliverers[d.method] = d
	}
	p.SetClock(func() time.Time { return testToday })
	n := 0
	p.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	p.getenv = func(string) string { return "" }
	return p
}

func TestPipeline_RejectsShortWindow(t *testing.T) {
	rec := &fakeReconciler{}
	runs := memory.NewRunStore()
	p := newTestPipeline(rec, &fakeBackend{}, runs)

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 3})

	assert.ErrorIs(t, err, domain.ErrWindowTooShort)
	assert.Nil(t, outcome)
	assert.Empty(t, rec.calls)
	listed, _ := runs.ListRuns(context.Background(), 10)
	assert.Empty(t, listed)
}

func TestPipeline_SevenDays(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	backend := &fakeBackend{resp: textResponse("weekly insight")}
	runs := memory.NewRunStore()
	console := &fakeDeliverer{method: domain.DeliveryConsole}
	p := newTestPipeline(rec, backend, runs, console)

	outcome, err := p.Run(context.Background(), driving.RunRequest{
		Source:   "notion",
		Days:     7,
		Type:     domain.AnalysisDomi,
		Delivery: []string{domain.DeliveryConsole},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{7}, rec.calls)
	assert.Equal(t, domain.RunCompleted, outcome.Run.Status)
	assert.Equal(t, "weekly insight", outcome.Run.Insights)
	assert.Equal(t, 2, outcome.Run.RecentCount)
	assert.Equal(t, domain.TriggerManual, outcome.Run.TriggerType)
	require.NotNil(t, outcome.Run.CompletedAt)

	require.Len(t, console.reports, 1)
	assert.Equal(t, outcome.Run.ID, console.reports[0].RunID)
	require.Len(t, outcome.Deliveries, 1)
	assert.Equal(t, domain.DeliverySent, outcome.Deliveries[0].Status)
	assert.Equal(t, "out/console", outcome.Deliveries[0].Location)

	stored, err := runs.GetRun(context.Background(), outcome.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, stored.Status)
	deliveries, err := runs.ListDeliveries(context.Background(), outcome.Run.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

func TestPipeline_SevenDaysEmptyIsNoData(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{}}
	backend := &fakeBackend{}
	runs := memory.NewRunStore()
	p := newTestPipeline(rec, backend, runs)

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7})

	assert.ErrorIs(t, err, domain.ErrNoData)
	require.NotNil(t, outcome)
	assert.Equal(t, domain.RunFailed, outcome.Run.Status)
	assert.Zero(t, backend.calls)

	stored, err := runs.GetRun(context.Background(), outcome.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
}

func TestPipeline_LongWindowFetchesTwice(t *testing.T) {
	contextDocs := []domain.Document{
		{Date: "2025-07-15", Text: "july"},
		{Date: "2025-08-09", Text: "august"},
	}
	rec := &fakeReconciler{byDays: map[int][]domain.Document{
		30: contextDocs,
		7:  {{Date: "2025-08-09", Text: "august"}},
	}}
	backend := &fakeBackend{resp: textResponse("monthly")}
	p := newTestPipeline(rec, backend, memory.NewRunStore())

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 30, Type: domain.AnalysisDomi})

	require.NoError(t, err)
	assert.Equal(t, []int{30, 7}, rec.calls)
	assert.Equal(t, 2, outcome.Run.ContextCount)
	assert.Equal(t, 1, outcome.Run.RecentCount)
	assert.Contains(t, backend.messages[0].Content, "[Context: past 30 days]")
}

func TestPipeline_LongWindowRecentFallback(t *testing.T) {
	contextDocs := []domain.Document{
		{Date: "2025-06-20", Text: "june"},
		{Date: "2025-07-01", Text: "early july"},
		{Date: "2025-07-05", Text: "later july"},
	}
	rec := &fakeReconciler{byDays: map[int][]domain.Document{60: contextDocs}}
	backend := &fakeBackend{resp: textResponse("ok")}
	p := newTestPipeline(rec, backend, memory.NewRunStore())

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 60, Type: domain.AnalysisDomi})

	require.NoError(t, err)
	// Latest is 2025-07-05; entries after 2025-06-28 are kept.
	assert.Equal(t, 2, outcome.Run.RecentCount)
	assert.Equal(t, 3, outcome.Run.ContextCount)
}

func TestPipeline_LongWindowEmptyContextIsNoData(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	p := newTestPipeline(rec, &fakeBackend{}, memory.NewRunStore())

	_, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 14})

	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.Equal(t, []int{14}, rec.calls)
}

func TestPipeline_FetchErrorFailsRun(t *testing.T) {
	rec := &fakeReconciler{err: &domain.SourceAccessError{Source: "notion", Op: "search", Err: errors.New("401")}}
	p := newTestPipeline(rec, &fakeBackend{}, memory.NewRunStore())

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7})

	var accessErr *domain.SourceAccessError
	assert.True(t, errors.As(err, &accessErr))
	assert.Equal(t, domain.RunFailed, outcome.Run.Status)
}

func TestPipeline_AnalyzeErrorFailsRun(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	p := newTestPipeline(rec, &fakeBackend{err: errors.New("boom")}, memory.NewRunStore())

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7})

	var invokeErr *domain.ModelInvocationError
	assert.True(t, errors.As(err, &invokeErr))
	assert.Equal(t, domain.RunFailed, outcome.Run.Status)
	assert.Contains(t, outcome.Run.ErrorMessage, "boom")
}

func TestPipeline_DeliveryFailureDoesNotFailRun(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	email := &fakeDeliverer{method: domain.DeliveryEmailText, err: errors.New("smtp down")}
	file := &fakeDeliverer{method: domain.DeliveryFileText}
	p := newTestPipeline(rec, &fakeBackend{resp: textResponse("ok")}, memory.NewRunStore(), email, file)

	outcome, err := p.Run(context.Background(), driving.RunRequest{
		Source:   "notion",
		Days:     7,
		Delivery: []string{domain.DeliveryEmailText, domain.DeliveryFileText},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, outcome.Run.Status)
	require.Len(t, outcome.Deliveries, 2)
	assert.Equal(t, domain.DeliveryFailed, outcome.Deliveries[0].Status)
	assert.Equal(t, "smtp down", outcome.Deliveries[0].ErrorMessage)
	assert.Equal(t, domain.DeliverySent, outcome.Deliveries[1].Status)
}

func TestPipeline_UnknownDeliveryMethod(t *testing.T) {
	rec := &fakeReconciler{}
	p := newTestPipeline(rec, &fakeBackend{}, memory.NewRunStore())

	_, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7, Delivery: []string{"fax"}})

	assert.ErrorIs(t, err, domain.ErrUnknownDelivery)
	assert.Empty(t, rec.calls)
}

func TestPipeline_TriggerDetection(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	p := newTestPipeline(rec, &fakeBackend{resp: textResponse("ok")}, memory.NewRunStore())
	p.getenv = func(k string) string {
		return map[string]string{"GITHUB_ACTIONS": "true", "GITHUB_RUN_ID": "42"}[k]
	}

	outcome, err := p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerGitHubActions, outcome.Run.TriggerType)
	assert.Equal(t, "42", outcome.Run.TriggerID)

	outcome, err = p.Run(context.Background(), driving.RunRequest{Source: "notion", Days: 7, Trigger: domain.TriggerMCP})
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerMCP, outcome.Run.TriggerType)
	assert.Empty(t, outcome.Run.TriggerID)
}

func TestRunService_GetAfterPipelineRun(t *testing.T) {
	rec := &fakeReconciler{byDays: map[int][]domain.Document{7: recentDocs()}}
	runs := memory.NewRunStore()
	file := &fakeDeliverer{method: domain.DeliveryFileHTML}
	p := newTestPipeline(rec, &fakeBackend{resp: textResponse("stored insight")}, runs, file)
	outcome, err := p.Run(context.Background(), driving.RunRequest{
		Source: "notion", Days: 7, Delivery: []string{domain.DeliveryFileHTML},
	})
	require.NoError(t, err)

	svc := NewRunService(runs)
	got, err := svc.Get(context.Background(), outcome.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored insight", got.Result.Insights)
	assert.Len(t, got.Deliveries, 1)

	list, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
