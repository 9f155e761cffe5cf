package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline wires fetch, analysis and delivery into one recorded run.
type Pipeline struct {
	reconciler driving.DocumentReconciler
	analyzer   driving.Analyzer
	runs       driven.RunStore
	deliverers map[string]driven.Deliverer
	observer   driven.Observer

	now    func() time.Time
	newID  func() string
	getenv func(string) string
}

// NewPipeline creates a pipeline. runs and observer may be nil; a nil run
// store leaves runs unrecorded.
func NewPipeline(
	reconciler driving.DocumentReconciler,
	analyzer driving.Analyzer,
	runs driven.RunStore,
	observer driven.Observer,
	deliverers ...driven.Deliverer,
) *Pipeline {
	p := &Pipeline{
		reconciler: reconciler,
		analyzer:   analyzer,
		runs:       runs,
		deliverers: make(map[string]driven.Deliverer, len(deliverers)),
		observer:   observer,
		now:        time.Now,
		newID:      uuid.NewString,
		getenv:     os.Getenv,
	}
	for _, d := range deliverers {
		p.deliverers[d.Method()] = d
	}
	return p
}

// SetClock overrides the time source for run timestamps.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Run executes one analysis run.
func (p *Pipeline) Run(ctx context.Context, req driving.RunRequest) (*driving.RunOutcome, error) {
	if req.Days < domain.RecentWindowDays {
		return nil, domain.ErrWindowTooShort
	}
	if req.Type == "" {
		req.Type = domain.AnalysisDomi
	}
	for _, method := range req.Delivery {
		if p.deliverers[method] == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDelivery, method)
		}
	}

	run := domain.AnalysisRun{
		ID:        p.newID(),
		Type:      req.Type,
		Days:      req.Days,
		Source:    req.Source,
		Status:    domain.RunPending,
		CreatedAt: p.now(),
	}
	run.TriggerType, run.TriggerID = domain.DetectTrigger(p.getenv)
	if req.Trigger != "" {
		run.TriggerType, run.TriggerID = req.Trigger, ""
	}
	p.save(ctx, &run)

	run.Status = domain.RunRunning
	p.save(ctx, &run)

	outcome := &driving.RunOutcome{Run: run}

	analysisReq, err := p.fetch(ctx, req)
	if err != nil {
		p.fail(ctx, outcome, err)
		return outcome, err
	}

	result, err := p.analyzer.Analyze(ctx, analysisReq)
	if err != nil {
		p.fail(ctx, outcome, err)
		return outcome, err
	}
	outcome.Result = *result
	outcome.Run.Insights = result.Insights
	outcome.Run.Statistics = result.Statistics
	outcome.Run.RecentCount = result.RecentCount
	outcome.Run.ContextCount = result.ContextCount

	report := domain.Report{
		RunID:       run.ID,
		Type:        req.Type,
		Source:      req.Source,
		Days:        req.Days,
		Language:    analysisReq.Language,
		Result:      *result,
		GeneratedAt: p.now(),
	}
	for _, method := range req.Delivery {
		outcome.Deliveries = append(outcome.Deliveries, p.deliver(ctx, run.ID, method, report))
	}

	completed := p.now()
	outcome.Run.Status = domain.RunCompleted
	outcome.Run.CompletedAt = &completed
	p.save(ctx, &outcome.Run)

	p.emit(domain.EventInfo, "run", "run completed", map[string]string{
		"run":        run.ID,
		"deliveries": strconv.Itoa(len(outcome.Deliveries)),
	})
	return outcome, nil
}

// fetch builds the analysis request. A window longer than the recent one
// is fetched twice; when the recent fetch comes back empty, the recent
// entries are cut from the context instead.
func (p *Pipeline) fetch(ctx context.Context, req driving.RunRequest) (domain.AnalysisRequest, error) {
	out := domain.AnalysisRequest{
		Type:     req.Type,
		Language: req.Language,
		UserName: req.UserName,
	}

	if req.Days == domain.RecentWindowDays {
		recent, err := p.reconciler.Fetch(ctx, req.Source, domain.RecentWindowDays)
		if err != nil {
			return out, fmt.Errorf("fetch recent: %w", err)
		}
		if len(recent) == 0 {
			return out, domain.ErrNoData
		}
		out.Recent = recent
		return out, nil
	}

	contextDocs, err := p.reconciler.Fetch(ctx, req.Source, req.Days)
	if err != nil {
		return out, fmt.Errorf("fetch context: %w", err)
	}
	if len(contextDocs) == 0 {
		return out, domain.ErrNoData
	}

	recent, err := p.reconciler.Fetch(ctx, req.Source, domain.RecentWindowDays)
	if err != nil {
		return out, fmt.Errorf("fetch recent: %w", err)
	}
	if len(recent) == 0 {
		recent = domain.ExtractRecent(contextDocs, domain.RecentWindowDays)
		p.emit(domain.EventInfo, "fetch", "recent window empty, using latest context entries", map[string]string{
			"count": strconv.Itoa(len(recent)),
		})
	}

	out.Recent = recent
	out.Context = contextDocs
	out.ContextDays = req.Days
	return out, nil
}

func (p *Pipeline) deliver(ctx context.Context, runID, method string, report domain.Report) domain.Delivery {
	d := domain.Delivery{
		ID:        p.newID(),
		RunID:     runID,
		Method:    method,
		Status:    domain.DeliveryPending,
		CreatedAt: p.now(),
	}

	deliverer := p.deliverers[method]
	if r, ok := deliverer.(interface{ Recipient() string }); ok {
		d.Recipient = r.Recipient()
	}

	location, err := deliverer.Deliver(ctx, report)
	if err != nil {
		d.Status = domain.DeliveryFailed
		d.ErrorMessage = err.Error()
		p.emit(domain.EventWarn, "deliver", "delivery failed", map[string]string{
			"method": method,
			"error":  err.Error(),
		})
	} else {
		sent := p.now()
		d.Status = domain.DeliverySent
		d.Location = location
		d.SentAt = &sent
	}

	if p.runs != nil {
		if err := p.runs.SaveDelivery(ctx, &d); err != nil {
			p.emit(domain.EventWarn, "deliver", "failed to record delivery", map[string]string{"error": err.Error()})
		}
	}
	return d
}

func (p *Pipeline) fail(ctx context.Context, outcome *driving.RunOutcome, err error) {
	completed := p.now()
	outcome.Run.Status = domain.RunFailed
	outcome.Run.ErrorMessage = err.Error()
	outcome.Run.CompletedAt = &completed
	p.save(ctx, &outcome.Run)

	level := domain.EventWarn
	if errors.Is(err, domain.ErrNoData) {
		level = domain.EventInfo
	}
	p.emit(level, "run", "run failed", map[string]string{"run": outcome.Run.ID, "error": err.Error()})
}

// save records run state. Recording is best effort; a store failure does
// not abort the run.
func (p *Pipeline) save(ctx context.Context, run *domain.AnalysisRun) {
	if p.runs == nil {
		return
	}
	if err := p.runs.SaveRun(ctx, run); err != nil {
		p.emit(domain.EventWarn, "run", "failed to record run", map[string]string{"error": err.Error()})
	}
}

func (p *Pipeline) emit(level domain.EventLevel, stage, msg string, fields map[string]string) {
	if p.observer == nil {
		return
	}
	p.observer.Notify(domain.Event{Level: level, Stage: stage, Message: msg, Fields: fields})
}
