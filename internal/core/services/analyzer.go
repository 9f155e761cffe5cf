package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure Analyzer implements the interface.
var _ driving.Analyzer = (*Analyzer)(nil)

// NoDataInsight is returned instead of calling the model on empty input.
const NoDataInsight = "No data to analyze."

// DefaultHistoryTurns is how many past same-type analyses are replayed.
const DefaultHistoryTurns = 3

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	// History replays past analyses and records new ones.
	History bool

	// HistoryTurns is the number of past analyses replayed.
	HistoryTurns int

	MaxOutputTokens int
	Effort          string

	// MinLength drops shorter documents before analysis. Zero disables it.
	MinLength int
}

// Analyzer composes model requests and parses their responses.
//
// Per call: format, load history, build request, invoke, parse, save
// history. Only invoke and parse can fail.
type Analyzer struct {
	backend  driven.ModelBackend
	history  driven.HistoryStore
	prompts  *PromptBuilder
	opts     AnalyzerOptions
	observer driven.Observer
	now      func() time.Time
}

// NewAnalyzer creates an analyzer. history and observer may be nil; a nil
// history store disables history regardless of opts.History.
func NewAnalyzer(
	backend driven.ModelBackend,
	history driven.HistoryStore,
	prompts *PromptBuilder,
	opts AnalyzerOptions,
	observer driven.Observer,
) *Analyzer {
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = DefaultHistoryTurns
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = domain.DefaultMaxOutputTokens
	}
	if opts.Effort == "" {
		opts.Effort = domain.DefaultEffort
	}
	if prompts == nil {
		prompts = NewPromptBuilder(observer)
	}
	return &Analyzer{
		backend:  backend,
		history:  history,
		prompts:  prompts,
		opts:     opts,
		observer: observer,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for history timestamps.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Analyzer) historyEnabled() bool {
	return a.opts.History && a.history != nil
}

// Analyze runs one analysis.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	recent := FilterByLength(req.Recent, a.opts.MinLength)
	var contextDocs []domain.Document
	if req.HasContext() {
		contextDocs = FilterByLength(req.Context, a.opts.MinLength)
	}

	result := &domain.AnalysisResult{
		Statistics:   Statistics(req.Recent, recent, req.Context, contextDocs, req.HasContext()),
		RecentCount:  len(recent),
		ContextCount: len(contextDocs),
	}

	if len(recent) == 0 && len(contextDocs) == 0 {
		result.Insights = NoDataInsight
		result.Skipped = true
		a.emit(domain.EventInfo, "format", "no documents, skipping model call", nil)
		return result, nil
	}
	if a.backend == nil {
		return nil, domain.ErrModelUnavailable
	}

	filtered := req
	filtered.Recent = recent
	if req.HasContext() {
		filtered.Context = contextDocs
	}

	prompt, err := a.prompts.Build(filtered)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	messages := a.conversation(ctx, req.Type, prompt)

	a.emit(domain.EventInfo, "invoke", "sending request", map[string]string{
		"model":    a.backend.ModelName(),
		"messages": strconv.Itoa(len(messages)),
		"chars":    strconv.Itoa(len(prompt)),
	})
	resp, err := a.backend.Invoke(ctx, messages, driven.InvokeOptions{
		MaxOutputTokens: a.opts.MaxOutputTokens,
		Effort:          a.opts.Effort,
	})
	if err != nil {
		return nil, &domain.ModelInvocationError{Model: a.backend.ModelName(), Err: err}
	}

	insights, err := ParseResponse(resp)
	if err != nil {
		return nil, err
	}
	result.Insights = insights
	a.emit(domain.EventInfo, "parse", "response parsed", map[string]string{
		"chars": strconv.Itoa(len(insights)),
	})

	if a.historyEnabled() {
		entry := domain.HistoryEntry{
			Timestamp:   a.now(),
			Type:        req.Type,
			DataSummary: DataSummary(recent),
			Insights:    insights,
		}
		if err := a.history.Append(ctx, entry); err != nil {
			a.emit(domain.EventWarn, "save", "failed to store history", map[string]string{"error": err.Error()})
		}
	}

	return result, nil
}

// conversation builds the message list: replayed history turns for the
// same analysis type, then the prompt as the final user turn. History
// that cannot be loaded is skipped with a warning.
func (a *Analyzer) conversation(ctx context.Context, t domain.AnalysisType, prompt string) []domain.Message {
	current := domain.Message{Role: domain.RoleUser, Content: prompt}
	if !a.historyEnabled() {
		return []domain.Message{current}
	}

	entries, err := a.history.Load(ctx)
	if err != nil {
		a.emit(domain.EventWarn, "history", "failed to load history", map[string]string{"error": err.Error()})
		return []domain.Message{current}
	}

	messages := HistoryTurns(entries, t, a.opts.HistoryTurns)
	a.emit(domain.EventDebug, "history", "history loaded", map[string]string{
		"turns": strconv.Itoa(len(messages) / 2),
	})
	return append(messages, current)
}

// HistoryTurns converts the newest limit entries of type t into alternating
// user/assistant turns, oldest first. entries must be oldest first.
func HistoryTurns(entries []domain.HistoryEntry, t domain.AnalysisType, limit int) []domain.Message {
	var relevant []domain.HistoryEntry
	for _, e := range entries {
		if e.Type == t {
			relevant = append(relevant, e)
		}
	}
	if len(relevant) > limit {
		relevant = relevant[len(relevant)-limit:]
	}

	messages := make([]domain.Message, 0, len(relevant)*2+1)
	for _, e := range relevant {
		messages = append(messages,
			domain.Message{
				Role:    domain.RoleUser,
				Content: fmt.Sprintf("Previous analysis data (%s):\n%s", domain.DateOf(e.Timestamp), e.DataSummary),
			},
			domain.Message{Role: domain.RoleAssistant, Content: e.Insights},
		)
	}
	return messages
}

func (a *Analyzer) emit(level domain.EventLevel, stage, msg string, fields map[string]string) {
	if a.observer == nil {
		return
	}
	a.observer.Notify(domain.Event{Level: level, Stage: stage, Message: msg, Fields: fields})
}
