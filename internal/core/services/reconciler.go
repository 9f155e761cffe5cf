package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// Ensure Reconciler implements the interface.
var _ driving.DocumentReconciler = (*Reconciler)(nil)

// ReconcilerOptions tunes unstructured pagination.
type ReconcilerOptions struct {
	// StaleThreshold ends pagination once this many consecutive records
	// fall outside the window.
	StaleThreshold int

	// MaxRecords caps the number of records examined.
	MaxRecords int

	// FullScan disables both limits and pages through everything.
	FullScan bool
}

// DefaultReconcilerOptions returns the reference pagination limits.
func DefaultReconcilerOptions() ReconcilerOptions {
	return ReconcilerOptions{
		StaleThreshold: domain.DefaultStaleThreshold,
		MaxRecords:     domain.DefaultMaxRecords,
	}
}

// Reconciler fetches documents from registered sources.
//
// Workspace sources are read with a tiered strategy: a structured container
// query when one exists, otherwise a paginated search sorted by most
// recently edited. The search stops early after a run of out-of-window
// records. This assumes edit order tracks content recency, which is an
// approximation: an old entry edited after a long run of untouched ones can
// be missed. FullScan trades that for a complete walk.
//
// Calls are sequential, including one body fetch per matched record.
type Reconciler struct {
	workspaces map[string]driven.WorkspaceSource
	documents  map[string]driven.DocumentSource
	opts       ReconcilerOptions
	observer   driven.Observer
	now        func() time.Time
}

// NewReconciler creates a reconciler with no sources registered.
// Zero option values fall back to the defaults. observer may be nil.
func NewReconciler(opts ReconcilerOptions, observer driven.Observer) *Reconciler {
	defaults := DefaultReconcilerOptions()
	if opts.StaleThreshold <= 0 {
		opts.StaleThreshold = defaults.StaleThreshold
	}
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = defaults.MaxRecords
	}
	return &Reconciler{
		workspaces: make(map[string]driven.WorkspaceSource),
		documents:  make(map[string]driven.DocumentSource),
		opts:       opts,
		observer:   observer,
		now:        time.Now,
	}
}

// RegisterWorkspace adds a workspace source under its name.
func (r *Reconciler) RegisterWorkspace(src driven.WorkspaceSource) {
	r.workspaces[src.Name()] = src
}

// RegisterDocument adds a document source under its name.
func (r *Reconciler) RegisterDocument(src driven.DocumentSource) {
	r.documents[src.Name()] = src
}

// SetClock overrides the time source used to compute the cutoff.
func (r *Reconciler) SetClock(now func() time.Time) {
	r.now = now
}

// Sources lists registered source names in sorted order.
func (r *Reconciler) Sources() []string {
	names := make([]string, 0, len(r.workspaces)+len(r.documents))
	for name := range r.workspaces {
		names = append(names, name)
	}
	for name := range r.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fetch returns the documents of source dated within the last days days.
func (r *Reconciler) Fetch(ctx context.Context, source string, days int) ([]domain.Document, error) {
	window, err := domain.NewFetchWindow(r.now(), days)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	switch {
	case r.workspaces[source] != nil:
		docs, err = r.fetchWorkspace(ctx, r.workspaces[source], window)
	case r.documents[source] != nil:
		docs, err = r.fetchDocument(ctx, r.documents[source], window)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}
	if err != nil {
		return nil, err
	}

	domain.SortByDate(docs)
	r.emit(domain.EventInfo, "fetch", "documents reconciled", map[string]string{
		"source": source,
		"cutoff": window.Cutoff,
		"count":  strconv.Itoa(len(docs)),
	})
	return docs, nil
}

func (r *Reconciler) fetchWorkspace(
	ctx context.Context,
	src driven.WorkspaceSource,
	window domain.FetchWindow,
) ([]domain.Document, error) {
	if err := src.CheckAccess(ctx); err != nil {
		return nil, &domain.SourceAccessError{Source: src.Name(), Op: "check access", Err: err}
	}

	probe := src.ProbeStructured(ctx)
	if probe.Found() {
		records, err := r.queryStructured(ctx, src, *probe.Container, window)
		if err == nil {
			return r.buildDocuments(ctx, src, records, domain.DatabaseEntryTitle), nil
		}
		r.emit(domain.EventWarn, "probe", "structured query failed, falling back to search", map[string]string{
			"container": probe.Container.ID,
			"error":     err.Error(),
		})
	} else if probe.Failure != nil {
		r.emit(domain.EventWarn, "probe", "structured probe failed, falling back to search", map[string]string{
			"error": probe.Failure.Error(),
		})
	}

	records, err := r.searchUnstructured(ctx, src, window)
	if err != nil {
		return nil, err
	}
	return r.buildDocuments(ctx, src, records, domain.UntitledTitle), nil
}

// queryStructured filters server-side when the container has a date field
// and client-side otherwise.
func (r *Reconciler) queryStructured(
	ctx context.Context,
	src driven.WorkspaceSource,
	container domain.ContainerHandle,
	window domain.FetchWindow,
) ([]domain.RawRecord, error) {
	if container.HasDateField() {
		records, err := src.QueryByDate(ctx, container, window.Cutoff)
		if err != nil {
			return nil, fmt.Errorf("query by date: %w", err)
		}
		// The server filter only sees the date field; records with it unset
		// still need the creation-date check.
		return filterRecords(records, window), nil
	}

	records, err := src.QueryAll(ctx, container)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	return filterRecords(records, window), nil
}

// searchUnstructured pages through search results until the stale streak
// exceeds the threshold, the record cap is hit, or results run out.
func (r *Reconciler) searchUnstructured(
	ctx context.Context,
	src driven.WorkspaceSource,
	window domain.FetchWindow,
) ([]domain.RawRecord, error) {
	var (
		matched  []domain.RawRecord
		examined int
		streak   int
		cursor   string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := src.SearchUnstructured(ctx, window.Cutoff, cursor)
		if err != nil {
			return nil, &domain.SourceAccessError{Source: src.Name(), Op: "search", Err: err}
		}

		stop := false
		for _, rec := range page.Records {
			if !r.opts.FullScan && examined >= r.opts.MaxRecords {
				stop = true
				break
			}
			examined++

			if window.Contains(rec.EffectiveDate()) {
				matched = append(matched, rec)
				streak = 0
				continue
			}
			// A recent edit means the edit-ordered stream has not yet moved
			// past the window, even though this record is excluded.
			if window.Contains(domain.DateOf(rec.LastEditedTime)) {
				streak = 0
				continue
			}
			streak++
			if !r.opts.FullScan && streak > r.opts.StaleThreshold {
				stop = true
				break
			}
		}

		if stop || !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	r.emit(domain.EventDebug, "search", "pagination finished", map[string]string{
		"examined": strconv.Itoa(examined),
		"matched":  strconv.Itoa(len(matched)),
	})
	return matched, nil
}

// buildDocuments extracts each record, fetching its body. A failed body
// fetch keeps the record with whatever the fields provide.
func (r *Reconciler) buildDocuments(
	ctx context.Context,
	src driven.WorkspaceSource,
	records []domain.RawRecord,
	fallbackTitle string,
) []domain.Document {
	seen := make(map[string]bool, len(records))
	docs := make([]domain.Document, 0, len(records))

	for _, rec := range records {
		if rec.ID != "" {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
		}

		blocks, err := src.FetchBody(ctx, rec.ID)
		if err != nil {
			r.emit(domain.EventWarn, "extract", "body fetch failed, keeping record without body", map[string]string{
				"record": rec.ID,
				"error":  err.Error(),
			})
			blocks = nil
		}

		docs = append(docs, domain.Document{
			Date:  rec.EffectiveDate(),
			Title: RecordTitle(rec.Fields, fallbackTitle),
			Text:  ExtractText(rec.Fields, blocks),
		})
	}
	return docs
}

func (r *Reconciler) fetchDocument(
	ctx context.Context,
	src driven.DocumentSource,
	window domain.FetchWindow,
) ([]domain.Document, error) {
	if err := src.CheckAccess(ctx); err != nil {
		return nil, &domain.SourceAccessError{Source: src.Name(), Op: "check access", Err: err}
	}

	paragraphs, err := src.Paragraphs(ctx)
	if err != nil {
		return nil, &domain.SourceAccessError{Source: src.Name(), Op: "read document", Err: err}
	}

	var docs []domain.Document
	for _, d := range ParseJournalSections(paragraphs) {
		if window.Contains(d.Date) {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (r *Reconciler) emit(level domain.EventLevel, stage, msg string, fields map[string]string) {
	if r.observer == nil {
		return
	}
	r.observer.Notify(domain.Event{Level: level, Stage: stage, Message: msg, Fields: fields})
}

func filterRecords(records []domain.RawRecord, window domain.FetchWindow) []domain.RawRecord {
	out := make([]domain.RawRecord, 0, len(records))
	for _, rec := range records {
		if window.Contains(rec.EffectiveDate()) {
			out = append(out, rec)
		}
	}
	return out
}
