package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.WorkspaceSource = (*Source)(nil)

// Source implements driven.WorkspaceSource over the Notion API.
type Source struct {
	client  *notionapi.Client
	cfg     Config
	limiter *rate.Limiter
}

// New creates a Notion source.
func New(cfg Config) (*Source, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	opts := []notionapi.ClientOption{notionapi.WithRetry(DefaultRetries)}
	if cfg.HTTPClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(cfg.HTTPClient))
	}

	return &Source{
		client:  notionapi.NewClient(notionapi.Token(cfg.Token), opts...),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(3), 3),
	}, nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return string(domain.SourceNotion)
}

// CheckAccess verifies the token by fetching the integration's bot user.
func (s *Source) CheckAccess(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if _, err := s.client.User.Me(ctx); err != nil {
		return fmt.Errorf("get bot user: %w", wrapError(err))
	}
	return nil
}

// ProbeStructured returns the configured database, or the most recently
// edited database shared with the integration.
func (s *Source) ProbeStructured(ctx context.Context) domain.ProbeResult {
	if s.cfg.DatabaseID != "" {
		db, err := s.getDatabase(ctx, s.cfg.DatabaseID)
		if err != nil {
			return domain.ProbeResult{Failure: err}
		}
		handle := containerHandle(db)
		return domain.ProbeResult{Container: &handle}
	}

	if err := s.wait(ctx); err != nil {
		return domain.ProbeResult{Failure: err}
	}
	resp, err := s.client.Search.Do(ctx, &notionapi.SearchRequest{
		Filter: notionapi.SearchFilter{Value: "database", Property: "object"},
		Sort: &notionapi.SortObject{
			Direction: notionapi.SortOrderDESC,
			Timestamp: notionapi.TimestampLastEdited,
		},
		PageSize: 1,
	})
	if err != nil {
		return domain.ProbeResult{Failure: fmt.Errorf("search databases: %w", wrapError(err))}
	}

	for _, obj := range resp.Results {
		if db, ok := obj.(*notionapi.Database); ok {
			// Search results carry a partial schema.
			full, err := s.getDatabase(ctx, string(db.ID))
			if err != nil {
				return domain.ProbeResult{Failure: err}
			}
			handle := containerHandle(full)
			return domain.ProbeResult{Container: &handle}
		}
	}
	return domain.ProbeResult{}
}

// QueryByDate returns records whose date property is on or after cutoff,
// ascending by that property.
func (s *Source) QueryByDate(
	ctx context.Context,
	container domain.ContainerHandle,
	cutoff string,
) ([]domain.RawRecord, error) {
	day, err := time.Parse(time.DateOnly, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: cutoff %q", domain.ErrInvalidInput, cutoff)
	}
	onOrAfter := notionapi.Date(day)

	return s.queryDatabase(ctx, container.ID, &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: container.DateField,
			Date:     &notionapi.DateFilterCondition{OnOrAfter: &onOrAfter},
		},
		Sorts: []notionapi.SortObject{{
			Property:  container.DateField,
			Direction: notionapi.SortOrderASC,
		}},
	})
}

// QueryAll returns every record in the container ordered by creation time.
func (s *Source) QueryAll(ctx context.Context, container domain.ContainerHandle) ([]domain.RawRecord, error) {
	return s.queryDatabase(ctx, container.ID, &notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{
			Timestamp: notionapi.TimestampCreated,
			Direction: notionapi.SortOrderASC,
		}},
	})
}

// SearchUnstructured returns one page of pages, most recently edited first.
// Databases in the results are skipped.
func (s *Source) SearchUnstructured(ctx context.Context, _ string, cursor string) (domain.SearchPage, error) {
	if err := s.wait(ctx); err != nil {
		return domain.SearchPage{}, err
	}

	resp, err := s.client.Search.Do(ctx, &notionapi.SearchRequest{
		Filter: notionapi.SearchFilter{Value: "page", Property: "object"},
		Sort: &notionapi.SortObject{
			Direction: notionapi.SortOrderDESC,
			Timestamp: notionapi.TimestampLastEdited,
		},
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    s.cfg.pageSize(),
	})
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("search pages: %w", wrapError(err))
	}

	page := domain.SearchPage{
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, obj := range resp.Results {
		if p, ok := obj.(*notionapi.Page); ok {
			page.Records = append(page.Records, pageRecord(p))
		}
	}
	return page, nil
}

// FetchBody returns the blocks of a page in reading order. Nested blocks
// such as table rows and toggle bodies follow their parent. Child pages
// and databases are not entered.
func (s *Source) FetchBody(ctx context.Context, recordID string) ([]domain.RawBlock, error) {
	return s.appendChildren(ctx, nil, recordID, 0)
}

func (s *Source) appendChildren(
	ctx context.Context,
	blocks []domain.RawBlock,
	parentID string,
	depth int,
) ([]domain.RawBlock, error) {
	var cursor string
	for {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(parentID), &notionapi.Pagination{
			StartCursor: notionapi.Cursor(cursor),
			PageSize:    s.cfg.pageSize(),
		})
		if err != nil {
			return nil, fmt.Errorf("get blocks of %s: %w", parentID, wrapError(err))
		}

		for _, b := range resp.Results {
			blocks = append(blocks, convertBlock(b))
			if !descend(b, depth) {
				continue
			}
			blocks, err = s.appendChildren(ctx, blocks, string(b.GetID()), depth+1)
			if err != nil {
				return nil, err
			}
		}

		cursor = string(resp.NextCursor)
		if !resp.HasMore || cursor == "" {
			return blocks, nil
		}
	}
}

func descend(b notionapi.Block, depth int) bool {
	if !b.GetHasChildren() || depth >= maxBlockDepth {
		return false
	}
	switch b.GetType() {
	case notionapi.BlockTypeChildPage, notionapi.BlockTypeChildDatabase:
		return false
	}
	return true
}

func (s *Source) queryDatabase(
	ctx context.Context,
	databaseID string,
	req *notionapi.DatabaseQueryRequest,
) ([]domain.RawRecord, error) {
	req.PageSize = s.cfg.pageSize()

	var records []domain.RawRecord
	for {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, wrapError(err))
		}

		for i := range resp.Results {
			records = append(records, pageRecord(&resp.Results[i]))
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return records, nil
		}
		req.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
}

func (s *Source) getDatabase(ctx context.Context, id string) (*notionapi.Database, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	db, err := s.client.Database.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return nil, fmt.Errorf("get database %s: %w", id, wrapError(err))
	}
	return db, nil
}

func (s *Source) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// containerHandle picks the date property with preferredDateField.
func containerHandle(db *notionapi.Database) domain.ContainerHandle {
	var dateProps []string
	for name, cfg := range db.Properties {
		if cfg.GetType() == notionapi.PropertyConfigTypeDate {
			dateProps = append(dateProps, name)
		}
	}

	return domain.ContainerHandle{
		ID:        string(db.ID),
		Title:     plainText(db.Title),
		DateField: preferredDateField(dateProps),
	}
}
