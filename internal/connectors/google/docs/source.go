// Package docs reads a dated journal kept in a single Google Doc.
//
// The document is expected to hold entries under "# YYYY-MM-DD" header
// paragraphs. This package only returns the document's paragraphs; section
// parsing happens in the core.
package docs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/ephemere-io/pickles/internal/connectors/google"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

var documentIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`)

// ParseDocumentID extracts the document ID from a Google Docs URL.
func ParseDocumentID(url string) (string, error) {
	m := documentIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", google.ErrInvalidURL, url)
	}
	return m[1], nil
}

// Source implements driven.DocumentSource over the Docs and Drive APIs.
type Source struct {
	docs       *gdocs.Service
	drive      *drive.Service
	documentID string

	docsQuota  *google.Throttle
	driveQuota *google.Throttle
}

// New creates a source for the document at url.
func New(docsSvc *gdocs.Service, driveSvc *drive.Service, url string) (*Source, error) {
	id, err := ParseDocumentID(url)
	if err != nil {
		return nil, err
	}
	return &Source{
		docs:       docsSvc,
		drive:      driveSvc,
		documentID: id,
		docsQuota:  google.NewThrottle(google.DocsQuota),
		driveQuota: google.NewThrottle(google.DriveQuota),
	}, nil
}

// NewFromCredentials resolves credentials and builds both API clients.
func NewFromCredentials(ctx context.Context, creds google.Credentials, url string) (*Source, error) {
	ts, err := google.NewTokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}
	docsSvc, err := google.NewDocsService(ctx, ts)
	if err != nil {
		return nil, err
	}
	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, err
	}
	return New(docsSvc, driveSvc, url)
}

// Name returns the source name.
func (s *Source) Name() string {
	return string(domain.SourceGDocs)
}

// DocumentID returns the parsed document ID.
func (s *Source) DocumentID() string {
	return s.documentID
}

// CheckAccess verifies the credentials can see the document.
func (s *Source) CheckAccess(ctx context.Context) error {
	var file *drive.File
	err := s.driveQuota.Do(ctx, func() error {
		var err error
		file, err = s.drive.Files.Get(s.documentID).
			Fields("id", "name", "mimeType").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("get document metadata: %w", err)
	}
	if file.MimeType != "" && file.MimeType != "application/vnd.google-apps.document" {
		return fmt.Errorf("%w: %s is %s, not a Google Doc", domain.ErrInvalidInput, file.Name, file.MimeType)
	}
	return nil
}

// Paragraphs returns the text of each body paragraph in document order.
// Table cells are read row by row. Trailing newlines are kept.
func (s *Source) Paragraphs(ctx context.Context) ([]string, error) {
	var doc *gdocs.Document
	err := s.docsQuota.Do(ctx, func() error {
		var err error
		doc, err = s.docs.Documents.Get(s.documentID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Body == nil {
		return nil, nil
	}
	return collectParagraphs(doc.Body.Content), nil
}

func collectParagraphs(content []*gdocs.StructuralElement) []string {
	var out []string
	for _, el := range content {
		switch {
		case el.Paragraph != nil:
			out = append(out, paragraphText(el.Paragraph))
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					out = append(out, collectParagraphs(cell.Content)...)
				}
			}
		}
	}
	return out
}

func paragraphText(p *gdocs.Paragraph) string {
	var b strings.Builder
	for _, el := range p.Elements {
		if el.TextRun != nil {
			b.WriteString(el.TextRun.Content)
		}
	}
	return b.String()
}
