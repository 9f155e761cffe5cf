package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure File implements the interface.
var _ driven.Deliverer = (*File)(nil)

// File writes reports into a directory.
type File struct {
	dir  string
	html bool
	now  func() time.Time
}

// NewTextFile creates a deliverer writing .txt reports into dir.
func NewTextFile(dir string) *File {
	return &File{dir: dir, now: time.Now}
}

// NewHTMLFile creates a deliverer writing .html reports into dir.
func NewHTMLFile(dir string) *File {
	return &File{dir: dir, html: true, now: time.Now}
}

// Method returns the delivery method name.
func (f *File) Method() string {
	if f.html {
		return domain.DeliveryFileHTML
	}
	return domain.DeliveryFileText
}

// Deliver writes the report and returns its path.
func (f *File) Deliver(_ context.Context, report domain.Report) (string, error) {
	content, ext := RenderText(report), ".txt"
	if f.html {
		var err error
		if content, err = RenderHTML(report); err != nil {
			return "", err
		}
		ext = ".html"
	}

	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(f.dir, "pickles_report_"+f.now().Format("20060102_150405")+ext)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
