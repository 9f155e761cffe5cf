package services

import (
	"strings"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// FormatDocuments renders a batch for prompt embedding. If any document has
// a title, every entry uses the verbose Date/Title/Content form; otherwise
// every entry uses the compact "date: text" form. Entries are separated by
// a blank line.
func FormatDocuments(docs []domain.Document) string {
	if len(docs) == 0 {
		return ""
	}

	verbose := false
	for _, d := range docs {
		if d.Title != "" {
			verbose = true
			break
		}
	}

	entries := make([]string, len(docs))
	for i, d := range docs {
		if verbose {
			title := d.Title
			if title == "" {
				title = domain.UntitledTitle
			}
			entries[i] = "Date: " + d.Date + "\nTitle: " + title + "\nContent: " + d.Text
		} else {
			entries[i] = d.Date + ": " + d.Text
		}
	}
	return strings.Join(entries, "\n\n")
}
