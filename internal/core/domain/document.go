package domain

import (
	"sort"
	"strings"
)

// Placeholder titles used when a record carries no usable title.
const (
	UntitledTitle      = "Untitled"
	DatabaseEntryTitle = "Database Entry"
	journalEntryPrefix = "Journal Entry "
)

// Document is a single dated journal entry.
// It is the canonical unit flowing from the reconciler into analysis.
type Document struct {
	// Date is the day this entry belongs to, formatted YYYY-MM-DD.
	Date string

	// Title is the display label. May be empty for sources without titles.
	Title string

	// Text is the concatenated plain-text content. Empty is valid.
	Text string
}

// JournalEntryTitle returns the placeholder title for a dated journal section.
func JournalEntryTitle(date string) string {
	return journalEntryPrefix + date
}

// HasContent reports whether the document has non-blank text.
func (d Document) HasContent() bool {
	return strings.TrimSpace(d.Text) != ""
}

// SortByDate orders documents oldest first. The sort is stable so entries
// sharing a date keep their relative order.
func SortByDate(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Date < docs[j].Date
	})
}

// LatestDate returns the greatest date in docs, or "" when docs is empty.
func LatestDate(docs []Document) string {
	latest := ""
	for _, d := range docs {
		if d.Date > latest {
			latest = d.Date
		}
	}
	return latest
}

// WithContent returns the documents that have non-blank text.
func WithContent(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.HasContent() {
			out = append(out, d)
		}
	}
	return out
}
