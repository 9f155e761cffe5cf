package services

import (
	"regexp"
	"strings"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

var sectionHeader = regexp.MustCompile(`^#\s*(\d{4}-\d{2}-\d{2})`)

// ParseJournalSections splits a shared journal document into dated
// entries. A paragraph of the form "# YYYY-MM-DD" starts a section; the
// paragraphs that follow belong to it until the next header. Text before
// the first header is ignored. Sections sharing a date are merged in
// document order.
func ParseJournalSections(paragraphs []string) []domain.Document {
	var (
		docs  []domain.Document
		index = make(map[string]int)
		cur   = -1
	)

	for _, p := range paragraphs {
		text := strings.TrimRight(p, "\r\n")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}

		if m := sectionHeader.FindStringSubmatch(trimmed); m != nil {
			date := m[1]
			i, ok := index[date]
			if !ok {
				docs = append(docs, domain.Document{
					Date:  date,
					Title: domain.JournalEntryTitle(date),
				})
				i = len(docs) - 1
				index[date] = i
			}
			cur = i
			continue
		}

		if cur < 0 {
			continue
		}
		if docs[cur].Text != "" {
			docs[cur].Text += "\n"
		}
		docs[cur].Text += text
	}

	return docs
}
