package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// FilterByLength drops documents whose text is shorter than minLength
// characters. A non-positive minLength returns docs unchanged.
func FilterByLength(docs []domain.Document, minLength int) []domain.Document {
	if minLength <= 0 {
		return docs
	}
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if utf8.RuneCountInString(d.Text) >= minLength {
			out = append(out, d)
		}
	}
	return out
}

// MeanLength returns the integer mean text length in characters.
func MeanLength(docs []domain.Document) int {
	if len(docs) == 0 {
		return 0
	}
	total := 0
	for _, d := range docs {
		total += utf8.RuneCountInString(d.Text)
	}
	return total / len(docs)
}

// WindowStatistics summarizes one window: raw count, count after the
// length filter, and mean length of the filtered documents.
func WindowStatistics(raw, filtered []domain.Document) string {
	if len(filtered) == 0 {
		return fmt.Sprintf("fetched %d, after filter 0 (nothing to analyze)", len(raw))
	}
	return fmt.Sprintf("fetched %d, after filter %d\naverage length %d characters",
		len(raw), len(filtered), MeanLength(filtered))
}

// Statistics summarizes the recent window and, when hasContext is set, the
// context window before it.
func Statistics(recentRaw, recent, contextRaw, contextDocs []domain.Document, hasContext bool) string {
	if !hasContext {
		return WindowStatistics(recentRaw, recent)
	}
	var b strings.Builder
	b.WriteString("[Context window]\n")
	b.WriteString(WindowStatistics(contextRaw, contextDocs))
	b.WriteString("\n\n[Recent window]\n")
	b.WriteString(WindowStatistics(recentRaw, recent))
	return b.String()
}

// DataSummary is the history record of what an analysis looked at.
func DataSummary(docs []domain.Document) string {
	return fmt.Sprintf("%d documents (average %d characters)", len(docs), MeanLength(docs))
}
