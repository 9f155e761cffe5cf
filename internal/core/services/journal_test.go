package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

func TestParseJournalSections(t *testing.T) {
	paragraphs := []string{
		"Notes before any date\n",
		"#2025-08-01\n",
		"First line\n",
		"\n",
		"Second line\n",
		"# 2025-08-02 (Sat)\n",
		"Weekend\n",
	}

	docs := ParseJournalSections(paragraphs)

	require.Len(t, docs, 2)
	assert.Equal(t, domain.Document{
		Date:  "2025-08-01",
		Title: "Journal Entry 2025-08-01",
		Text:  "First line\nSecond line",
	}, docs[0])
	assert.Equal(t, "2025-08-02", docs[1].Date)
	assert.Equal(t, "Weekend", docs[1].Text)
}

func TestParseJournalSections_MergesRepeatedDates(t *testing.T) {
	docs := ParseJournalSections([]string{
		"# 2025-08-01", "morning",
		"# 2025-08-02", "other day",
		"# 2025-08-01", "evening",
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "morning\nevening", docs[0].Text)
}

func TestParseJournalSections_EmptySectionKept(t *testing.T) {
	docs := ParseJournalSections([]string{"# 2025-08-01"})

	require.Len(t, docs, 1)
	assert.Equal(t, "", docs[0].Text)
}

func TestParseJournalSections_NoHeaders(t *testing.T) {
	assert.Empty(t, ParseJournalSections([]string{"just text", "more text"}))
}
