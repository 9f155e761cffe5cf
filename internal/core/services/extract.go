package services

import (
	"strings"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// FieldBlock renders the text-like fields of a record as "name: value"
// lines in field order. Empty values are skipped.
func FieldBlock(fields []domain.Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.Value.IsTextual() {
			continue
		}
		v := strings.TrimSpace(f.Value.String())
		if v == "" {
			continue
		}
		lines = append(lines, f.Name+": "+v)
	}
	return strings.Join(lines, "\n")
}

// BlockText renders the text-bearing blocks of a record body, one trimmed
// line per block. Blocks without text are dropped.
func BlockText(blocks []domain.RawBlock) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		line := strings.TrimSpace(blockLine(b))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func blockLine(b domain.RawBlock) string {
	switch b.Kind {
	case domain.BlockParagraph,
		domain.BlockHeading1, domain.BlockHeading2, domain.BlockHeading3,
		domain.BlockBulleted, domain.BlockNumbered,
		domain.BlockToDo, domain.BlockToggle,
		domain.BlockQuote, domain.BlockCode:
		return b.Text
	case domain.BlockCallout:
		if b.Icon != "" && strings.TrimSpace(b.Text) != "" {
			return b.Icon + " " + b.Text
		}
		return b.Text
	case domain.BlockTableRow:
		cells := make([]string, len(b.Cells))
		for i, c := range b.Cells {
			cells[i] = strings.TrimSpace(c)
		}
		line := strings.Join(cells, " | ")
		if strings.Trim(line, " |") == "" {
			return ""
		}
		return line
	case domain.BlockBookmark, domain.BlockLink, domain.BlockEmbed:
		if b.URL == "" {
			return ""
		}
		return "[Link: " + b.URL + "]"
	default:
		return ""
	}
}

// ExtractText combines the field block and the body text of a record,
// separated by a blank line when both are present.
func ExtractText(fields []domain.Field, blocks []domain.RawBlock) string {
	parts := make([]string, 0, 2)
	if fb := FieldBlock(fields); fb != "" {
		parts = append(parts, fb)
	}
	if bt := BlockText(blocks); bt != "" {
		parts = append(parts, bt)
	}
	return strings.Join(parts, "\n\n")
}

// RecordTitle picks a display title: the title field, else the first
// non-empty text-like field as "name: value", else fallback.
func RecordTitle(fields []domain.Field, fallback string) string {
	for _, f := range fields {
		if f.Value.Kind == domain.FieldTitle {
			if t := strings.TrimSpace(f.Value.Text); t != "" {
				return t
			}
		}
	}
	for _, f := range fields {
		if !f.Value.IsTextual() {
			continue
		}
		if v := strings.TrimSpace(f.Value.String()); v != "" {
			return f.Name + ": " + v
		}
	}
	return fallback
}
