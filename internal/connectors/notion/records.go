package notion

import (
	"sort"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// pageRecord converts a page to a raw record. The record is dated by the
// same property containerHandle filters on.
func pageRecord(p *notionapi.Page) domain.RawRecord {
	// notionapi decodes properties into a map, so declaration order is
	// lost. Name order keeps extraction deterministic.
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]domain.Field, 0, len(names))
	var dateProps []string
	for _, name := range names {
		value := fieldValue(p.Properties[name])
		if value.Kind == domain.FieldDate {
			dateProps = append(dateProps, name)
		}
		fields = append(fields, domain.Field{Name: name, Value: value})
	}

	return domain.RawRecord{
		ID:             string(p.ID),
		CreatedTime:    p.CreatedTime,
		LastEditedTime: p.LastEditedTime,
		Fields:         fields,
		DateField:      preferredDateField(dateProps),
	}
}

// preferredDateField picks "Date", then "date", then the first name in
// sorted order. It returns "" when names is empty.
func preferredDateField(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, want := range []string{datePropertyName, strings.ToLower(datePropertyName)} {
		for _, name := range sorted {
			if name == want {
				return name
			}
		}
	}
	return sorted[0]
}

func fieldValue(prop notionapi.Property) domain.FieldValue {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return domain.TitleValue(plainText(p.Title))
	case *notionapi.RichTextProperty:
		return domain.TextValue(plainText(p.RichText))
	case *notionapi.SelectProperty:
		return domain.SelectValue(p.Select.Name)
	case *notionapi.MultiSelectProperty:
		opts := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			opts = append(opts, o.Name)
		}
		return domain.MultiSelectValue(opts...)
	case *notionapi.URLProperty:
		return domain.URLValue(p.URL)
	case *notionapi.EmailProperty:
		return domain.EmailValue(p.Email)
	case *notionapi.PhoneNumberProperty:
		return domain.PhoneValue(p.PhoneNumber)
	case *notionapi.NumberProperty:
		// An unset number decodes as 0; zero is treated as unset.
		if p.Number == 0 {
			return domain.EmptyNumberValue()
		}
		return domain.NumberValue(p.Number)
	case *notionapi.CheckboxProperty:
		return domain.BoolValue(p.Checkbox)
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return domain.DateValue("")
		}
		return domain.DateValue(time.Time(*p.Date.Start).Format(time.DateOnly))
	default:
		return domain.FieldValue{Kind: domain.FieldOther}
	}
}

func convertBlock(b notionapi.Block) domain.RawBlock {
	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		return textBlock(domain.BlockParagraph, v.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return textBlock(domain.BlockHeading1, v.Heading1.RichText)
	case *notionapi.Heading2Block:
		return textBlock(domain.BlockHeading2, v.Heading2.RichText)
	case *notionapi.Heading3Block:
		return textBlock(domain.BlockHeading3, v.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return textBlock(domain.BlockBulleted, v.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return textBlock(domain.BlockNumbered, v.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return textBlock(domain.BlockToDo, v.ToDo.RichText)
	case *notionapi.ToggleBlock:
		return textBlock(domain.BlockToggle, v.Toggle.RichText)
	case *notionapi.QuoteBlock:
		return textBlock(domain.BlockQuote, v.Quote.RichText)
	case *notionapi.CalloutBlock:
		rb := textBlock(domain.BlockCallout, v.Callout.RichText)
		if v.Callout.Icon != nil && v.Callout.Icon.Emoji != nil {
			rb.Icon = string(*v.Callout.Icon.Emoji)
		}
		return rb
	case *notionapi.CodeBlock:
		return textBlock(domain.BlockCode, v.Code.RichText)
	case *notionapi.TableRowBlock:
		cells := make([]string, 0, len(v.TableRow.Cells))
		for _, cell := range v.TableRow.Cells {
			cells = append(cells, plainText(cell))
		}
		return domain.RawBlock{Kind: domain.BlockTableRow, Cells: cells}
	case *notionapi.BookmarkBlock:
		return domain.RawBlock{Kind: domain.BlockBookmark, URL: v.Bookmark.URL}
	case *notionapi.LinkPreviewBlock:
		return domain.RawBlock{Kind: domain.BlockLink, URL: v.LinkPreview.URL}
	case *notionapi.EmbedBlock:
		return domain.RawBlock{Kind: domain.BlockEmbed, URL: v.Embed.URL}
	default:
		return domain.RawBlock{Kind: domain.BlockUnsupported}
	}
}

func textBlock(kind domain.BlockKind, rt []notionapi.RichText) domain.RawBlock {
	return domain.RawBlock{Kind: kind, Text: plainText(rt)}
}

func plainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}
