package domain

import (
	"strconv"
	"strings"
	"time"
)

// FieldKind tags the variant held by a FieldValue.
type FieldKind string

// Field kinds understood by extraction.
const (
	FieldTitle       FieldKind = "title"
	FieldRichText    FieldKind = "rich_text"
	FieldSelect      FieldKind = "select"
	FieldMultiSelect FieldKind = "multi_select"
	FieldURL         FieldKind = "url"
	FieldEmail       FieldKind = "email"
	FieldPhone       FieldKind = "phone_number"
	FieldNumber      FieldKind = "number"
	FieldBool        FieldKind = "checkbox"
	FieldDate        FieldKind = "date"
	FieldOther       FieldKind = "other"
)

// FieldValue is a tagged variant for a typed record field. Only the member
// matching Kind is meaningful.
type FieldValue struct {
	Kind    FieldKind
	Text    string
	Options []string
	Number  *float64
	Bool    bool
}

// TitleValue builds a title field value.
func TitleValue(s string) FieldValue { return FieldValue{Kind: FieldTitle, Text: s} }

// TextValue builds a rich text field value.
func TextValue(s string) FieldValue { return FieldValue{Kind: FieldRichText, Text: s} }

// SelectValue builds a single select field value.
func SelectValue(s string) FieldValue { return FieldValue{Kind: FieldSelect, Text: s} }

// MultiSelectValue builds a multi-select field value.
func MultiSelectValue(opts ...string) FieldValue {
	return FieldValue{Kind: FieldMultiSelect, Options: opts}
}

// URLValue builds a URL field value.
func URLValue(s string) FieldValue { return FieldValue{Kind: FieldURL, Text: s} }

// EmailValue builds an email field value.
func EmailValue(s string) FieldValue { return FieldValue{Kind: FieldEmail, Text: s} }

// PhoneValue builds a phone number field value.
func PhoneValue(s string) FieldValue { return FieldValue{Kind: FieldPhone, Text: s} }

// NumberValue builds a number field value.
func NumberValue(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Number: &n} }

// EmptyNumberValue builds a number field with no value set.
func EmptyNumberValue() FieldValue { return FieldValue{Kind: FieldNumber} }

// BoolValue builds a checkbox field value.
func BoolValue(b bool) FieldValue { return FieldValue{Kind: FieldBool, Bool: b} }

// DateValue builds a date field value. The text should start with YYYY-MM-DD.
func DateValue(s string) FieldValue { return FieldValue{Kind: FieldDate, Text: s} }

// IsTextual reports whether the field contributes to the labelled field
// block during extraction. Titles and dates are handled separately.
func (v FieldValue) IsTextual() bool {
	switch v.Kind {
	case FieldRichText, FieldSelect, FieldMultiSelect, FieldURL,
		FieldEmail, FieldPhone, FieldNumber, FieldBool:
		return true
	default:
		return false
	}
}

// String renders the value as plain text.
func (v FieldValue) String() string {
	switch v.Kind {
	case FieldMultiSelect:
		return strings.Join(v.Options, ", ")
	case FieldNumber:
		if v.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case FieldBool:
		if v.Bool {
			return "✓"
		}
		return "✗"
	default:
		return v.Text
	}
}

// Field is a named record field.
type Field struct {
	Name  string
	Value FieldValue
}

// RawRecord is a record as returned by a workspace source, before
// extraction. Fields keep the order the source provides them in.
type RawRecord struct {
	ID             string
	CreatedTime    time.Time
	LastEditedTime time.Time
	Fields         []Field

	// DateField names the field that dates the record. Empty means the
	// first date-kind field.
	DateField string
}

// ExplicitDate returns the date of the record's date field, truncated to
// YYYY-MM-DD, or "" when it is unset.
func (r RawRecord) ExplicitDate() string {
	for _, f := range r.Fields {
		if f.Value.Kind != FieldDate {
			continue
		}
		if r.DateField != "" && f.Name != r.DateField {
			continue
		}
		if f.Value.Text != "" {
			return TruncateDate(f.Value.Text)
		}
		if r.DateField != "" {
			return ""
		}
	}
	return ""
}

// EffectiveDate is the explicit date field when present, otherwise the
// creation date.
func (r RawRecord) EffectiveDate() string {
	if d := r.ExplicitDate(); d != "" {
		return d
	}
	return DateOf(r.CreatedTime)
}

// BlockKind names a content block type.
type BlockKind string

// Block kinds. Only text-bearing kinds contribute to extracted text.
const (
	BlockParagraph   BlockKind = "paragraph"
	BlockHeading1    BlockKind = "heading_1"
	BlockHeading2    BlockKind = "heading_2"
	BlockHeading3    BlockKind = "heading_3"
	BlockBulleted    BlockKind = "bulleted_list_item"
	BlockNumbered    BlockKind = "numbered_list_item"
	BlockToDo        BlockKind = "to_do"
	BlockToggle      BlockKind = "toggle"
	BlockQuote       BlockKind = "quote"
	BlockCallout     BlockKind = "callout"
	BlockCode        BlockKind = "code"
	BlockTableRow    BlockKind = "table_row"
	BlockBookmark    BlockKind = "bookmark"
	BlockLink        BlockKind = "link_preview"
	BlockEmbed       BlockKind = "embed"
	BlockUnsupported BlockKind = "unsupported"
)

// RawBlock is one content block of a record body.
type RawBlock struct {
	Kind  BlockKind
	Text  string
	Icon  string
	Cells []string
	URL   string
}

// ContainerHandle identifies a structured container (a database of records).
type ContainerHandle struct {
	ID    string
	Title string

	// DateField is the name of the container's date property, or "" when
	// it has none.
	DateField string
}

// HasDateField reports whether server-side date filtering is possible.
func (c ContainerHandle) HasDateField() bool {
	return c.DateField != ""
}

// ProbeResult is the outcome of looking for a structured container. Exactly
// one of Container or Failure is set, or neither when the source simply has
// no container.
type ProbeResult struct {
	Container *ContainerHandle
	Failure   error
}

// Found reports whether a usable container was located.
func (p ProbeResult) Found() bool {
	return p.Container != nil && p.Failure == nil
}

// SearchPage is one page of unstructured search results.
type SearchPage struct {
	Records    []RawRecord
	HasMore    bool
	NextCursor string
}
