package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used throughout the pipeline.
const DateLayout = "2006-01-02"

// RecentWindowDays is the length of the primary analysis window.
const RecentWindowDays = 7

// FetchWindow is the lookback window for a single fetch.
type FetchWindow struct {
	// Days is the lookback length.
	Days int

	// Cutoff is today minus Days, formatted YYYY-MM-DD. Records dated on or
	// after Cutoff are in the window.
	Cutoff string
}

// NewFetchWindow computes the window ending at today.
func NewFetchWindow(today time.Time, days int) (FetchWindow, error) {
	if days <= 0 {
		return FetchWindow{}, fmt.Errorf("%w: %d", ErrInvalidWindow, days)
	}
	cutoff := today.AddDate(0, 0, -days)
	return FetchWindow{Days: days, Cutoff: cutoff.Format(DateLayout)}, nil
}

// Contains reports whether a YYYY-MM-DD date falls inside the window.
func (w FetchWindow) Contains(date string) bool {
	return IsOnOrAfter(date, w.Cutoff)
}

// IsOnOrAfter compares two YYYY-MM-DD strings. Empty dates never qualify.
func IsOnOrAfter(date, cutoff string) bool {
	if date == "" {
		return false
	}
	return date >= cutoff
}

// TruncateDate returns the YYYY-MM-DD prefix of an ISO 8601 timestamp.
// Inputs shorter than a date are returned unchanged.
func TruncateDate(ts string) string {
	if len(ts) < len(DateLayout) {
		return ts
	}
	return ts[:len(DateLayout)]
}

// DateOf formats a time as YYYY-MM-DD, or "" for the zero time.
func DateOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ExtractRecent returns the documents within the last days days relative to
// the latest document date. Used when a short-window fetch comes back empty
// but a longer context fetch did not.
func ExtractRecent(docs []Document, days int) []Document {
	latest := LatestDate(docs)
	if latest == "" || days <= 0 {
		return nil
	}
	end, err := time.Parse(DateLayout, latest)
	if err != nil {
		return nil
	}
	cutoff := end.AddDate(0, 0, -days).Format(DateLayout)

	var out []Document
	for _, d := range docs {
		if d.Date > cutoff {
			out = append(out, d)
		}
	}
	return out
}
