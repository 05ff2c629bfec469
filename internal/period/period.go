// Package period derives and parses the Mon-YY period keys that group dated
// entries within a series, and handles the date formats candidate
// observations arrive in.
package period

import (
	"strings"
	"time"
)

const (
	// KeyLayout is the canonical period key form, e.g. "Dec-25".
	KeyLayout = "Jan-06"
	// DateLayout is the canonical entry date form, e.g. "2025-12-17".
	DateLayout = "2006-01-02"
)

// dateLayouts are tried in order after the canonical ISO form. The list covers
// the phrasings upstream sources have been seen to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"02/01/2006",
}

// ParseDate parses a candidate date string. ISO YYYY-MM-DD is tried first,
// then the fallback layouts, then a bare Mon-YY period key (meaning the first
// day of that month). Returns false if nothing matches.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	if t, ok := ParseKey(value); ok {
		return t, true
	}
	return time.Time{}, false
}

// Key derives the canonical period key for a date. Any two dates in the same
// calendar month yield the identical key.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a Mon-YY period key into the first day of that month.
// Month casing is normalized first, since upstream sources are inconsistent.
func ParseKey(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 3 {
		return time.Time{}, false
	}
	month := strings.ToUpper(parts[0][:1]) + strings.ToLower(parts[0][1:])
	t, err := time.Parse(KeyLayout, month+"-"+parts[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a date in the canonical ISO form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
