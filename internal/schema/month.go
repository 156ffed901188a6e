package schema

import (
	"strings"
	"time"
)

// Day-first layouts come before anything ambiguous: source files are
// exported from UK systems where 04/06/2025 means 4 June.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"Jan-06",
	"Jan 06",
	"January 2006",
	"2006-01",
}

// ParseDate parses a spreadsheet date string, day-first. Returns false for
// anything unparseable; callers degrade the value to missing.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthKey derives the canonical YYYY-MM key, or "" when the date never
// parsed ("no month" rather than an error).
func MonthKey(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return ""
	}
	return MonthOf(t)
}

// MonthOf formats a time as its YYYY-MM key.
func MonthOf(t time.Time) string { return t.Format("2006-01") }

// PrevMonth subtracts one calendar month on the year-month period.
// Returns "" for an invalid key.
func PrevMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// MonthLabel renders the "Mon YY" display form of a month key.
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan 06")
}

// InWindow reports whether a month key falls in the inclusive [from, to]
// window. Empty bounds are open ends. Rows with no month key are excluded
// whenever any bound is set.
func InWindow(month, from, to string) bool {
	if month == "" {
		return from == "" && to == ""
	}
	if from != "" && month < from {
		return false
	}
	if to != "" && month > to {
		return false
	}
	return true
}

// LatestMonth returns the greatest month key present, ignoring blanks.
func LatestMonth(months []string) string {
	latest := ""
	for _, m := range months {
		if m != "" && m > latest {
			latest = m
		}
	}
	return latest
}
