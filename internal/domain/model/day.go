package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// TruncateToDay returns t at 00:00 UTC on the same calendar day.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string as 00:00 UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// FormatDay renders t as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// NextDay returns the start of the calendar day after t.
func NextDay(t time.Time) time.Time {
	return TruncateToDay(t).AddDate(0, 0, 1)
}
