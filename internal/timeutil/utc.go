package timeutil

import (
	"time"
)

// All operational timestamps are kept in UTC, the airline convention.
// Display conversion to station local time is a frontend concern.

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts any time to UTC
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// ParseDate parses a YYYY-MM-DD string as a UTC date
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// StartOfDay returns the start of day (00:00:00 UTC) for the given time
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of day (23:59:59.999999999 UTC) for the given time
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999999999, time.UTC)
}

// Common layouts for formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 15:04"
)
