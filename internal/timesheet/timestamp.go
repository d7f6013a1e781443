package timesheet

import (
	"fmt"
	"time"
)

// Layout is the stored timestamp format: DD/MM/YY - HH:MM:SS, 24-hour clock.
// It carries no zone, so every parse needs the location the data was
// recorded in.
const Layout = "02/01/06 - 15:04:05"

// DateLayout is the DD/MM/YY day key format.
const DateLayout = "02/01/06"

// ParseError reports a timestamp that does not match Layout.
type ParseError struct {
	Field string // "start", "end" or "" when parsed standalone
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse timestamp %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s timestamp %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp parses s in loc. A nil loc means time.Local.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	return parseField("", s, loc)
}

func parseField(field, s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: s, Err: err}
	}
	return t, nil
}

// ParseDate parses a DD/MM/YY day key into the form returned by CalendarDay.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}

// FormatTimestamp renders t in its own location using Layout. Sub-second
// precision is dropped.
func FormatTimestamp(t time.Time) string {
	return t.Format(Layout)
}

// FormatDate renders the day key of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Wall returns the wall-clock reading of t in its own location, relabelled
// as UTC. Arithmetic on wall readings ignores offset changes, so every
// calendar day is exactly 24h long.
func Wall(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, mo, d, h, mi, sec, t.Nanosecond(), time.UTC)
}

// CalendarDay returns the calendar day containing t, on t's wall clock, as
// midnight UTC. Day keys and DayTotal.Date use this form. Local midnight is
// not used because some zones skip it on DST transitions.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
