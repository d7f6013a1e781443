package timesheet

import (
	"slices"
	"time"
)

// Interval is a half-open span of time, [Start, End). Intervals produced by
// Clip hold wall-clock readings (see Wall).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Len returns End - Start.
func (iv Interval) Len() time.Duration { return iv.End.Sub(iv.Start) }

// Days returns every calendar day from the session's start date to its
// effective end date inclusive, in the form returned by CalendarDay.
// A zero-length session touches exactly one day.
func (s Session) Days(now time.Time) ([]time.Time, error) {
	start, end, err := s.wallBounds(now)
	if err != nil {
		return nil, err
	}
	last := CalendarDay(end)
	var days []time.Time
	for d := CalendarDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// Clip intersects the session with the calendar day containing day. The
// second result is false when the session's date range does not include
// that day. A session ending exactly at midnight still touches the next day
// with a zero-length interval. The intersection is taken on the wall clock
// of the session's location, so a clip never exceeds 24h, DST days included.
func Clip(s Session, day, now time.Time) (Interval, bool, error) {
	start, end, err := s.wallBounds(now)
	if err != nil {
		return Interval{}, false, err
	}
	dayStart := CalendarDay(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	if CalendarDay(start).After(dayStart) || CalendarDay(end).Before(dayStart) {
		return Interval{}, false, nil
	}

	iv := Interval{Start: start, End: end}
	if iv.Start.Before(dayStart) {
		iv.Start = dayStart
	}
	if iv.End.After(dayEnd) {
		iv.End = dayEnd
	}
	return iv, true, nil
}

// MergeIntervals returns the union of intervals as a sorted list of
// disjoint intervals. Overlapping and touching intervals are joined. The
// input slice is not modified.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	merged := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if !next.Start.After(cur.End) {
			if next.End.After(cur.End) {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
