package timesheet

import (
	"slices"
	"time"
)

// DayTotal is the merged worked time on one calendar day.
type DayTotal struct {
	Date     time.Time // see CalendarDay
	Duration time.Duration
}

// Hours returns the duration in fractional hours.
func (d DayTotal) Hours() float64 { return d.Duration.Hours() }

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// EnumerateDays returns the distinct calendar days touched by any session,
// ascending. Open sessions count up to now.
func EnumerateDays(sessions []Session, now time.Time) ([]time.Time, error) {
	seen := make(map[dayKey]struct{})
	var days []time.Time
	for _, s := range sessions {
		touched, err := s.Days(now)
		if err != nil {
			return nil, err
		}
		for _, d := range touched {
			y, m, dd := d.Date()
			k := dayKey{y, m, dd}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days, nil
}

// DailyHours returns the non-overlapping time worked on the calendar day
// containing day, rounded to the second. Session order does not matter.
func DailyHours(sessions []Session, day, now time.Time) (time.Duration, error) {
	var intervals []Interval
	for _, s := range sessions {
		iv, ok, err := Clip(s, day, now)
		if err != nil {
			return 0, err
		}
		if ok {
			intervals = append(intervals, iv)
		}
	}

	var total time.Duration
	for _, iv := range MergeIntervals(intervals) {
		total += iv.Len()
	}
	return total.Round(time.Second), nil
}

// AssembleDailyReport returns one entry per day touched by any session,
// ascending by date. Days whose merged time is zero are kept.
func AssembleDailyReport(sessions []Session, now time.Time) ([]DayTotal, error) {
	days, err := EnumerateDays(sessions, now)
	if err != nil {
		return nil, err
	}
	report := make([]DayTotal, 0, len(days))
	for _, d := range days {
		worked, err := DailyHours(sessions, d, now)
		if err != nil {
			return nil, err
		}
		report = append(report, DayTotal{Date: d, Duration: worked})
	}
	return report, nil
}

// TotalHours sums the daily report.
func TotalHours(sessions []Session, now time.Time) (time.Duration, error) {
	report, err := AssembleDailyReport(sessions, now)
	if err != nil {
		return 0, err
	}
	return Sum(report), nil
}

// Sum adds up a daily report, rounded to the second.
func Sum(report []DayTotal) time.Duration {
	var total time.Duration
	for _, d := range report {
		total += d.Duration
	}
	return total.Round(time.Second)
}
