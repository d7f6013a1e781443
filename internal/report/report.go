// Package report turns a project's sessions into the daily and total
// summaries shown by the CLI and the TUI.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cinner/internal/timesheet"
)

// Report is the evaluated state of one project at a fixed instant.
type Report struct {
	Project string
	Now     time.Time
	Days    []timesheet.DayTotal
	Total   time.Duration
	Rate    float64
}

// Build evaluates every session of p at now. rate is the hourly rate used
// for Amount.
func Build(p *timesheet.Project, now time.Time, rate float64) (*Report, error) {
	r := &Report{Now: now, Rate: rate}
	if p == nil {
		return r, nil
	}
	r.Project = p.Name

	days, err := timesheet.AssembleDailyReport(p.Sessions, now)
	if err != nil {
		return nil, fmt.Errorf("build report for %q: %w", p.Name, err)
	}
	r.Days = days
	r.Total = timesheet.Sum(days)
	return r, nil
}

// Hours returns the total in fractional hours.
func (r *Report) Hours() float64 { return r.Total.Hours() }

// Amount is the earnings for the total at the report's rate.
func (r *Report) Amount() float64 { return r.Hours() * r.Rate }

// Day returns the total for the calendar day containing t, or zero when
// no session touched it.
func (r *Report) Day(t time.Time) time.Duration {
	y, m, d := t.Date()
	for _, dt := range r.Days {
		if dy, dm, dd := dt.Date.Date(); dy == y && dm == m && dd == d {
			return dt.Duration
		}
	}
	return 0
}

// Range returns the report entries whose date falls in [from, to], both
// compared by calendar day.
func (r *Report) Range(from, to time.Time) []timesheet.DayTotal {
	lo := timesheet.CalendarDay(from)
	hi := timesheet.CalendarDay(to)
	var out []timesheet.DayTotal
	for _, dt := range r.Days {
		if dt.Date.Before(lo) || dt.Date.After(hi) {
			continue
		}
		out = append(out, dt)
	}
	return out
}

// Window returns n consecutive days ending on the day containing end,
// filling days without sessions with zero.
func (r *Report) Window(end time.Time, n int) []timesheet.DayTotal {
	if n <= 0 {
		return nil
	}
	last := timesheet.CalendarDay(end)
	out := make([]timesheet.DayTotal, n)
	for i := range n {
		day := last.AddDate(0, 0, i-n+1)
		out[i] = timesheet.DayTotal{Date: day, Duration: r.Day(day)}
	}
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C63FF"))
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ADE80"))
)

// WriteDaily prints one line per day with its merged hours. Colors are
// applied only when w is a terminal.
func WriteDaily(w io.Writer, r *Report) error {
	re := lipgloss.NewRenderer(w)
	header := headerStyle.Renderer(re)

	if _, err := fmt.Fprintf(w, "\n%s\n", header.Render("=== Daily Hours Report ===")); err != nil {
		return err
	}
	for _, dt := range r.Days {
		if _, err := fmt.Fprintf(w, "Total hours worked on %s: %s hours\n",
			dt.Date.Format("2006-01-02"), FormatHours(dt.Duration)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, header.Render("=========================="))
	return err
}

// WriteTotal prints the project's total hours and earnings.
func WriteTotal(w io.Writer, r *Report, currency string) error {
	re := lipgloss.NewRenderer(w)
	line := fmt.Sprintf("Total hours worked on '%s': %s hours for %s%.2f",
		r.Project, FormatHours(r.Total), currency, r.Amount())
	_, err := fmt.Fprintf(w, "\n%s\n", totalStyle.Renderer(re).Render(line))
	return err
}

// FormatHours renders d as fractional hours with two decimals.
func FormatHours(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Hours())
}

// FormatClock renders d as HH:MM:SS; hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
