package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/store"
	"github.com/sadopc/cinner/internal/timesheet"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	store    *store.Store
	clock    func() time.Time
	currency string
	width    int
	height   int

	mode      reportMode
	offset    int // 7-day blocks back from today (0 = current)
	projects  []store.ProjectInfo
	project   string
	report    *report.Report
	weekStart time.Weekday
	dailyGoal time.Duration
}

func newReportsModel(s *store.Store, clock func() time.Time, currency string) reportsModel {
	return reportsModel{
		store:     s,
		clock:     clock,
		currency:  currency,
		weekStart: time.Monday,
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	projects  []store.ProjectInfo
	project   string
	report    *report.Report
	weekStart time.Weekday
	dailyGoal time.Duration
	err       error
}

func (r reportsModel) refresh() tea.Cmd {
	selected := r.project
	return func() tea.Msg {
		projects, err := r.store.ListProjects(false)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		msg := reportsDataMsg{
			projects:  projects,
			weekStart: weekStart(r.store),
			dailyGoal: dailyGoal(r.store),
		}
		if len(projects) == 0 {
			return msg
		}
		i := slices.IndexFunc(projects, func(p store.ProjectInfo) bool { return p.Name == selected })
		if i < 0 {
			i = 0
		}
		msg.project = projects[i].Name

		snap, err := r.store.GetProject(msg.project)
		if err != nil {
			msg.err = err
			return msg
		}
		rate, err := r.store.HourlyRate()
		if err != nil {
			msg.err = err
			return msg
		}
		msg.report, msg.err = report.Build(snap, r.clock(), rate)
		return msg
	}
}

// current returns the report on screen, if any.
func (r reportsModel) current() *report.Report {
	return r.report
}

// windowEnd is the last day shown by the chart.
func (r reportsModel) windowEnd() time.Time {
	today := timesheet.CalendarDay(r.clock().In(r.store.Location()))
	if r.mode == reportWeekly {
		return startOfWeek(today, r.weekStart).AddDate(0, 0, 6-7*r.offset)
	}
	return today.AddDate(0, 0, -7*r.offset)
}

func startOfWeek(day time.Time, first time.Weekday) time.Time {
	diff := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

func (r reportsModel) window() []timesheet.DayTotal {
	if r.report == nil {
		return nil
	}
	return r.report.Window(r.windowEnd(), 7)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.projects = msg.projects
		r.project = msg.project
		r.report = msg.report
		r.weekStart = msg.weekStart
		r.dailyGoal = msg.dailyGoal
		if msg.err != nil {
			return r, errCmd("Report error: %v", msg.err)
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, nil
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, nil
		case key.Matches(msg, keys.Week):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, nil
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			return r.selectProject(key.Matches(msg, keys.Down))
		}
	}
	return r, nil
}

func (r reportsModel) selectProject(next bool) (reportsModel, tea.Cmd) {
	if len(r.projects) == 0 {
		return r, nil
	}
	i := slices.IndexFunc(r.projects, func(p store.ProjectInfo) bool { return p.Name == r.project })
	if next {
		i = (i + 1) % len(r.projects)
	} else {
		i = (i - 1 + len(r.projects)) % len(r.projects)
	}
	r.project = r.projects[i].Name
	return r, r.refresh()
}

func (r reportsModel) projectColor() lipgloss.Color {
	for _, p := range r.projects {
		if p.Name == r.project {
			return lipgloss.Color(p.Color)
		}
	}
	return colorPrimary
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.report == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Reports"), "", mutedStyle.Render("  No projects to report on"),
		))
	}

	// Mode tabs
	dailyTab := inactiveTabStyle.Render("7 Days")
	weeklyTab := inactiveTabStyle.Render("Week")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("7 Days")
	} else {
		weeklyTab = activeTabStyle.Render("Week")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	days := r.window()
	from, to := days[0].Date, days[len(days)-1].Date
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	projectLabel := lipgloss.NewStyle().Bold(true).Foreground(r.projectColor()).Render(r.project)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", projectLabel, "  ", modeTabs, "  ", dateLabel,
	)

	chartWidth := max(w-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}
	chart := report.Chart(days, chartWidth, chartHeight, r.projectColor())

	tableView := r.renderSummaryTable(days, w)

	nav := mutedStyle.Render("  ↑/↓: project  ←/→: navigate  w: week/7 days  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chart.View(), "", r.renderTotals(days), "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderTotals(days []timesheet.DayTotal) string {
	window := timesheet.Sum(days)
	parts := []string{
		fmt.Sprintf("Window %s", highlightStyle.Render(formatDuration(window))),
		fmt.Sprintf("Total %s (%s h)", highlightStyle.Render(formatDuration(r.report.Total)), report.FormatHours(r.report.Total)),
		fmt.Sprintf("Earned %s", successStyle.Render(fmt.Sprintf("%s%.2f", r.currency, r.report.Amount()))),
	}
	return "  " + strings.Join(parts, "   ")
}

func (r reportsModel) renderSummaryTable(days []timesheet.DayTotal, w int) string {
	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %8s", "Date", "Duration", "Hours"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))

	for _, d := range days {
		style := normalItemStyle
		if r.dailyGoal > 0 && d.Duration >= r.dailyGoal {
			style = successStyle
		} else if d.Duration == 0 {
			style = mutedStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("  %-12s %10s %8s",
			d.Date.Format("Mon Jan 02"), formatDuration(d.Duration), report.FormatHours(d.Duration),
		)))
	}

	return strings.Join(rows, "\n")
}
