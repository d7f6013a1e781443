package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cinner/internal/store"
	"github.com/sadopc/cinner/internal/timesheet"
)

// projectRow is one project as shown on the dashboard.
type projectRow struct {
	name      string
	color     string
	active    bool
	startedAt time.Time
	comment   string
	sessions  []timesheet.Session
}

type dashboardModel struct {
	store  *store.Store
	clock  func() time.Time
	timer  timerModel
	width  int
	height int

	rows       []projectRow
	todayTotal time.Duration
	dailyGoal  time.Duration
	cursor     int
}

func newDashboardModel(s *store.Store, clock func() time.Time) dashboardModel {
	return dashboardModel{
		store: s,
		clock: clock,
		timer: newTimerModel(s, clock),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	rows       []projectRow
	todayTotal time.Duration
	dailyGoal  time.Duration
	err        error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := d.clock().In(d.store.Location())
		projects, err := d.store.ListProjects(false)
		if err != nil {
			return dashboardDataMsg{err: err}
		}

		msg := dashboardDataMsg{dailyGoal: dailyGoal(d.store)}
		for _, p := range projects {
			snap, err := d.store.GetProject(p.Name)
			if err != nil {
				return dashboardDataMsg{err: err}
			}
			today, err := timesheet.DailyHours(snap.Sessions, now, now)
			if err != nil {
				return dashboardDataMsg{err: fmt.Errorf("project %q: %w", p.Name, err)}
			}
			row := projectRow{name: p.Name, color: p.Color, sessions: snap.Sessions}
			if cur := snap.Current(); cur != nil && cur.Open() {
				row.active = true
				row.startedAt = cur.Start
				row.comment = cur.Comment
			}
			msg.rows = append(msg.rows, row)
			msg.todayTotal += today
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, errCmd("Load error: %v", msg.err)
		}
		d.rows = msg.rows
		d.todayTotal = msg.todayTotal
		d.dailyGoal = msg.dailyGoal
		if d.cursor >= len(d.rows) {
			d.cursor = max(0, len(d.rows)-1)
		}
		d.timer.sync(d.rows)
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.rows)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
			if len(d.rows) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No projects yet. Press 2 to go to Projects and create one.", isError: true}
				}
			}
			return d.startSession(d.rows[d.cursor].name)

		case key.Matches(msg, keys.Stop):
			if len(d.rows) > 0 && d.rows[d.cursor].active {
				d.timer.follow(d.rows[d.cursor].name, d.rows[d.cursor].startedAt, d.clock())
			}
			return d.stopSession()
		}
	}
	return d, nil
}

func (d dashboardModel) startSession(project string) (dashboardModel, tea.Cmd) {
	row, err := d.timer.start(project, "")
	if err != nil {
		return d, errCmd("Error: %v", err)
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return sessionStartedMsg{project: project, session: row} },
	)
}

func (d dashboardModel) stopSession() (dashboardModel, tea.Cmd) {
	project := d.timer.project
	row, err := d.timer.stop("")
	if err != nil {
		return d, errCmd("Error: %v", err)
	}
	if row == nil {
		return d, nil
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return sessionStoppedMsg{project: project, session: row} },
	)
}

// liveToday returns today's merged total for row at the last tick.
func (d dashboardModel) liveToday(row projectRow) (time.Duration, error) {
	now := d.timer.now.In(d.store.Location())
	today, err := timesheet.DailyHours(row.sessions, now, now)
	if err != nil {
		return 0, fmt.Errorf("project %q: %w", row.name, err)
	}
	return today, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	summaryPanel := d.renderSummaryPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeStr := formatDuration(d.timer.currentElapsed())
		timeDisplay := timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator := successStyle.Render("●  RUNNING")
		projectLine := highlightStyle.Render(d.timer.project)
		since := mutedStyle.Render("since " + timesheet.FormatTimestamp(d.timer.startedAt))

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			projectLine,
			since,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Press s to start tracking the selected project")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	total := d.todayTotal
	if d.timer.running() {
		total = 0
		for _, r := range d.rows {
			if today, err := d.liveToday(r); err == nil {
				total += today
			}
		}
	}
	title := titleStyle.Render("Today")
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(formatDuration(total)))
	if d.dailyGoal > 0 {
		header += "  " + renderGoal(total, d.dailyGoal, 20)
	}

	if len(d.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No projects yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header, "")
	for i, r := range d.rows {
		colorDot := projectDot(r.color)
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := ""
		if r.active {
			status = successStyle.Render("running")
			if r.comment != "" {
				status += mutedStyle.Render("  " + r.comment)
			}
		}
		today, err := d.liveToday(r)
		if err != nil {
			status = errorStyle.Render("invalid sessions")
		}
		line := style.Render(fmt.Sprintf("%s%s %-20s %s", cursor, colorDot, r.name, formatDuration(today)))
		rows = append(rows, line+"  "+status)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s/enter: start  x: stop  ↑/↓: select"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderGoal draws a width-cell bar of done against goal.
func renderGoal(done, goal time.Duration, width int) string {
	filled := int(float64(width) * done.Seconds() / goal.Seconds())
	filled = min(max(filled, 0), width)
	bar := goalDoneStyle.Render(strings.Repeat("█", filled)) + goalLeftStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, mutedStyle.Render("of "+formatHours(goal)))
}
