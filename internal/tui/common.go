package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/cinner/internal/report"
	"github.com/sadopc/cinner/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "Reports", "Settings"}

// --- Messages ---

type sessionStartedMsg struct {
	project string
	session *store.SessionRow
}

type sessionStoppedMsg struct {
	project string
	session *store.SessionRow
}

type projectsChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	return report.FormatClock(d)
}

func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.1fh", d.Hours())
}

func errCmd(format string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, err), isError: true}
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
