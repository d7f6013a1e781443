package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cinner/internal/store"
	"github.com/sadopc/cinner/internal/timesheet"
)

var projectColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type formKind int

const (
	formNone formKind = iota
	formNewProject
	formManualSession
	formMerge
	formRename
)

// formFields holds huh-bound values behind a pointer so they survive
// value copies of the model.
type formFields struct {
	name    string
	color   string
	track   bool
	confirm bool
	comment string
	closing string
	start   string
	end     string
	target  string
}

type projectsModel struct {
	store  *store.Store
	clock  func() time.Time
	width  int
	height int

	projects        []store.ProjectInfo
	sessions        []store.SessionRow
	cursor          int
	sessionCursor   int
	showArchived    bool
	viewingSessions bool // true = viewing sessions of selected project

	formActive bool
	form       *huh.Form
	formType   formKind
	fields     *formFields
}

func newProjectsModel(s *store.Store, clock func() time.Time) projectsModel {
	return projectsModel{
		store:  s,
		clock:  clock,
		fields: &formFields{color: projectColors[0]},
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.ProjectInfo
}

type sessionsDataMsg struct {
	sessions []store.SessionRow
}

func (p projectsModel) refresh() tea.Cmd {
	showArchived := p.showArchived
	return func() tea.Msg {
		projects, err := p.store.ListProjects(showArchived)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return projectsDataMsg{projects: projects}
	}
}

func (p projectsModel) refreshSessions() tea.Cmd {
	name, ok := p.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		sessions, err := p.store.ListSessions(name)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return sessionsDataMsg{sessions: sessions}
	}
}

func (p projectsModel) selected() (string, bool) {
	if p.cursor >= len(p.projects) {
		return "", false
	}
	return p.projects[p.cursor].Name, true
}

// changed refreshes this view and tells the app the project set moved.
func (p projectsModel) changed(status string) tea.Cmd {
	return tea.Batch(
		p.refresh(),
		func() tea.Msg { return projectsChangedMsg{} },
		statusCmd(status),
	)
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case sessionsDataMsg:
		p.sessions = msg.sessions
		if p.sessionCursor >= len(p.sessions) {
			p.sessionCursor = max(0, len(p.sessions)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingSessions {
			return p.updateSessionView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingSessions = true
			p.sessionCursor = 0
			return p, p.refreshSessions()
		}
	case key.Matches(msg, keys.New):
		return p.showNewProjectForm()
	case key.Matches(msg, keys.Manual):
		if len(p.projects) > 0 {
			return p.showManualForm()
		}
	case key.Matches(msg, keys.Merge):
		if len(p.projects) > 1 {
			return p.showMergeForm()
		}
	case key.Matches(msg, keys.Rename):
		if len(p.projects) > 0 {
			return p.showRenameForm()
		}
	case key.Matches(msg, keys.Delete):
		if len(p.projects) > 0 {
			return p, p.toggleArchive(p.projects[p.cursor])
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	}
	return p, nil
}

func (p projectsModel) toggleArchive(proj store.ProjectInfo) tea.Cmd {
	if proj.Archived {
		if err := p.store.UnarchiveProject(proj.Name); err != nil {
			return errCmd("Error: %v", err)
		}
		return p.changed("Restored " + proj.Name)
	}
	if err := p.store.ArchiveProject(proj.Name); err != nil {
		return errCmd("Error: %v", err)
	}
	return p.changed("Archived " + proj.Name)
}

func (p projectsModel) updateSessionView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingSessions = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.sessionCursor > 0 {
			p.sessionCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.sessionCursor < len(p.sessions)-1 {
			p.sessionCursor++
		}
	case key.Matches(msg, keys.Manual):
		return p.showManualForm()
	case key.Matches(msg, keys.Delete):
		if len(p.sessions) > 0 {
			row := p.sessions[p.sessionCursor]
			if err := p.store.DeleteSession(row.ID); err != nil {
				return p, errCmd("Error: %v", err)
			}
			return p, tea.Batch(p.refreshSessions(), p.changed("Session deleted"))
		}
	}
	return p, nil
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (p projectsModel) validateTimestamp(s string) error {
	_, err := timesheet.ParseTimestamp(s, p.store.Location())
	return err
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	*p.fields = formFields{color: projectColors[0], track: true}
	p.formType = formNewProject

	colorOptions := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(&p.fields.name).Validate(validateName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(&p.fields.color),
			huh.NewConfirm().Title("Start tracking now?").Value(&p.fields.track),
			huh.NewInput().Title("Comment").Value(&p.fields.comment),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showManualForm() (projectsModel, tea.Cmd) {
	now := timesheet.FormatTimestamp(p.clock().In(p.store.Location()))
	*p.fields = formFields{start: now, end: now}
	p.formType = formManualSession

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (DD/MM/YY - HH:MM:SS)").Value(&p.fields.start).Validate(p.validateTimestamp),
			huh.NewInput().Title("End (DD/MM/YY - HH:MM:SS)").Value(&p.fields.end).Validate(p.validateTimestamp),
			huh.NewInput().Title("Comment").Value(&p.fields.comment),
			huh.NewInput().Title("Closing comment").Value(&p.fields.closing),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showMergeForm() (projectsModel, tea.Cmd) {
	src, _ := p.selected()
	*p.fields = formFields{}
	p.formType = formMerge

	var options []huh.Option[string]
	for _, proj := range p.projects {
		if proj.Name != src {
			options = append(options, huh.NewOption(proj.Name, proj.Name))
		}
	}
	p.fields.target = options[0].Value

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title(fmt.Sprintf("Merge %q into", src)).Options(options...).Value(&p.fields.target),
			huh.NewConfirm().Title(fmt.Sprintf("Delete %q after moving its sessions?", src)).Value(&p.fields.confirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showRenameForm() (projectsModel, tea.Cmd) {
	name, _ := p.selected()
	*p.fields = formFields{name: name}
	p.formType = formRename

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New name").Value(&p.fields.name).Validate(validateName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p, p.submit()
	}

	return p, cmd
}

// submit applies the completed form to the store.
func (p projectsModel) submit() tea.Cmd {
	f := *p.fields
	current, _ := p.selected()

	switch p.formType {
	case formNewProject:
		name := strings.TrimSpace(f.name)
		if _, err := p.store.CreateProject(name, f.color); err != nil {
			return errCmd("Error: %v", err)
		}
		if f.track {
			if _, err := p.store.StartSession(name, f.comment, p.clock()); err != nil {
				return errCmd("Error: %v", err)
			}
		}
		return p.changed("Created " + name)

	case formManualSession:
		loc := p.store.Location()
		start, err := timesheet.ParseTimestamp(f.start, loc)
		if err != nil {
			return errCmd("Error: %v", err)
		}
		end, err := timesheet.ParseTimestamp(f.end, loc)
		if err != nil {
			return errCmd("Error: %v", err)
		}
		row, err := p.store.AddManualSession(current, start, end, f.comment, f.closing)
		if err != nil {
			return errCmd("Error: %v", err)
		}
		d, _ := row.Duration(end)
		return tea.Batch(p.refreshSessions(), p.changed(fmt.Sprintf("Added %s to %s", formatDuration(d), current)))

	case formMerge:
		if !f.confirm {
			return statusCmd("Merge cancelled")
		}
		moved, err := p.store.MergeProjects(current, f.target)
		if err != nil {
			return errCmd("Error: %v", err)
		}
		return p.changed(fmt.Sprintf("Merged %s into %s (%d sessions moved)", current, f.target, moved))

	case formRename:
		name := strings.TrimSpace(f.name)
		if name == current {
			return nil
		}
		if err := p.store.RenameProject(current, name); err != nil {
			return errCmd("Error: %v", err)
		}
		return p.changed(fmt.Sprintf("Renamed %s to %s", current, name))
	}
	return nil
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		var title string
		switch p.formType {
		case formManualSession:
			name, _ := p.selected()
			title = "Add Session to " + name
		case formMerge:
			title = "Merge Project"
		case formRename:
			title = "Rename Project"
		default:
			title = "New Project"
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingSessions {
		return p.renderSessionView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s %-10s", "", "Name", "Sessions", "Status"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		colorDot := projectDot(proj.Color)
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := ""
		switch {
		case proj.Active:
			status = "running"
		case proj.Archived:
			status = "archived"
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-10d %-10s", cursor, colorDot, proj.Name, proj.SessionCount, status))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  a: add session  r: rename  m: merge  d: archive  v: archived  enter: sessions"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderSessionView() string {
	w := p.width - 4
	if p.cursor >= len(p.projects) {
		return panelStyle.Width(w).Render(mutedStyle.Render("No project selected"))
	}
	proj := p.projects[p.cursor]
	colorDot := projectDot(proj.Color)
	title := titleStyle.Render(fmt.Sprintf("%s %s: Sessions", colorDot, proj.Name))

	if len(p.sessions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No sessions. Press a to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := p.clock()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, s := range p.sessions {
		cursor := "  "
		style := normalItemStyle
		if i == p.sessionCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		end := "running"
		if !s.Open() {
			end = timesheet.FormatTimestamp(*s.End)
		}
		dur := "invalid"
		if d, err := s.Duration(now); err == nil {
			dur = formatDuration(d)
		}
		line := style.Render(fmt.Sprintf("%s%s  →  %-19s %s", cursor, timesheet.FormatTimestamp(s.Start), end, dur))
		if c := joinComments(s.Comment, s.ClosingComment); c != "" {
			line += mutedStyle.Render("  " + c)
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  a: add session  d: delete session  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func joinComments(comments ...string) string {
	var parts []string
	for _, c := range comments {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " / ")
}
