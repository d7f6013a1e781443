package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cinner/internal/store"
)

type settingsModel struct {
	store    *store.Store
	currency string
	width    int
	height   int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	hourlyRate *string
	dailyGoal  *string
	weekStart  *string
}

func newSettingsModel(s *store.Store, currency string) settingsModel {
	hr, dg, ws := "", "", ""
	return settingsModel{
		store:      s,
		currency:   currency,
		hourlyRate: &hr,
		dailyGoal:  &dg,
		weekStart:  &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func validateNumber(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if f < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.hourlyRate = s.getVal(store.SettingHourlyRate, "125")
	*s.dailyGoal = secsToHours(s.getVal(store.SettingDailyGoal, "28800"))
	*s.weekStart = s.getVal(store.SettingWeekStart, "monday")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(fmt.Sprintf("Hourly rate (%s)", s.currency)).Value(s.hourlyRate).Validate(validateNumber),
		).Title("Billing"),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).Validate(validateNumber),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errCmd("Settings error: %v", err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting(store.SettingHourlyRate, *s.hourlyRate); err != nil {
		return err
	}
	if err := s.store.SetSetting(store.SettingDailyGoal, hoursToSecs(*s.dailyGoal)); err != nil {
		return err
	}
	return s.store.SetSetting(store.SettingWeekStart, *s.weekStart)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value, s.currency))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v, currency string) string {
	switch k {
	case store.SettingHourlyRate:
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			return fmt.Sprintf("%s%.2f / hour", currency, rate)
		}
	case store.SettingDailyGoal:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(secs)/3600)
		}
	}
	return v
}

// dailyGoal reads the daily goal setting, zero when unset or invalid.
func dailyGoal(s *store.Store) time.Duration {
	v, err := s.GetSetting(store.SettingDailyGoal)
	if err != nil {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// weekStart reads the first day of the week setting.
func weekStart(s *store.Store) time.Weekday {
	v, _ := s.GetSetting(store.SettingWeekStart)
	if v == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func secsToHours(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf("%.1f", float64(secs)/3600)
	}
	return s
}

func hoursToSecs(s string) string {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(hours * 3600))
	}
	return s
}
