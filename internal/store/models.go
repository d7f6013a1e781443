package store

import (
	"time"

	"github.com/sadopc/cinner/internal/timesheet"
)

// ProjectInfo is a project's metadata without its sessions.
type ProjectInfo struct {
	ID           int64
	Name         string
	Color        string
	Archived     bool
	SessionCount int
	Active       bool // last session is open
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionRow is a stored session with its identity.
type SessionRow struct {
	ID        int64
	ProjectID int64
	timesheet.Session
}

// ToggleResult describes what Toggle did.
type ToggleResult struct {
	Project string
	Created bool // project did not exist before
	Started bool // false means the open session was closed
	Session SessionRow
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	SettingHourlyRate = "hourly_rate"
	SettingDailyGoal  = "daily_goal"
	SettingWeekStart  = "week_start"
)

var defaultSettings = map[string]string{
	SettingHourlyRate: "125",
	SettingDailyGoal:  "28800",
	SettingWeekStart:  "monday",
}

const defaultColor = "#6C63FF"
