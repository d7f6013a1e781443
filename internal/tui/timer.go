package tui

import (
	"time"

	"github.com/sadopc/cinner/internal/store"
)

// timerModel follows one project's open session. The session itself lives
// in the store, so the timer survives restarts and CLI toggles.
type timerModel struct {
	store *store.Store
	clock func() time.Time

	project   string
	startedAt time.Time
	now       time.Time
}

func newTimerModel(s *store.Store, clock func() time.Time) timerModel {
	return timerModel{
		store: s,
		clock: clock,
		now:   clock(),
	}
}

func (t *timerModel) start(project, comment string) (*store.SessionRow, error) {
	now := t.clock()
	row, err := t.store.StartSession(project, comment, now)
	if err != nil {
		return nil, err
	}
	t.follow(project, row.Start, now)
	return row, nil
}

// stop closes the followed project's session.
func (t *timerModel) stop(closingComment string) (*store.SessionRow, error) {
	if !t.running() {
		return nil, nil
	}
	row, err := t.store.StopSession(t.project, closingComment, t.clock())
	if err != nil {
		return nil, err
	}
	t.clear()
	return row, nil
}

func (t *timerModel) follow(project string, startedAt, now time.Time) {
	t.project = project
	t.startedAt = startedAt
	t.now = now
}

func (t *timerModel) clear() {
	t.project = ""
	t.startedAt = time.Time{}
}

// sync follows the most recently started open session among rows, or
// clears the timer when none is open.
func (t *timerModel) sync(rows []projectRow) {
	var latest *projectRow
	for i := range rows {
		r := &rows[i]
		if !r.active {
			continue
		}
		if r.name == t.project {
			t.startedAt = r.startedAt
			return
		}
		if latest == nil || r.startedAt.After(latest.startedAt) {
			latest = r
		}
	}
	if latest == nil {
		t.clear()
		return
	}
	t.follow(latest.name, latest.startedAt, t.clock())
}

func (t *timerModel) tick() {
	t.now = t.clock()
}

func (t timerModel) running() bool {
	return t.project != ""
}

func (t timerModel) currentElapsed() time.Duration {
	if !t.running() || t.now.Before(t.startedAt) {
		return 0
	}
	return t.now.Sub(t.startedAt)
}
