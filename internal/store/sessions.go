package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/cinner/internal/timesheet"
)

const sessionColumns = `id, project_id, start_time, end_time, comment, closing_comment`

func (s *Store) scanSession(row scanner) (SessionRow, error) {
	var r SessionRow
	var start string
	var end sql.NullString
	if err := row.Scan(&r.ID, &r.ProjectID, &start, &end, &r.Comment, &r.ClosingComment); err != nil {
		return r, err
	}
	rec := timesheet.Record{Start: start}
	if end.Valid {
		rec.End = &end.String
	}
	parsed, err := timesheet.ParseSession(rec, s.loc)
	if err != nil {
		return r, fmt.Errorf("session %d: %w", r.ID, err)
	}
	r.Start, r.End = parsed.Start, parsed.End
	return r, nil
}

func (s *Store) getSession(q querier, id int64) (SessionRow, error) {
	r, err := s.scanSession(q.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return r, err
}

// ListSessions returns the project's sessions in insertion order.
func (s *Store) ListSessions(name string) ([]SessionRow, error) {
	id, err := projectID(s.db, name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT `+sessionColumns+` FROM sessions WHERE project_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRow
	for rows.Next() {
		r, err := s.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", name, err)
		}
		sessions = append(sessions, r)
	}
	return sessions, rows.Err()
}

// GetProject returns a snapshot of the project and its sessions. The
// returned value shares nothing with the store.
func (s *Store) GetProject(name string) (*timesheet.Project, error) {
	rows, err := s.ListSessions(name)
	if err != nil {
		return nil, err
	}
	p := &timesheet.Project{Name: name, Sessions: make([]timesheet.Session, 0, len(rows))}
	for _, r := range rows {
		p.Sessions = append(p.Sessions, r.Session)
	}
	return p, nil
}

// Sessions returns the project's sessions, or nil for an unknown project.
func (s *Store) Sessions(name string) ([]timesheet.Session, error) {
	p, err := s.GetProject(name)
	if errors.Is(err, ErrProjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Sessions, nil
}

func openSessionID(q querier, projectID int64) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM sessions WHERE project_id = ? AND end_time IS NULL`, projectID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (s *Store) stamp(t time.Time) string {
	return timesheet.FormatTimestamp(t.In(s.loc))
}

// Toggle creates the project with an open session, closes the project's
// open session, or appends a new open session, whichever applies.
func (s *Store) Toggle(name, comment string, now time.Time) (*ToggleResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	result := &ToggleResult{Project: name}
	pid, err := projectID(tx, name)
	if errors.Is(err, ErrProjectNotFound) {
		pid, err = insertProject(tx, name, defaultColor)
		result.Created = true
	}
	if err != nil {
		return nil, err
	}

	openID, err := openSessionID(tx, pid)
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}

	var sid int64
	if openID != 0 {
		open, gerr := s.getSession(tx, openID)
		if gerr != nil {
			return nil, gerr
		}
		if now.Before(open.Start) {
			return nil, &timesheet.DataIntegrityError{Start: open.Start, End: now}
		}
		sid, err = closeSession(tx, openID, s.stamp(now), comment)
	} else {
		sid, err = insertOpenSession(tx, pid, s.stamp(now), comment)
		result.Started = true
	}
	if err != nil {
		return nil, err
	}

	if result.Session, err = s.getSession(tx, sid); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit toggle: %w", err)
	}
	s.log.Debug("project toggled", "project", name, "started", result.Started, "created", result.Created)
	return result, nil
}

func insertOpenSession(tx *sql.Tx, projectID int64, start, comment string) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO sessions (project_id, start_time, comment) VALUES (?, ?, ?)`,
		projectID, start, comment,
	)
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	return res.LastInsertId()
}

func closeSession(tx *sql.Tx, id int64, end, closingComment string) (int64, error) {
	_, err := tx.Exec(
		`UPDATE sessions SET end_time = ?, closing_comment = ? WHERE id = ?`,
		end, closingComment, id,
	)
	if err != nil {
		return 0, fmt.Errorf("stop session: %w", err)
	}
	return id, nil
}

// StartSession opens a new session, creating the project if needed.
func (s *Store) StartSession(name, comment string, now time.Time) (*SessionRow, error) {
	p, err := s.GetProjectInfo(name)
	if errors.Is(err, ErrProjectNotFound) {
		res, err := s.Toggle(name, comment, now)
		if err != nil {
			return nil, err
		}
		return &res.Session, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Active {
		return nil, fmt.Errorf("%w: %q", ErrSessionOpen, name)
	}
	res, err := s.Toggle(name, comment, now)
	if err != nil {
		return nil, err
	}
	return &res.Session, nil
}

// StopSession closes the project's open session.
func (s *Store) StopSession(name, closingComment string, now time.Time) (*SessionRow, error) {
	p, err := s.GetProjectInfo(name)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: %q", ErrNoOpenSession, name)
	}
	res, err := s.Toggle(name, closingComment, now)
	if err != nil {
		return nil, err
	}
	return &res.Session, nil
}

// AddManualSession appends a back-dated closed session, creating the project
// if needed. When the project is being tracked, its open session is moved
// after the new one so it stays the project's last session.
func (s *Store) AddManualSession(name string, start, end time.Time, comment, closingComment string) (*SessionRow, error) {
	if end.Before(start) {
		return nil, &timesheet.DataIntegrityError{Start: start, End: end}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin manual session: %w", err)
	}
	defer tx.Rollback()

	pid, err := projectID(tx, name)
	if errors.Is(err, ErrProjectNotFound) {
		pid, err = insertProject(tx, name, defaultColor)
	}
	if err != nil {
		return nil, err
	}

	openID, err := openSessionID(tx, pid)
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO sessions (project_id, start_time, end_time, comment, closing_comment) VALUES (?, ?, ?, ?, ?)`,
		pid, s.stamp(start), s.stamp(end), comment, closingComment,
	)
	if err != nil {
		return nil, fmt.Errorf("insert manual session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert manual session: %w", err)
	}

	if openID != 0 {
		if err := reappend(tx, openID); err != nil {
			return nil, err
		}
	}

	row, err := s.getSession(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit manual session: %w", err)
	}
	return &row, nil
}

// reappend moves an open session behind every other session of its
// project by giving it a fresh id.
func reappend(tx *sql.Tx, id int64) error {
	var pid int64
	var start, comment string
	err := tx.QueryRow(`SELECT project_id, start_time, comment FROM sessions WHERE id = ?`, id).
		Scan(&pid, &start, &comment)
	if err != nil {
		return fmt.Errorf("read open session: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("move open session: %w", err)
	}
	if _, err := insertOpenSession(tx, pid, start, comment); err != nil {
		return fmt.Errorf("move open session: %w", err)
	}
	return nil
}

// CorrectSession rewrites the bounds of a closed session.
func (s *Store) CorrectSession(id int64, start, end time.Time) (*SessionRow, error) {
	if end.Before(start) {
		return nil, &timesheet.DataIntegrityError{Start: start, End: end}
	}
	row, err := s.getSession(s.db, id)
	if err != nil {
		return nil, err
	}
	if row.Open() {
		return nil, fmt.Errorf("correct session %d: %w", id, ErrSessionOpen)
	}
	_, err = s.db.Exec(
		`UPDATE sessions SET start_time = ?, end_time = ? WHERE id = ?`,
		s.stamp(start), s.stamp(end), id,
	)
	if err != nil {
		return nil, fmt.Errorf("correct session %d: %w", id, err)
	}
	row, err = s.getSession(s.db, id)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) DeleteSession(id int64) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return nil
}
