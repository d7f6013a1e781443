package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/cinner/internal/timesheet"
)

func (s *Store) CreateProject(name, color string) (*ProjectInfo, error) {
	if color == "" {
		color = defaultColor
	}
	if _, err := insertProject(s.db, name, color); err != nil {
		return nil, err
	}
	return s.GetProjectInfo(name)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertProject(db execer, name, color string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO projects (name, color, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, color, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return res.LastInsertId()
}

func projectID(q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM projects WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("get project %q: %w", name, err)
	}
	return id, nil
}

const projectInfoQuery = `
	SELECT p.id, p.name, p.color, p.archived, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM sessions WHERE project_id = p.id),
	       EXISTS (SELECT 1 FROM sessions WHERE project_id = p.id AND end_time IS NULL)
	FROM projects p`

type scanner interface {
	Scan(dest ...any) error
}

func scanProjectInfo(row scanner) (ProjectInfo, error) {
	var p ProjectInfo
	var createdAt, updatedAt string
	var archived, active int
	if err := row.Scan(&p.ID, &p.Name, &p.Color, &archived, &createdAt, &updatedAt, &p.SessionCount, &active); err != nil {
		return p, err
	}
	p.Archived = archived == 1
	p.Active = active == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

func (s *Store) GetProjectInfo(name string) (*ProjectInfo, error) {
	p, err := scanProjectInfo(s.db.QueryRow(projectInfoQuery+` WHERE p.name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", name, err)
	}
	return &p, nil
}

func (s *Store) ListProjects(includeArchived bool) ([]ProjectInfo, error) {
	query := projectInfoQuery
	if !includeArchived {
		query += ` WHERE p.archived = 0`
	}
	query += ` ORDER BY p.name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []ProjectInfo
	for rows.Next() {
		p, err := scanProjectInfo(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) updateProject(name, set string, args ...any) error {
	now := time.Now().UTC().Format(time.RFC3339)
	args = append(args, now, name)
	res, err := s.db.Exec(`UPDATE projects SET `+set+`, updated_at = ? WHERE name = ?`, args...)
	if err != nil {
		return fmt.Errorf("update project %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return nil
}

func (s *Store) RenameProject(oldName, newName string) error {
	return s.updateProject(oldName, `name = ?`, newName)
}

func (s *Store) SetProjectColor(name, color string) error {
	return s.updateProject(name, `color = ?`, color)
}

func (s *Store) ArchiveProject(name string) error {
	return s.updateProject(name, `archived = 1`)
}

func (s *Store) UnarchiveProject(name string) error {
	return s.updateProject(name, `archived = 0`)
}

// DeleteProject removes the project and all of its sessions.
func (s *Store) DeleteProject(name string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return nil
}

// MergeProjects moves every session of src into dst, skipping sessions whose
// start and end text already exist in dst, then deletes src. It returns the
// number of sessions moved.
func (s *Store) MergeProjects(src, dst string) (int, error) {
	if src == dst {
		return 0, ErrSameProject
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback()

	srcID, err := projectID(tx, src)
	if err != nil {
		return 0, err
	}
	dstID, err := projectID(tx, dst)
	if err != nil {
		return 0, err
	}
	srcOpen, err := openSessionID(tx, srcID)
	if err != nil {
		return 0, fmt.Errorf("find open session: %w", err)
	}
	dstOpen, err := openSessionID(tx, dstID)
	if err != nil {
		return 0, fmt.Errorf("find open session: %w", err)
	}
	if srcOpen != 0 && dstOpen != 0 {
		return 0, fmt.Errorf("merge %q into %q: %w", src, dst, ErrSessionOpen)
	}

	// NULL end compares unequal in SQL, so open sessions are matched with IS.
	res, err := tx.Exec(`
		UPDATE sessions SET project_id = ?
		WHERE project_id = ?
		  AND NOT EXISTS (
			SELECT 1 FROM sessions d
			WHERE d.project_id = ?
			  AND d.start_time = sessions.start_time
			  AND d.end_time IS sessions.end_time
		  )`,
		dstID, srcID, dstID,
	)
	if err != nil {
		return 0, fmt.Errorf("move sessions: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("move sessions: %w", err)
	}
	// Moved rows keep their ids, so a tracked session from src may now sit
	// before dst's later sessions.
	if srcOpen != 0 {
		if err := reappend(tx, srcOpen); err != nil {
			return 0, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, srcID); err != nil {
		return 0, fmt.Errorf("delete merged project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit merge: %w", err)
	}
	s.log.Info("projects merged", "from", src, "into", dst, "moved", moved)
	return int(moved), nil
}

// ImportProject stores a project received verbatim from a data file or sync
// payload. An existing project's sessions are replaced. Every record is
// checked first, so a malformed timestamp, an inverted session or an open
// session that is not last rejects the whole project.
func (s *Store) ImportProject(pr timesheet.ProjectRecord) error {
	if pr.Name == "" {
		return errors.New("import project: missing project_name")
	}
	p, err := timesheet.ParseProject(pr, s.loc)
	if err != nil {
		return fmt.Errorf("import project: %w", err)
	}
	for i, sess := range p.Sessions {
		if sess.End != nil && sess.End.Before(sess.Start) {
			return fmt.Errorf("import project %q: session %d: %w", pr.Name, i,
				&timesheet.DataIntegrityError{Start: sess.Start, End: *sess.End})
		}
		if sess.Open() && i != len(p.Sessions)-1 {
			return fmt.Errorf("import project %q: session %d: %w", pr.Name, i, ErrOpenNotLast)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	id, err := projectID(tx, pr.Name)
	if errors.Is(err, ErrProjectNotFound) {
		id, err = insertProject(tx, pr.Name, defaultColor)
	}
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	for _, r := range pr.Sessions {
		var end sql.NullString
		if r.End != nil && *r.End != "" {
			end = sql.NullString{String: *r.End, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO sessions (project_id, start_time, end_time, comment, closing_comment) VALUES (?, ?, ?, ?, ?)`,
			id, r.Start, end, r.Comment, r.ClosingComment,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	s.log.Debug("project imported", "project", pr.Name, "sessions", len(pr.Sessions))
	return nil
}

// ExportProjects returns every project with its sessions in wire form,
// timestamps exactly as stored.
func (s *Store) ExportProjects() ([]timesheet.ProjectRecord, error) {
	rows, err := s.db.Query(`
		SELECT p.name, s.start_time, s.end_time, s.comment, s.closing_comment
		FROM projects p
		LEFT JOIN sessions s ON s.project_id = p.id
		ORDER BY p.name, s.id`)
	if err != nil {
		return nil, fmt.Errorf("export projects: %w", err)
	}
	defer rows.Close()

	var out []timesheet.ProjectRecord
	for rows.Next() {
		var name string
		var start, end, comment, closing sql.NullString
		if err := rows.Scan(&name, &start, &end, &comment, &closing); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, timesheet.ProjectRecord{Name: name, Sessions: []timesheet.Record{}})
		}
		if !start.Valid {
			continue
		}
		r := timesheet.Record{Start: start.String, Comment: comment.String, ClosingComment: closing.String}
		if end.Valid {
			e := end.String
			r.End = &e
		}
		last := &out[len(out)-1]
		last.Sessions = append(last.Sessions, r)
	}
	return out, rows.Err()
}
