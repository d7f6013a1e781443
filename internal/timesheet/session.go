package timesheet

import (
	"fmt"
	"time"
)

// Session is one contiguous span of tracked work. End is nil while the
// session is open. Comment and ClosingComment are display data only.
type Session struct {
	Start          time.Time
	End            *time.Time
	Comment        string
	ClosingComment string
}

// Open reports whether the session is still being tracked.
func (s Session) Open() bool { return s.End == nil }

// EffectiveEnd returns the end used for aggregation: the recorded end, or
// now for an open session. An open session that starts after now ends at
// its own start.
func (s Session) EffectiveEnd(now time.Time) time.Time {
	if s.End != nil {
		return *s.End
	}
	if now.Before(s.Start) {
		return s.Start
	}
	return now
}

// Duration is the raw, unclipped length of the session at now.
func (s Session) Duration(now time.Time) (time.Duration, error) {
	start, end, err := s.bounds(now)
	if err != nil {
		return 0, err
	}
	return end.Sub(start).Round(time.Second), nil
}

func (s Session) bounds(now time.Time) (time.Time, time.Time, error) {
	if s.End != nil && s.End.Before(s.Start) {
		return time.Time{}, time.Time{}, &DataIntegrityError{Start: s.Start, End: *s.End}
	}
	return s.Start, s.EffectiveEnd(now), nil
}

// wallBounds is bounds read off the wall clock of the start's location. A
// session inside a repeated fall-back hour can end before it starts on the
// wall clock; it is clamped to zero length.
func (s Session) wallBounds(now time.Time) (time.Time, time.Time, error) {
	start, end, err := s.bounds(now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	ws, we := Wall(start), Wall(end.In(start.Location()))
	if we.Before(ws) {
		we = ws
	}
	return ws, we, nil
}

// Record converts the session to its wire form.
func (s Session) Record() Record {
	r := Record{
		Start:          FormatTimestamp(s.Start),
		Comment:        s.Comment,
		ClosingComment: s.ClosingComment,
	}
	if s.End != nil {
		end := FormatTimestamp(*s.End)
		r.End = &end
	}
	return r
}

// Project is a named, append-ordered list of sessions. The order is not
// chronological.
type Project struct {
	Name     string
	Sessions []Session
}

// Current returns the last session, or nil if there are none.
func (p Project) Current() *Session {
	if len(p.Sessions) == 0 {
		return nil
	}
	return &p.Sessions[len(p.Sessions)-1]
}

// Active reports whether the project's last session is open.
func (p Project) Active() bool {
	c := p.Current()
	return c != nil && c.Open()
}

// Record converts the project to its wire form.
func (p Project) Record() ProjectRecord {
	pr := ProjectRecord{Name: p.Name, Sessions: make([]Record, 0, len(p.Sessions))}
	for _, s := range p.Sessions {
		pr.Sessions = append(pr.Sessions, s.Record())
	}
	return pr
}

// Record is a session as exchanged verbatim in data files and sync payloads.
type Record struct {
	Start          string  `json:"start"`
	End            *string `json:"end"`
	Comment        string  `json:"comment"`
	ClosingComment string  `json:"closing_comment,omitempty"`
}

// ProjectRecord is a project as exchanged in data files.
type ProjectRecord struct {
	Name     string   `json:"project_name"`
	Sessions []Record `json:"sessions"`
}

// ParseSession converts a wire record into a Session in loc.
func ParseSession(r Record, loc *time.Location) (Session, error) {
	start, err := parseField("start", r.Start, loc)
	if err != nil {
		return Session{}, err
	}
	s := Session{Start: start, Comment: r.Comment, ClosingComment: r.ClosingComment}
	if r.End != nil && *r.End != "" {
		end, err := parseField("end", *r.End, loc)
		if err != nil {
			return Session{}, err
		}
		s.End = &end
	}
	return s, nil
}

// ParseSessions converts records in order. The first malformed record
// aborts the conversion.
func ParseSessions(records []Record, loc *time.Location) ([]Session, error) {
	sessions := make([]Session, 0, len(records))
	for i, r := range records {
		s, err := ParseSession(r, loc)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// ParseProject converts a wire project.
func ParseProject(pr ProjectRecord, loc *time.Location) (Project, error) {
	sessions, err := ParseSessions(pr.Sessions, loc)
	if err != nil {
		return Project{}, fmt.Errorf("project %q: %w", pr.Name, err)
	}
	return Project{Name: pr.Name, Sessions: sessions}, nil
}

// DataIntegrityError reports a closed session whose end precedes its start.
type DataIntegrityError struct {
	Start time.Time
	End   time.Time
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("session ends before it starts: start %s, end %s",
		FormatTimestamp(e.Start), FormatTimestamp(e.End))
}
