package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSameProject     = errors.New("cannot merge a project with itself")
	ErrSessionOpen     = errors.New("project already has an open session")
	ErrNoOpenSession   = errors.New("project has no open session")
	ErrOpenNotLast     = errors.New("only the last session may be open")
)

// Store persists projects and their sessions in SQLite. Session timestamps
// are kept in the timesheet wire format and interpreted in loc.
type Store struct {
	db       *sql.DB
	loc      *time.Location
	log      hclog.Logger
	defaults map[string]string
}

type Option func(*Store)

// WithLocation sets the zone stored timestamps are read and written in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDefaults overrides the settings seeded when a database is first
// created. Existing databases keep their stored values.
func WithDefaults(settings map[string]string) Option {
	return func(s *Store) {
		for k, v := range settings {
			s.defaults[k] = v
		}
	}
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, opts ...Option) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:       db,
		loc:      time.Local,
		log:      hclog.NewNullLogger(),
		defaults: make(map[string]string, len(defaultSettings)),
	}
	for k, v := range defaultSettings {
		s.defaults[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing. Timestamps are read
// in UTC unless overridden.
func NewMemory(opts ...Option) (*Store, error) {
	return New(":memory:", append([]Option{WithLocation(time.UTC)}, opts...)...)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the zone session timestamps are interpreted in.
func (s *Store) Location() *time.Location { return s.loc }

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	if err == nil {
		s.log.Info("database migrated", "from", version, "to", currentVersion)
	}
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		archived    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id      INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_time      TEXT NOT NULL,
		end_time        TEXT,
		comment         TEXT NOT NULL DEFAULT '',
		closing_comment TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open ON sessions(project_id) WHERE end_time IS NULL;

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}

	keys := make([]string, 0, len(s.defaults))
	for k := range s.defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, k, s.defaults[k]); err != nil {
			return fmt.Errorf("seed setting %q: %w", k, err)
		}
	}
	return nil
}

// DefaultDBPath returns ~/.config/cinner/cinner.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "cinner", "cinner.db"), nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}
