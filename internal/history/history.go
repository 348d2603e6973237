// Package history persists a ledger of completed windowed runs in a
// local SQLite database. History is best-effort bookkeeping: failures
// here must never fail or delay the run that produced the entry.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded run.
type Entry struct {
	ID          string
	Command     string
	ExitCode    int
	OutputBytes int
	StartedAt   time.Time
	Duration    time.Duration
}

// DB is a handle to the history database.
type DB struct {
	path string
	conn *sql.DB
}

// Open opens the history database at the default location.
func Open() (*DB, error) {
	return OpenAt(DefaultPath())
}

// OpenAt opens (creating if needed) the history database at path. A
// corrupt database file is preserved under a .corrupt.<timestamp> name
// and a fresh one is created in its place.
func OpenAt(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	conn, err := openAndInit(clean)
	if err == nil {
		return &DB{path: clean, conn: conn}, nil
	}

	if !isCorruptSQLiteError(err) {
		return nil, err
	}

	if _, statErr := os.Stat(clean); statErr == nil {
		backupPath := clean + ".corrupt." + time.Now().UTC().Format("20060102T150405Z")
		if renameErr := os.Rename(clean, backupPath); renameErr != nil {
			return nil, fmt.Errorf("history db appears corrupt (%v), and rename failed: %w", err, renameErr)
		}
	}

	conn, err = openAndInit(clean)
	if err != nil {
		return nil, err
	}
	return &DB{path: clean, conn: conn}, nil
}

// DefaultPath returns the history database location, honoring
// TAILRUN_HOME.
func DefaultPath() string {
	if home := os.Getenv("TAILRUN_HOME"); home != "" {
		return filepath.Join(home, "data", "tailrun.db")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tailrun", "data", "tailrun.db")
	}
	return filepath.Join(homeDir, ".tailrun", "data", "tailrun.db")
}

// Close closes the database. Safe on a nil receiver.
func (d *DB) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Record inserts one completed run. A missing ID is filled in.
func (d *DB) Record(e Entry) error {
	if d == nil || d.conn == nil {
		return fmt.Errorf("history db is not open")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := d.conn.Exec(`
INSERT INTO runs (id, command, exit_code, output_bytes, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Command, e.ExitCode, e.OutputBytes,
		e.StartedAt.UTC().Format(time.RFC3339Nano), e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	if d == nil || d.conn == nil {
		return nil, fmt.Errorf("history db is not open")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.conn.Query(`
SELECT id, command, exit_code, output_bytes, started_at, duration_ms
FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &e.ExitCode, &e.OutputBytes, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, startedAt); perr == nil {
			e.StartedAt = t
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

func openAndInit(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite PRAGMAs are per-connection; keep a single shared connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	initErr := func() error {
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if _, err := conn.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			return fmt.Errorf("set journal_mode=WAL: %w", err)
		}
		if err := runMigrations(conn); err != nil {
			return err
		}
		return nil
	}()

	if initErr != nil {
		_ = conn.Close()
		return nil, initErr
	}

	return conn, nil
}

func dsn(path string) string {
	// Explicit file: DSN so mode=rwc auto-creates the file.
	return "file:" + filepath.ToSlash(path) + "?mode=rwc"
}

func isCorruptSQLiteError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrInvalid) {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "file is not a database"):
		return true
	case strings.Contains(msg, "malformed"):
		return true
	default:
		return false
	}
}
