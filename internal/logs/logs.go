// Package logs appends diagnostic lines to tailrun's plain-text log
// file. Logging is best-effort bookkeeping for post-hoc debugging;
// callers ignore failures.
package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultPath returns the log file location, honoring TAILRUN_HOME.
func DefaultPath() string {
	if home := os.Getenv("TAILRUN_HOME"); home != "" {
		return filepath.Join(home, "tailrun.log")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tailrun", "tailrun.log")
	}
	return filepath.Join(homeDir, ".tailrun", "tailrun.log")
}

// Append writes one timestamped line to the log file at path, creating
// the file and its directory as needed. An empty path uses DefaultPath.
func Append(path, line string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := fmt.Fprintf(f, "%s %s\n", ts, line); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}
	return nil
}

// Appendf formats a line and appends it to the default log file.
func Appendf(format string, args ...any) error {
	return Append("", fmt.Sprintf(format, args...))
}
