package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendCreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tailrun.log")

	if err := Append(path, "first"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := Append(path, "second"); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], " first") || !strings.HasSuffix(lines[1], " second") {
		t.Errorf("lines out of order or missing content: %q", lines)
	}
	// Each line starts with an RFC3339 timestamp.
	for _, l := range lines {
		if !strings.Contains(l, "T") || !strings.Contains(l, "Z ") {
			t.Errorf("missing timestamp prefix: %q", l)
		}
	}
}

func TestAppendfUsesDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TAILRUN_HOME", home)

	if err := Appendf("run %q exit=%d", "go test", 0); err != nil {
		t.Fatalf("Appendf failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, "tailrun.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `run "go test" exit=0`) {
		t.Errorf("missing formatted content: %q", data)
	}
}

func TestDefaultPathHonorsHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAILRUN_HOME", dir)

	if got := DefaultPath(); got != filepath.Join(dir, "tailrun.log") {
		t.Errorf("got %q", got)
	}
}
