package status

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestStatusPaintsEphemeralLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Status("Running", "go test ./...")

	out := buf.String()
	if !strings.HasPrefix(out, "\r\x1b[2K") {
		t.Errorf("ephemeral paint must start with carriage return and erase: %q", out)
	}
	if !strings.Contains(out, "Running") || !strings.Contains(out, "go test ./...") {
		t.Errorf("missing action or target: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("ephemeral line must not end with a newline: %q", out)
	}
}

func TestStatusDisabledWritesNothingEphemeral(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Status("Running", "quiet")
	l.Clear()

	if buf.Len() != 0 {
		t.Errorf("disabled line wrote %q", buf.String())
	}
}

func TestStatusPermanentAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.StatusPermanent("Finished", "exit code 0")

	out := buf.String()
	if !strings.Contains(out, "Finished") || !strings.HasSuffix(out, "\n") {
		t.Errorf("permanent line must print with trailing newline even when disabled: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("disabled line must not color output: %q", out)
	}
}

func TestActionRightJustified(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.StatusPermanent("Running", "x")

	want := strings.Repeat(" ", actionWidth-len("Running")) + "Running x\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPermanentInterleavesWithEphemeral(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Status("Waiting", "lock")
	buf.Reset()

	l.Printf("a permanent note")

	out := buf.String()
	// Erase, print the permanent line, repaint the ephemeral line.
	if !strings.HasPrefix(out, "\r\x1b[2K") {
		t.Errorf("must erase before printing: %q", out)
	}
	if !strings.Contains(out, "a permanent note\n") {
		t.Errorf("missing permanent content: %q", out)
	}
	if !strings.Contains(out[strings.Index(out, "\n"):], "Waiting") {
		t.Errorf("ephemeral line not restored after permanent print: %q", out)
	}
}

func TestSuspendHidesAndRestores(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Status("Loading", "config")
	buf.Reset()

	l.Suspend(func() {
		if got := buf.String(); got != "\r\x1b[2K" {
			t.Errorf("suspend must erase the line, got %q", got)
		}
		buf.Reset()
	})

	if !strings.Contains(buf.String(), "Loading") {
		t.Errorf("line not repainted after suspend: %q", buf.String())
	}
}

func TestSuspendWithReturnsValue(t *testing.T) {
	l := New(&bytes.Buffer{}, true)
	l.Status("Busy", "thing")

	got := SuspendWith(l, func() int { return 7 })
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestSpinAnimates(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Spin("working")
	defer l.Close()

	time.Sleep(350 * time.Millisecond)
	l.Clear()

	out := buf.String()
	if strings.Count(out, "working") < 2 {
		t.Errorf("spinner should have repainted at least once: %q", out)
	}
}

func TestSetMessageWithoutSpinnerIsNoop(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.SetMessage("ignored")

	if buf.Len() != 0 {
		t.Errorf("SetMessage without an active spinner wrote %q", buf.String())
	}
}

func TestClearErasesLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Status("Busy", "x")
	buf.Reset()

	l.Clear()
	if got := buf.String(); got != "\r\x1b[2K" {
		t.Errorf("clear wrote %q", got)
	}

	buf.Reset()
	l.Clear()
	if buf.Len() != 0 {
		t.Errorf("second clear must write nothing, got %q", buf.String())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New(&bytes.Buffer{}, true)
	l.Spin("spinning")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
