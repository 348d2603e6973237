// Package status renders cargo-style status lines on a terminal
// stream: a single ephemeral line for the action in progress, permanent
// lines for results, and an optional animated spinner. At most one
// ephemeral line is active at a time; it is owned by an explicit Line
// handle rather than process-global state so that anything else writing
// to the same stream can suspend it first.
package status

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// actionWidth right-justifies the action word the way cargo does
// ("   Compiling", "    Building").
const actionWidth = 12

const spinInterval = 100 * time.Millisecond

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	styleEphemeral = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan
	stylePermanent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // green
	styleInfo      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleWarning   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // yellow
	styleError     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // red
	styleSpinner   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Line manages the single ephemeral status line on out. Permanent
// messages print on all configurations; the ephemeral line and colors
// are rendered only when enabled (normally: out is a terminal and the
// progress policy allows it).
type Line struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool

	text      string // current ephemeral content, empty when idle
	shown     bool   // text is currently painted
	suspended bool

	spinMsg  string
	frame    int
	spinStop chan struct{}
}

// New returns a status line writing to out.
func New(out io.Writer, enabled bool) *Line {
	return &Line{out: out, enabled: enabled}
}

// Status shows an ephemeral "     Action target" line, replacing any
// previous ephemeral line or spinner.
func (l *Line) Status(action, target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopSpinnerLocked()
	l.setLocked(l.format(styleEphemeral, action, target))
}

// Spin shows an ephemeral spinner line that animates every 100ms until
// replaced or cleared.
func (l *Line) Spin(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopSpinnerLocked()
	l.spinMsg = message
	l.frame = 0
	l.setLocked(l.spinTextLocked())
	if !l.enabled {
		return
	}
	stop := make(chan struct{})
	l.spinStop = stop
	go l.tick(stop)
}

// SetMessage updates the message of an active spinner line.
func (l *Line) SetMessage(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.spinStop == nil {
		return
	}
	l.spinMsg = message
	l.setLocked(l.spinTextLocked())
}

// StatusPermanent prints a "     Action target" line that is never
// cleared. Use before operations that produce their own terminal
// output, such as a windowed subprocess run.
func (l *Line) StatusPermanent(action, target string) {
	l.println(stylePermanent, action, target)
}

// Info prints a permanent cyan line.
func (l *Line) Info(action, target string) { l.println(styleInfo, action, target) }

// Warning prints a permanent yellow line.
func (l *Line) Warning(action, target string) { l.println(styleWarning, action, target) }

// Error prints a permanent red line.
func (l *Line) Error(action, target string) { l.println(styleError, action, target) }

// Printf prints a permanent plain line, suspending the ephemeral line
// around it.
func (l *Line) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.printPermanentLocked(fmt.Sprintf(format, args...))
}

// Suspend hides the ephemeral line while f runs, then restores it.
func (l *Line) Suspend(f func()) {
	l.mu.Lock()
	l.suspended = true
	l.eraseLocked()
	l.mu.Unlock()

	f()

	l.mu.Lock()
	l.suspended = false
	l.paintLocked()
	l.mu.Unlock()
}

// SuspendWith runs f with the ephemeral line hidden and returns its
// result.
func SuspendWith[T any](l *Line, f func() T) T {
	var v T
	l.Suspend(func() { v = f() })
	return v
}

// Clear removes the current ephemeral line immediately.
func (l *Line) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopSpinnerLocked()
	l.text = ""
	l.eraseLocked()
}

// Finish clears the ephemeral line and marks the manager idle.
func (l *Line) Finish() { l.Clear() }

// Close clears any still-active line and stops the spinner goroutine.
// It is idempotent and safe to defer on every exit path; this is the
// teardown guarantee for the terminal state the line occupies.
func (l *Line) Close() error {
	l.Clear()
	return nil
}

func (l *Line) println(st lipgloss.Style, action, target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.printPermanentLocked(l.format(st, action, target))
}

// printPermanentLocked writes a permanent line, temporarily hiding the
// ephemeral line so the two never interleave.
func (l *Line) printPermanentLocked(text string) {
	restore := l.shown
	l.eraseLocked()
	fmt.Fprintln(l.out, text)
	if restore {
		l.paintLocked()
	}
}

func (l *Line) format(st lipgloss.Style, action, target string) string {
	padded := fmt.Sprintf("%*s", actionWidth, action)
	if l.enabled {
		padded = st.Render(padded)
	}
	return padded + " " + target
}

func (l *Line) spinTextLocked() string {
	frame := spinFrames[l.frame%len(spinFrames)]
	if l.enabled {
		frame = styleSpinner.Render(frame)
	}
	return frame + " " + l.spinMsg
}

func (l *Line) setLocked(text string) {
	l.text = text
	l.paintLocked()
}

// paintLocked (re)draws the ephemeral line in place: carriage return,
// erase line, content, no trailing newline.
func (l *Line) paintLocked() {
	if !l.enabled || l.suspended || l.text == "" {
		return
	}
	fmt.Fprint(l.out, "\r\x1b[2K"+l.text)
	l.shown = true
}

func (l *Line) eraseLocked() {
	if l.shown {
		fmt.Fprint(l.out, "\r\x1b[2K")
		l.shown = false
	}
}

func (l *Line) stopSpinnerLocked() {
	if l.spinStop != nil {
		close(l.spinStop)
		l.spinStop = nil
	}
}

func (l *Line) tick(stop chan struct{}) {
	t := time.NewTicker(spinInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			l.mu.Lock()
			if l.spinStop != stop {
				l.mu.Unlock()
				return
			}
			l.frame++
			l.setLocked(l.spinTextLocked())
			l.mu.Unlock()
		}
	}
}
