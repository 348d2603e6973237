// Package term provides the low-level terminal control used by the
// windowed subprocess display: DECSTBM scrolling-region sequences,
// cursor positioning, size queries, and the progress display policy.
//
// The escape primitives write raw bytes and have no awareness of prior
// terminal state. Callers should gate them behind IsTerminal, since the
// sequences corrupt redirected output streams (files, CI logs).
package term

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Size returns the dimensions of the terminal attached to f.
// It fails when f is not a terminal or the query is unsupported.
func Size(f *os.File) (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	return rows, cols, nil
}

// Region computes the scrolling-region rows (1-indexed, inclusive) for
// a display window of height lines at the bottom of a terminal with
// termRows rows. A window at least as tall as the terminal collapses
// the region to the whole screen.
func Region(height, termRows int) (top, bottom int) {
	bottom = termRows
	if height < termRows {
		top = termRows - height + 1
	} else {
		top = 1
	}
	return top, bottom
}

// SetScrollRegion confines scrolling to rows top through bottom
// (1-indexed, inclusive) using DECSTBM. The caller must ensure
// 1 <= top <= bottom.
func SetScrollRegion(w io.Writer, top, bottom int) error {
	if _, err := fmt.Fprintf(w, "\x1b[%d;%dr", top, bottom); err != nil {
		return fmt.Errorf("set scrolling region: %w", err)
	}
	return nil
}

// ResetScrollRegion restores full-terminal scrolling. Safe to call
// regardless of whether a region is currently set.
func ResetScrollRegion(w io.Writer) error {
	if _, err := io.WriteString(w, "\x1b[r"); err != nil {
		return fmt.Errorf("reset scrolling region: %w", err)
	}
	return nil
}

// MoveCursorToLine places the cursor at column 1 of the given line
// (1-indexed).
func MoveCursorToLine(w io.Writer, line int) error {
	if _, err := fmt.Fprintf(w, "\x1b[%d;1H", line); err != nil {
		return fmt.Errorf("move cursor to line %d: %w", line, err)
	}
	return nil
}

// ClearToScreenEnd clears from the cursor position to the end of the
// screen. The caller is responsible for positioning the cursor first;
// this primitive knows nothing about region bounds.
func ClearToScreenEnd(w io.Writer) error {
	if _, err := io.WriteString(w, "\x1b[J"); err != nil {
		return fmt.Errorf("clear to end of screen: %w", err)
	}
	return nil
}
