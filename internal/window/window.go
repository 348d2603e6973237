// Package window maintains a bounded display window over a byte
// stream: the most recent complete lines, repainted into a terminal
// scrolling region as new output arrives. The full stream is captured
// elsewhere; the window is display only.
package window

import (
	"bytes"
	"io"

	"github.com/joyshmitz/tailrun/internal/term"
)

// DefaultHeight is the number of lines shown when no height is
// configured.
const DefaultHeight = 5

// Window splits a chunked byte stream into lines and keeps the last N
// complete ones, oldest evicted first. Chunks may split a line at any
// byte boundary, so detection is stateful across Ingest calls. Line
// content is opaque: embedded escape sequences pass through untouched.
type Window struct {
	out       io.Writer
	capacity  int
	regionTop int
	paint     bool

	pending []byte   // not-yet-terminated tail of the stream
	lines   [][]byte // complete lines, oldest first, len <= capacity
}

// New returns a window of the given capacity that repaints into the
// scrolling region starting at regionTop on out. When paint is false
// (output is not a terminal) no bytes are ever written.
func New(out io.Writer, capacity, regionTop int, paint bool) *Window {
	if capacity <= 0 {
		capacity = DefaultHeight
	}
	return &Window{out: out, capacity: capacity, regionTop: regionTop, paint: paint}
}

// Ingest appends a chunk of raw output, splits off newly completed
// lines (terminator included), evicts past capacity, and repaints the
// region if anything completed.
func (w *Window) Ingest(chunk []byte) {
	w.pending = append(w.pending, chunk...)

	completed := 0
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		line := make([]byte, i+1)
		copy(line, w.pending[:i+1])
		w.pending = w.pending[i+1:]
		w.push(line)
		completed++
	}

	if completed > 0 {
		w.repaint()
	}
}

// Finalize flushes a trailing unterminated fragment as one final line,
// performs a last repaint, and returns the window contents oldest
// first. The returned slices alias the window's internal state.
func (w *Window) Finalize() [][]byte {
	if len(w.pending) > 0 {
		w.push(w.pending)
		w.pending = nil
		w.repaint()
	}
	return w.lines
}

// Lines returns the current window contents, oldest first.
func (w *Window) Lines() [][]byte { return w.lines }

func (w *Window) push(line []byte) {
	w.lines = append(w.lines, line)
	if len(w.lines) > w.capacity {
		w.lines = w.lines[1:]
	}
}

// repaint redraws the whole window into the scrolling region. Render
// failures are ignored: the display is cosmetic and the stream capture
// does not depend on it.
func (w *Window) repaint() {
	if !w.paint || len(w.lines) == 0 {
		return
	}
	_ = term.MoveCursorToLine(w.out, w.regionTop)
	_ = term.ClearToScreenEnd(w.out)
	for _, line := range w.lines {
		_, _ = w.out.Write(line)
	}
}
