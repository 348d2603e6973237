// Package runner executes a child process inside a pseudoterminal
// while rendering a bounded window of its combined output in a
// terminal scrolling region, and returns the full captured output with
// the child's exit code.
//
// A PTY merges the child's stdout and stderr into one stream, which is
// what lets the child keep its colors and cursor output; the price is
// that the two streams are not separable afterwards. All rendering and
// control sequences target stderr so callers can pipe structured
// results through stdout untouched.
package runner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/joyshmitz/tailrun/internal/status"
	"github.com/joyshmitz/tailrun/internal/term"
	"github.com/joyshmitz/tailrun/internal/window"
)

const (
	defaultReadTimeout   = 10 * time.Second
	defaultRenderTimeout = 5 * time.Second
	readChunkSize        = 4096
	ptyCols              = 80

	// fallbackRows is used when output is not attached to a terminal.
	fallbackRows = 24
)

// CommandBuilder lazily constructs the command to run. It is invoked
// exactly once, after the terminal region has been prepared. The
// command must not be started; the runner starts it attached to the
// PTY slave.
type CommandBuilder func() *exec.Cmd

// Options configures a windowed subprocess run. The zero value uses
// the defaults noted on each field.
type Options struct {
	// WindowHeight is the number of output lines rendered at once.
	// Defaults to window.DefaultHeight. Heights at or above the
	// terminal row count collapse the region to the whole screen.
	WindowHeight int

	// Output is the terminal stream for rendering and control
	// sequences. Defaults to os.Stderr.
	Output *os.File

	// ReadTimeout bounds the wait for the PTY reader after child exit.
	// On expiry the reader is abandoned and the mirrored capture is
	// used instead. Defaults to 10s.
	ReadTimeout time.Duration

	// RenderTimeout bounds the wait for the renderer's final repaint.
	// Expiry only affects the cosmetic final screen state. Defaults
	// to 5s.
	RenderTimeout time.Duration
}

// Result is the captured outcome of a windowed subprocess run. The
// combined PTY capture is attributed to Stderr and Stdout is left
// empty, preserving the merged-capture semantic at the boundary.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the child exited with code zero.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// Output returns the combined capture.
func (r *Result) Output() []byte { return r.Stderr }

// Run executes the command built by build inside a PTY sized to the
// display window, scrolls the last WindowHeight lines of its combined
// output in a region at the bottom of the terminal, and returns the
// full capture plus the child's exit code. A non-zero exit is not an
// error; it is reported through Result.ExitCode.
//
// Any active status line is cleared before the first terminal write.
// Setup failures (region write, PTY allocation, spawn) are returned as
// errors with no result. Mid-stream read errors and slow PTY teardown
// degrade the capture instead of failing the run.
func Run(line *status.Line, build CommandBuilder, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	height := opts.WindowHeight
	if height <= 0 {
		height = window.DefaultHeight
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	renderTimeout := opts.RenderTimeout
	if renderTimeout <= 0 {
		renderTimeout = defaultRenderTimeout
	}

	// The status line and the scrolling region share one terminal; an
	// active ephemeral line must be gone before region writes begin.
	if line != nil {
		line.Clear()
	}

	isTerm := term.IsTerminal(out)
	termRows := fallbackRows
	if isTerm {
		if rows, _, err := term.Size(out); err == nil {
			termRows = rows
		}
	}
	regionTop, regionBottom := term.Region(height, termRows)

	if isTerm {
		if err := term.SetScrollRegion(out, regionTop, regionBottom); err != nil {
			return nil, err
		}
		if err := term.MoveCursorToLine(out, regionTop); err != nil {
			return nil, err
		}
	}

	cmd := build()
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: ptyCols})
	if err != nil {
		if isTerm {
			_ = term.ResetScrollRegion(out)
		}
		return nil, fmt.Errorf("start subprocess in pty: %w", err)
	}

	// The accumulator mirrors every chunk the reader sees so that the
	// abandon path below still has complete-enough data when PTY
	// end-of-stream delivery is delayed.
	var (
		accMu sync.Mutex
		acc   []byte
	)
	chunks := make(chan []byte, 64)
	readDone := make(chan []byte, 1)

	go func() {
		defer close(chunks)
		var full []byte
		buf := make([]byte, readChunkSize)
		for {
			n, rerr := ptmx.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				full = append(full, chunk...)
				accMu.Lock()
				acc = append(acc, chunk...)
				accMu.Unlock()
				chunks <- chunk
			}
			if rerr != nil {
				if !isEndOfStream(rerr) {
					marker := []byte(fmt.Sprintf("<pty read error: %v>", rerr))
					full = append(full, marker...)
					accMu.Lock()
					acc = append(acc, marker...)
					accMu.Unlock()
					chunks <- marker
				}
				break
			}
		}
		readDone <- full
	}()

	win := window.New(out, height, regionTop, isTerm)
	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		for chunk := range chunks {
			win.Ingest(chunk)
		}
		win.Finalize()
	}()

	exitCode := 0
	if werr := cmd.Wait(); werr != nil {
		var exitErr *exec.ExitError
		if errors.As(werr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			_ = ptmx.Close()
			if isTerm {
				_ = term.ResetScrollRegion(out)
			}
			return nil, fmt.Errorf("wait for subprocess: %w", werr)
		}
	}

	// Some platforms do not deliver end-of-stream to a PTY reader just
	// because the child exited while the master stays open; closing
	// the master forces it.
	_ = ptmx.Close()

	var full []byte
	select {
	case full = <-readDone:
	case <-time.After(readTimeout):
		// EOF delivery can lag indefinitely in constrained sandboxes.
		// Abandon the reader and use the mirrored capture snapshot.
		accMu.Lock()
		full = append([]byte(nil), acc...)
		accMu.Unlock()
	}

	select {
	case <-renderDone:
	case <-time.After(renderTimeout):
		// Skip the final repaint; the capture is already settled.
	}

	if isTerm {
		if exitCode == 0 {
			_ = term.MoveCursorToLine(out, regionTop)
			_ = term.ClearToScreenEnd(out)
		}
		// On failure the last window stays on screen as a diagnostic
		// trail; either way normal scrolling must come back.
		_ = term.ResetScrollRegion(out)
	}

	return &Result{Stderr: full, ExitCode: exitCode}, nil
}

// isEndOfStream reports whether a PTY master read error means the
// stream is simply over. Linux returns EIO once the last slave handle
// closes, and closing the master to force teardown surfaces
// fs.ErrClosed to a blocked reader; neither belongs in the capture.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, fs.ErrClosed) ||
		errors.Is(err, syscall.EIO)
}
