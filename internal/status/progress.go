package status

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const barWidth = 40

// Progress renders a determinate progress bar for batch operations as
// a single ephemeral line:
//
//	⠼ vetting packages [################>-----------------------] 4/10
//
// A quiet Progress suppresses everything, including permanent prints.
type Progress struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	quiet   bool

	total int
	pos   int
	msg   string
	frame int
	shown bool
}

// NewProgress returns a progress bar writing to out. The bar itself is
// drawn only when enabled; quiet additionally silences permanent
// messages.
func NewProgress(out io.Writer, enabled, quiet bool) *Progress {
	return &Progress{out: out, enabled: enabled && !quiet, quiet: quiet}
}

// Start begins a bar over total items, replacing any previous bar.
func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.pos = 0
	p.frame = 0
	p.paintLocked()
}

// SetMessage updates the bar's message.
func (p *Progress) SetMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msg = msg
	p.paintLocked()
}

// Inc advances the bar by one item.
func (p *Progress) Inc() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos < p.total {
		p.pos++
	}
	p.frame++
	p.paintLocked()
}

// Println prints a permanent message, suspending the bar around it.
func (p *Progress) Println(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	restore := p.shown
	p.eraseLocked()
	fmt.Fprintln(p.out, msg)
	if restore {
		p.paintLocked()
	}
}

// Status prints a permanent "   Action target" line.
func (p *Progress) Status(action, target string) {
	p.Println(fmt.Sprintf("%*s %s", actionWidth, action, target))
}

// Finish clears the bar. Idempotent; safe to defer.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = 0
	p.pos = 0
	p.eraseLocked()
}

func (p *Progress) paintLocked() {
	if !p.enabled || p.total <= 0 {
		return
	}
	filled := p.pos * barWidth / p.total
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("#", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat("-", barWidth-filled-1)
	}
	spinner := spinFrames[p.frame%len(spinFrames)]
	fmt.Fprintf(p.out, "\r\x1b[2K%s %s [%s] %d/%d", spinner, p.msg, bar, p.pos, p.total)
	p.shown = true
}

func (p *Progress) eraseLocked() {
	if p.shown {
		fmt.Fprint(p.out, "\r\x1b[2K")
		p.shown = false
	}
}
