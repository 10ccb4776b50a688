// Package output renders oven side effects as text lines: the display, the
// cavity light and the line sinks they write to.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/sweeney/microwave-oven/internal/logger"
)

// Line prefixes written by Display.
const (
	DisplayPrefix  = "Display shows: "
	DisplayCleared = "Display cleared"
)

// Lines written by Light.
const (
	LightOn  = "Light is turned on"
	LightOff = "Light is turned off"
)

// Sink receives rendered lines. It is the same shape as oven.Output.
type Sink interface {
	OutputLine(line string)
}

// Console writes each line to w and logs it at debug level.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	log *logger.Logger
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, log *logger.Logger) *Console {
	return &Console{w: w, log: log}
}

// OutputLine writes line followed by a newline.
func (c *Console) OutputLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.w, line); err != nil {
		c.log.Warnw("console write failed", "err", err)
		return
	}
	c.log.Debugw("output", "line", line)
}

// Tee fans each line out to several sinks in order.
type Tee []Sink

// OutputLine forwards line to every sink.
func (t Tee) OutputLine(line string) {
	for _, s := range t {
		s.OutputLine(line)
	}
}

// Recorder is a test double that keeps every line. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OutputLine records line.
func (r *Recorder) OutputLine(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Count returns how many recorded lines equal line.
func (r *Recorder) Count(line string) int {
	n := 0
	for _, l := range r.Lines() {
		if l == line {
			n++
		}
	}
	return n
}

// Displayed returns the display lines with DisplayPrefix removed; a clear
// is reported as "cleared".
func (r *Recorder) Displayed() []string {
	var out []string
	for _, l := range r.Lines() {
		switch {
		case l == DisplayCleared:
			out = append(out, "cleared")
		case len(l) > len(DisplayPrefix) && l[:len(DisplayPrefix)] == DisplayPrefix:
			out = append(out, l[len(DisplayPrefix):])
		}
	}
	return out
}

// Reset discards recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}
