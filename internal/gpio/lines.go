package gpio

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// commands maps typed words to signals. Single letters are accepted too.
var commands = map[string]oven.Input{
	"power":  oven.InputPowerPressed,
	"p":      oven.InputPowerPressed,
	"time":   oven.InputTimePressed,
	"t":      oven.InputTimePressed,
	"start":  oven.InputStartCancelPressed,
	"cancel": oven.InputStartCancelPressed,
	"s":      oven.InputStartCancelPressed,
	"open":   oven.InputDoorOpened,
	"o":      oven.InputDoorOpened,
	"close":  oven.InputDoorClosed,
	"c":      oven.InputDoorClosed,
}

// LineInputs reads one command per line from a reader, standing in for the
// buttons and door when no hardware is attached. The event channel closes
// when the reader is exhausted.
type LineInputs struct {
	events chan oven.Input
	log    *logger.Logger

	mu   sync.Mutex
	door bool
}

// NewLineInputs starts reading r in the background.
func NewLineInputs(r io.Reader, log *logger.Logger) *LineInputs {
	l := &LineInputs{
		events: make(chan oven.Input, inputBuffer),
		log:    log,
	}
	go l.read(r)
	return l
}

func (l *LineInputs) read(r io.Reader) {
	defer close(l.events)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		word := strings.ToLower(strings.TrimSpace(sc.Text()))
		if word == "" {
			continue
		}
		in, ok := commands[word]
		if !ok {
			l.log.Warnw("unknown command", "command", word)
			continue
		}
		l.mu.Lock()
		switch in {
		case oven.InputDoorOpened:
			l.door = true
		case oven.InputDoorClosed:
			l.door = false
		}
		l.mu.Unlock()
		l.events <- in
	}
	if err := sc.Err(); err != nil {
		l.log.Errorw("read commands", "err", err)
	}
}

// Events returns the parsed signals.
func (l *LineInputs) Events() <-chan oven.Input {
	return l.events
}

// DoorOpen reports the door state implied by the commands read so far.
func (l *LineInputs) DoorOpen() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.door, nil
}

// Close is a no-op; the reader belongs to the caller.
func (l *LineInputs) Close() error {
	return nil
}
