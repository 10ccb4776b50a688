//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// RealInputs watches button and door lines on actual hardware using the
// Linux GPIO character device.
type RealInputs struct {
	chip    *gpiocdev.Chip
	buttons []*gpiocdev.Line
	door    *gpiocdev.Line
	queue   *signalQueue
	log     *logger.Logger
}

// NewRealInputs requests the three button lines and the door line.
// Buttons short to ground when pressed; the door reed switch shorts to
// ground while the door is closed.
func NewRealInputs(chipName string, pins Pins, debounce time.Duration, log *logger.Logger) (*RealInputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealInputs{
		chip:  chip,
		queue: newSignalQueue(log),
		log:   log,
	}

	buttons := []struct {
		name  string
		pin   int
		input oven.Input
	}{
		{"power", pins.Power, oven.InputPowerPressed},
		{"time", pins.Time, oven.InputTimePressed},
		{"start/cancel", pins.StartCancel, oven.InputStartCancelPressed},
	}
	for _, b := range buttons {
		input := b.input
		opts := []gpiocdev.LineReqOption{
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.AsActiveLow,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { r.deliver(input) }),
		}
		if debounce > 0 {
			opts = append(opts, gpiocdev.WithDebounce(debounce))
		}
		line, err := chip.RequestLine(b.pin, opts...)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s button pin %d: %w", b.name, b.pin, err)
		}
		r.buttons = append(r.buttons, line)
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(r.handleDoor),
	}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}
	door, err := chip.RequestLine(pins.Door, opts...)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request door pin %d: %w", pins.Door, err)
	}
	r.door = door

	return r, nil
}

// Events returns the channel on which signals arrive.
func (r *RealInputs) Events() <-chan oven.Input {
	return r.queue.out
}

// DoorOpen reads the door line. High (pulled up, switch open) means the
// door is open.
func (r *RealInputs) DoorOpen() (bool, error) {
	v, err := r.door.Value()
	if err != nil {
		return false, fmt.Errorf("read door pin: %w", err)
	}
	return v == 1, nil
}

func (r *RealInputs) handleDoor(evt gpiocdev.LineEvent) {
	if evt.Type == gpiocdev.LineEventRisingEdge {
		r.deliver(oven.InputDoorOpened)
		return
	}
	r.deliver(oven.InputDoorClosed)
}

// deliver runs on the gpiocdev watcher goroutine and must not block it.
func (r *RealInputs) deliver(in oven.Input) {
	r.queue.push(in)
}

// Close releases GPIO resources.
func (r *RealInputs) Close() error {
	var errs []error

	for _, l := range r.buttons {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button line: %w", err))
		}
	}
	if r.door != nil {
		if err := r.door.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close door line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	r.queue.close()

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealSwitch drives a relay through an output line.
type RealSwitch struct {
	line *gpiocdev.Line
	name string
	log  *logger.Logger
}

// NewRealSwitch requests pin as an output, initially off.
func NewRealSwitch(chipName string, pin int, name string, log *logger.Logger) (*RealSwitch, error) {
	line, err := gpiocdev.RequestLine(chipName, pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
	}
	return &RealSwitch{line: line, name: name, log: log}, nil
}

// Set drives the line high for on. Errors are logged; the caller has no
// recovery path for a relay that does not respond.
func (s *RealSwitch) Set(on bool) {
	v := 0
	if on {
		v = 1
	}
	if err := s.line.SetValue(v); err != nil {
		s.log.Errorw("relay write failed", "relay", s.name, "on", on, "err", err)
	}
}

// Close switches the relay off and releases the line.
func (s *RealSwitch) Close() error {
	var errs []error
	if err := s.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("reset %s: %w", s.name, err))
	}
	// Reconfigure to input with pull-down so the relay driver stays off
	// through reboot.
	if err := s.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure %s: %w", s.name, err))
	}
	if err := s.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", s.name, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
