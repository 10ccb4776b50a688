//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(chipName string, pins Pins, debounce time.Duration, log *logger.Logger) (*RealInputs, error) {
	return nil, errUnsupported
}

// Events is not implemented on non-Linux platforms.
func (r *RealInputs) Events() <-chan oven.Input {
	return nil
}

// DoorOpen is not implemented on non-Linux platforms.
func (r *RealInputs) DoorOpen() (bool, error) {
	return false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealInputs) Close() error {
	return nil
}

// RealSwitch is not available on non-Linux platforms.
type RealSwitch struct{}

// NewRealSwitch returns an error on non-Linux platforms.
func NewRealSwitch(chipName string, pin int, name string, log *logger.Logger) (*RealSwitch, error) {
	return nil, errUnsupported
}

// Set is not implemented on non-Linux platforms.
func (s *RealSwitch) Set(on bool) {}

// Close is not implemented on non-Linux platforms.
func (s *RealSwitch) Close() error {
	return nil
}
