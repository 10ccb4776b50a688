// Package gpio connects the oven's buttons, door sensor and relays to GPIO lines.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/microwave-oven/internal/oven"

// Inputs delivers raw button and door signals. Signals are edge-triggered
// and carry no payload.
type Inputs interface {
	// Events returns the channel on which signals arrive.
	Events() <-chan oven.Input

	// DoorOpen reads the current level of the door sensor.
	DoorOpen() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Switch drives a relay output line. It satisfies oven.Relay.
type Switch interface {
	Set(on bool)
	Close() error
}

// DefaultChip is the Raspberry Pi's main GPIO controller.
const DefaultChip = "gpiochip0"

// Pin definitions (BCM numbering)
const (
	DefaultPinPower       = 5
	DefaultPinTime        = 6
	DefaultPinStartCancel = 13
	DefaultPinDoor        = 19
	DefaultPinLight       = 20
	DefaultPinHeater      = 21
)

// Pins assigns oven signals to BCM line offsets.
type Pins struct {
	Power       int
	Time        int
	StartCancel int
	Door        int
	Light       int
	Heater      int
}

// DefaultPins returns the standard wiring.
func DefaultPins() Pins {
	return Pins{
		Power:       DefaultPinPower,
		Time:        DefaultPinTime,
		StartCancel: DefaultPinStartCancel,
		Door:        DefaultPinDoor,
		Light:       DefaultPinLight,
		Heater:      DefaultPinHeater,
	}
}

// inputBuffer bounds signals queued ahead of the run loop.
const inputBuffer = 32
