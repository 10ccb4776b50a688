// Package oven contains the control logic of a microwave oven: the countdown
// timer, the heating element (power tube), the cooking controller and the
// user-interface state machine.
// This package does no I/O of its own (no GPIO, MQTT, logging or OS access).
// Collaborators are injected as interfaces and all state mutation is expected
// to happen on a single goroutine; only Timer is safe for concurrent use.
package oven

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange reports a bounded numeric input outside its valid interval.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidOperation reports an operation attempted in a state that forbids it.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAlreadyInProgress is returned by StartCooking while a session is active.
	// It matches ErrInvalidOperation under errors.Is.
	ErrAlreadyInProgress = fmt.Errorf("cooking already in progress: %w", ErrInvalidOperation)
)

// Mode is the oven's operating phase.
type Mode string

const (
	ModeReady        Mode = "READY"
	ModeSettingPower Mode = "SETTING_POWER"
	ModeSettingTime  Mode = "SETTING_TIME"
	ModeCooking      Mode = "COOKING"
	ModeDoorOpen     Mode = "DOOR_OPEN"
)

// Input is a raw button or door signal. Inputs carry no payload.
type Input string

const (
	InputPowerPressed       Input = "POWER_PRESSED"
	InputTimePressed        Input = "TIME_PRESSED"
	InputStartCancelPressed Input = "START_CANCEL_PRESSED"
	InputDoorOpened         Input = "DOOR_OPENED"
	InputDoorClosed         Input = "DOOR_CLOSED"
)

// Output receives human-readable lines describing device side effects.
type Output interface {
	OutputLine(line string)
}

// Display shows the current selection or countdown.
type Display interface {
	ShowPower(watts int)
	ShowTime(minutes, seconds int)
	Clear()
}

// Light controls the cavity light.
type Light interface {
	TurnOn()
	TurnOff()
}

// Relay drives a physical on/off output line. Implementations handle their
// own hardware errors.
type Relay interface {
	Set(on bool)
}

// CompletionListener is notified when a countdown finishes naturally.
type CompletionListener interface {
	CookingIsDone()
}

// PowerRange is an inclusive interval of accepted heating power in watts.
type PowerRange struct {
	Min int
	Max int
}

// DefaultPowerRange is the heating element's rating.
var DefaultPowerRange = PowerRange{Min: 1, Max: 700}

// Contains reports whether watts lies within the range.
func (r PowerRange) Contains(watts int) bool {
	return watts >= r.Min && watts <= r.Max
}

// PowerSteps describes the selectable power levels on the power button.
type PowerSteps struct {
	Min  int
	Max  int
	Step int
}

// DefaultPowerSteps cycles 50, 100, ... 700 W and wraps back to 50.
var DefaultPowerSteps = PowerSteps{Min: 50, Max: 700, Step: 50}

// next returns the level after current. It wraps to Min when another step
// would pass Max.
func (p PowerSteps) next(current int) int {
	if current+p.Step > p.Max {
		return p.Min
	}
	return current + p.Step
}

// EventType identifies a journal entry.
type EventType string

const (
	EventModeChanged    EventType = "MODE_CHANGED"
	EventCookingStarted EventType = "COOKING_STARTED"
	EventCookingStopped EventType = "COOKING_STOPPED"
	EventCookingDone    EventType = "COOKING_DONE"
)

// Event is a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      Mode // mode changes only
	Mode      Mode
	SessionID string
	Power     int
	Seconds   int
}
