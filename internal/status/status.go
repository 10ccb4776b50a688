// Package status provides a thread-safe view of the oven for the web server
// and lifecycle messages. The run loop writes it; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/microwave-oven/internal/oven"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	MinPower    int
	MaxPower    int
	Broker      string
	HTTPAddr    string
}

// Oven is the appliance state at one instant.
type Oven struct {
	Mode          oven.Mode
	SelectedPower int // watts, 0 outside setup
	SelectedMins  int
	Heating       bool
	HeatingWatts  int
	Light         bool
	Remaining     int // seconds left in the session
	SessionID     string
}

// Counts tallies oven activity since startup.
type Counts struct {
	Started        int
	Completed      int
	Stopped        int
	DoorInterrupts int // cooking stopped by opening the door
	Rejected       int // start or input refused by the oven
}

// Snapshot is a point-in-time copy of daemon state.
type Snapshot struct {
	Oven          Oven
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker in READY mode.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Oven:      Oven{Mode: oven.ModeReady},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the oven state.
func (t *Tracker) Update(o Oven) {
	t.mu.Lock()
	t.snap.Oven = o
	t.mu.Unlock()
}

// Record folds journal events into the counters.
func (t *Tracker) Record(events []oven.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range events {
		switch e.Type {
		case oven.EventCookingStarted:
			t.snap.Counts.Started++
		case oven.EventCookingDone:
			t.snap.Counts.Completed++
		case oven.EventCookingStopped:
			t.snap.Counts.Stopped++
		case oven.EventModeChanged:
			if e.From == oven.ModeCooking && e.Mode == oven.ModeDoorOpen {
				t.snap.Counts.DoorInterrupts++
			}
		}
	}
}

// Rejected counts one refused input.
func (t *Tracker) Rejected() {
	t.mu.Lock()
	t.snap.Counts.Rejected++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a copy of the state with Now set to the current time.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
