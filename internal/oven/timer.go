package oven

import (
	"fmt"
	"sync"
	"time"
)

// TimerEventKind distinguishes countdown notifications.
type TimerEventKind int

const (
	TimerTick TimerEventKind = iota + 1
	TimerExpired
)

func (k TimerEventKind) String() string {
	switch k {
	case TimerTick:
		return "TICK"
	case TimerExpired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// TimerEvent is a notification from a countdown. Run identifies the countdown
// that produced it so stale notifications can be discarded.
type TimerEvent struct {
	Kind TimerEventKind
	Run  uint64
}

// CountdownTimer is the timer as seen by the cooking controller.
type CountdownTimer interface {
	Start(totalSeconds int) error
	Stop()
	TimeRemaining() int
	// Current reports whether ev belongs to the countdown that is (or was
	// most recently) started and not cancelled since.
	Current(ev TimerEvent) bool
}

// timerEventBuffer bounds how far the countdown may run ahead of its consumer.
const timerEventBuffer = 16

// Timer counts down whole ticks on a background goroutine and delivers
// notifications on Events. It is safe for concurrent use.
type Timer struct {
	tick   time.Duration
	events chan TimerEvent

	mu        sync.Mutex
	run       uint64
	remaining int
	running   bool
	stop      chan struct{}
}

// NewTimer creates a Timer whose unit of countdown is one tick. A
// non-positive tick means one second.
func NewTimer(tick time.Duration) *Timer {
	if tick <= 0 {
		tick = time.Second
	}
	return &Timer{
		tick:   tick,
		events: make(chan TimerEvent, timerEventBuffer),
	}
}

// Events returns the channel on which Tick and Expired notifications arrive.
func (t *Timer) Events() <-chan TimerEvent {
	return t.events
}

// Start begins a countdown of totalSeconds ticks. A zero or negative count
// expires immediately without any tick.
func (t *Timer) Start(totalSeconds int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("timer start: %w", ErrInvalidOperation)
	}

	t.run++
	run := t.run

	if totalSeconds <= 0 {
		t.remaining = 0
		go t.send(nil, TimerEvent{Kind: TimerExpired, Run: run})
		return nil
	}

	t.remaining = totalSeconds
	t.running = true
	t.stop = make(chan struct{})
	go t.countdown(run, t.stop)
	return nil
}

// Stop cancels a running countdown. Notifications already queued for it are
// no longer Current. No-op if not running.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	close(t.stop)
	t.stop = nil
	t.running = false
	t.run++
}

// TimeRemaining returns the ticks left in the current countdown.
func (t *Timer) TimeRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether a countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Current implements CountdownTimer.
func (t *Timer) Current(ev TimerEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ev.Run == t.run
}

func (t *Timer) countdown(run uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		if t.run != run {
			t.mu.Unlock()
			return
		}
		t.remaining--
		expired := t.remaining <= 0
		if expired {
			t.running = false
			t.stop = nil
		}
		t.mu.Unlock()

		if !t.send(stop, TimerEvent{Kind: TimerTick, Run: run}) {
			return
		}
		if expired {
			t.send(stop, TimerEvent{Kind: TimerExpired, Run: run})
			return
		}
	}
}

// send delivers ev unless stop is closed first. A nil stop never cancels.
func (t *Timer) send(stop <-chan struct{}, ev TimerEvent) bool {
	select {
	case <-stop:
		return false
	default:
	}
	select {
	case t.events <- ev:
		return true
	case <-stop:
		return false
	}
}
