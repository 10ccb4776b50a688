package oven

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

const testTick = 10 * time.Millisecond

// collect reads timer events until Expired or timeout.
func collect(t *testing.T, tm *Timer, timeout time.Duration) []TimerEvent {
	t.Helper()
	var got []TimerEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-tm.Events():
			got = append(got, ev)
			if ev.Kind == TimerExpired {
				return got
			}
		case <-deadline:
			return got
		}
	}
}

func countKind(events []TimerEvent, kind TimerEventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestTimerTicksThenExpires(t *testing.T) {
	tm := NewTimer(testTick)
	assert.NilError(t, tm.Start(3))
	assert.Assert(t, tm.Running())

	events := collect(t, tm, time.Second)
	assert.Equal(t, len(events), 4)
	assert.Equal(t, countKind(events, TimerTick), 3)
	assert.Equal(t, events[3].Kind, TimerExpired)
	assert.Equal(t, tm.TimeRemaining(), 0)
	assert.Assert(t, !tm.Running())
	for _, ev := range events {
		assert.Assert(t, tm.Current(ev))
	}
}

func TestTimerTickNotBeforeBoundary(t *testing.T) {
	tm := NewTimer(50 * time.Millisecond)
	start := time.Now()
	assert.NilError(t, tm.Start(1))

	ev := <-tm.Events()
	assert.Equal(t, ev.Kind, TimerTick)
	assert.Assert(t, time.Since(start) >= 50*time.Millisecond)
}

func TestTimerStartWhileRunning(t *testing.T) {
	tm := NewTimer(time.Hour)
	assert.NilError(t, tm.Start(10))
	defer tm.Stop()

	err := tm.Start(5)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, tm.TimeRemaining(), 10)
}

func TestTimerZeroOrNegativeExpiresWithoutTick(t *testing.T) {
	for _, secs := range []int{0, -1, -1000} {
		tm := NewTimer(testTick)
		assert.NilError(t, tm.Start(secs))

		events := collect(t, tm, time.Second)
		assert.Equal(t, len(events), 1, "start(%d)", secs)
		assert.Equal(t, events[0].Kind, TimerExpired, "start(%d)", secs)
		assert.Assert(t, !tm.Running())
	}
}

func TestTimerStopHaltsTicks(t *testing.T) {
	tm := NewTimer(testTick)
	assert.NilError(t, tm.Start(100))

	first := <-tm.Events()
	assert.Equal(t, first.Kind, TimerTick)
	tm.Stop()
	assert.Assert(t, !tm.Running())
	assert.Assert(t, !tm.Current(first))

	// Anything still arriving belongs to the cancelled run.
	events := collect(t, tm, 10*testTick)
	for _, ev := range events {
		assert.Assert(t, !tm.Current(ev))
		assert.Assert(t, ev.Kind != TimerExpired)
	}
}

func TestTimerStopWhenIdleIsNoop(t *testing.T) {
	tm := NewTimer(testTick)
	tm.Stop()
	assert.Assert(t, !tm.Running())
	assert.Equal(t, tm.TimeRemaining(), 0)
}

func TestTimerRestartAfterStop(t *testing.T) {
	tm := NewTimer(testTick)
	assert.NilError(t, tm.Start(50))
	tm.Stop()
	assert.NilError(t, tm.Start(2))

	var current []TimerEvent
	for _, ev := range collect(t, tm, time.Second) {
		if tm.Current(ev) {
			current = append(current, ev)
		}
	}
	assert.Equal(t, countKind(current, TimerTick), 2)
	assert.Equal(t, countKind(current, TimerExpired), 1)
}

func TestTimerEventKindString(t *testing.T) {
	assert.Equal(t, TimerTick.String(), "TICK")
	assert.Equal(t, TimerExpired.String(), "EXPIRED")
	assert.Equal(t, TimerEventKind(0).String(), "UNKNOWN")
}
