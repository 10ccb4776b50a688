package oven

import (
	"fmt"
	"sync"
)

// lines is a thread-safe list of recorded side effects.
type lines struct {
	mu  sync.Mutex
	got []string
}

func (l *lines) add(s string) {
	l.mu.Lock()
	l.got = append(l.got, s)
	l.mu.Unlock()
}

func (l *lines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.got))
	copy(out, l.got)
	return out
}

func (l *lines) count(s string) int {
	n := 0
	for _, g := range l.all() {
		if g == s {
			n++
		}
	}
	return n
}

// fakeDisplay renders calls the way the console display does, without prefix.
type fakeDisplay struct{ lines }

func (d *fakeDisplay) ShowPower(watts int)           { d.add(fmt.Sprintf("%d W", watts)) }
func (d *fakeDisplay) ShowTime(minutes, seconds int) { d.add(fmt.Sprintf("%02d:%02d", minutes, seconds)) }
func (d *fakeDisplay) Clear()                        { d.add("cleared") }

type fakeLight struct {
	lines
	on bool
}

func (l *fakeLight) TurnOn()  { l.on = true; l.add("on") }
func (l *fakeLight) TurnOff() { l.on = false; l.add("off") }

type fakeOutput struct{ lines }

func (o *fakeOutput) OutputLine(line string) { o.add(line) }

type fakeRelay struct{ states []bool }

func (r *fakeRelay) Set(on bool) { r.states = append(r.states, on) }

// fakeTimer records calls and lets tests deliver notifications by hand.
type fakeTimer struct {
	run       uint64
	running   bool
	remaining int
	started   []int
	stops     int
	startErr  error
}

func (f *fakeTimer) Start(totalSeconds int) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.run++
	f.running = true
	f.remaining = totalSeconds
	f.started = append(f.started, totalSeconds)
	return nil
}

func (f *fakeTimer) Stop() {
	f.stops++
	if f.running {
		f.running = false
		f.run++
	}
}

func (f *fakeTimer) TimeRemaining() int { return f.remaining }

func (f *fakeTimer) Current(ev TimerEvent) bool { return ev.Run == f.run }

func (f *fakeTimer) tick() TimerEvent {
	f.remaining--
	return TimerEvent{Kind: TimerTick, Run: f.run}
}

func (f *fakeTimer) expire() TimerEvent {
	f.running = false
	return TimerEvent{Kind: TimerExpired, Run: f.run}
}

type startCall struct {
	power, seconds int
}

// fakeCooker records controller calls made by the user interface.
type fakeCooker struct {
	starts   []startCall
	stops    int
	startErr error
}

func (c *fakeCooker) StartCooking(power, seconds int) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.starts = append(c.starts, startCall{power, seconds})
	return nil
}

func (c *fakeCooker) Stop() { c.stops++ }

type doneCounter struct{ n int }

func (d *doneCounter) CookingIsDone() { d.n++ }
