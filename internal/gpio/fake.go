package gpio

import (
	"sync"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// FakeInputs is a test double that delivers scripted signals.
type FakeInputs struct {
	queue *signalQueue

	// Door is returned by DoorOpen.
	Door bool

	// ReadError, if set, will be returned by DoorOpen.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeInputs creates FakeInputs with an empty queue.
func NewFakeInputs() *FakeInputs {
	return &FakeInputs{queue: newSignalQueue(logger.Nop())}
}

// Push queues signals in order without blocking, the way the GPIO watcher
// does. Button presses beyond the queue bound are dropped; door edges
// never are.
func (f *FakeInputs) Push(inputs ...oven.Input) {
	for _, in := range inputs {
		f.queue.push(in)
	}
}

// Shed reports how many pushed button presses were dropped.
func (f *FakeInputs) Shed() int {
	return f.queue.Shed()
}

// Events returns the queued signals.
func (f *FakeInputs) Events() <-chan oven.Input {
	return f.queue.out
}

// DoorOpen returns the scripted door level.
func (f *FakeInputs) DoorOpen() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Door, nil
}

// Close marks the inputs as closed and stops delivery.
func (f *FakeInputs) Close() error {
	f.queue.close()
	f.Closed = true
	return nil
}

// FakeSwitch records relay states. Safe for concurrent use.
type FakeSwitch struct {
	mu     sync.Mutex
	states []bool
	closed bool
}

// NewFakeSwitch creates an open (off) FakeSwitch.
func NewFakeSwitch() *FakeSwitch {
	return &FakeSwitch{}
}

// Set records the requested state.
func (f *FakeSwitch) Set(on bool) {
	f.mu.Lock()
	f.states = append(f.states, on)
	f.mu.Unlock()
}

// States returns every state set so far.
func (f *FakeSwitch) States() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.states))
	copy(out, f.states)
	return out
}

// On reports the most recent state; false if never set.
func (f *FakeSwitch) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states) > 0 && f.states[len(f.states)-1]
}

// Closed reports whether Close was called.
func (f *FakeSwitch) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close marks the switch as closed.
func (f *FakeSwitch) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}
