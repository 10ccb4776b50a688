package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/microwave-oven/internal/oven"
)

// slowPublisher blocks every publish until release is closed.
type slowPublisher struct {
	*FakePublisher
	release chan struct{}
	once    sync.Once
}

func newSlowPublisher() *slowPublisher {
	return &slowPublisher{FakePublisher: NewFakePublisher(), release: make(chan struct{})}
}

func (s *slowPublisher) Publish(e oven.Event) error {
	<-s.release
	return s.FakePublisher.Publish(e)
}

func (s *slowPublisher) PublishSystem(e SystemEvent) error {
	<-s.release
	return s.FakePublisher.PublishSystem(e)
}

func (s *slowPublisher) unblock() { s.once.Do(func() { close(s.release) }) }

func TestOutboxDoesNotWaitForBroker(t *testing.T) {
	slow := newSlowPublisher()
	defer slow.unblock()
	o := NewOutbox(slow, 10, nil)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := o.Publish(oven.Event{Type: oven.EventModeChanged}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if err := o.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("enqueue took %v while the broker was stalled", elapsed)
	}
}

func TestOutboxPublishesInOrder(t *testing.T) {
	pub := NewFakePublisher()
	o := NewOutbox(pub, 10, nil)

	o.Publish(oven.Event{Type: oven.EventCookingStarted})
	o.PublishSystem(SystemEvent{Event: "HEARTBEAT"})
	o.Publish(oven.Event{Type: oven.EventCookingDone})
	o.PublishSystem(SystemEvent{Event: "SHUTDOWN"})
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	types := pub.EventTypes()
	if len(types) != 2 || types[0] != oven.EventCookingStarted || types[1] != oven.EventCookingDone {
		t.Errorf("events: got %v", types)
	}
	names := pub.SystemEventNames()
	if len(names) != 2 || names[0] != "HEARTBEAT" || names[1] != "SHUTDOWN" {
		t.Errorf("system events: got %v", names)
	}
	if pub.Closed {
		t.Error("Close must leave the wrapped publisher open")
	}
}

func TestOutboxFullDropsNewMessages(t *testing.T) {
	slow := newSlowPublisher()
	defer slow.unblock()
	o := NewOutbox(slow, 2, nil)

	var full int
	for i := 0; i < 10; i++ {
		if err := o.Publish(oven.Event{Type: oven.EventModeChanged}); errors.Is(err, ErrOutboxFull) {
			full++
		}
	}
	// The worker may hold one message, so 2 or 3 are accepted.
	if full < 7 || full > 8 {
		t.Errorf("expected 7 or 8 refusals, got %d", full)
	}
	if o.Dropped() != full {
		t.Errorf("Dropped: got %d, want %d", o.Dropped(), full)
	}
}

func TestOutboxClosedRefuses(t *testing.T) {
	o := NewOutbox(NewFakePublisher(), 4, nil)
	o.Close()

	if err := o.Publish(oven.Event{}); !errors.Is(err, ErrOutboxClosed) {
		t.Errorf("Publish after Close: got %v, want ErrOutboxClosed", err)
	}
	if err := o.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOutboxCloseGivesUpOnStalledBroker(t *testing.T) {
	slow := newSlowPublisher()
	defer slow.unblock()
	o := NewOutbox(slow, 4, nil)
	o.drainTimeout = 20 * time.Millisecond

	o.PublishSystem(SystemEvent{Event: "SHUTDOWN"})
	start := time.Now()
	o.Close()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Close waited %v on a stalled broker", elapsed)
	}
}

func TestOutboxPublishErrorsAreAbsorbed(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = errors.New("broker unavailable")
	o := NewOutbox(pub, 4, nil)

	if err := o.Publish(oven.Event{Type: oven.EventModeChanged}); err != nil {
		t.Errorf("Publish: got %v, want nil", err)
	}
	o.Close()
	if len(pub.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(pub.Events))
	}
}
