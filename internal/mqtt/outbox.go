package mqtt

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// drainTimeout bounds how long Close waits for queued messages.
const drainTimeout = 10 * time.Second

var (
	// ErrOutboxFull is returned when the outbox cannot take another message.
	ErrOutboxFull = errors.New("outbox full")

	// ErrOutboxClosed is returned after Close.
	ErrOutboxClosed = errors.New("outbox closed")
)

type outboxMsg struct {
	event  oven.Event
	system *SystemEvent
}

// Outbox hands events to a background goroutine that publishes them in
// order through another Publisher. Publish and PublishSystem never wait on
// the broker.
type Outbox struct {
	next  Publisher
	queue chan outboxMsg
	done  chan struct{}
	log   *logger.Logger

	drainTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewOutbox starts the publishing goroutine. size bounds the queue.
func NewOutbox(next Publisher, size int, log *logger.Logger) *Outbox {
	if log == nil {
		log = logger.Nop()
	}
	o := &Outbox{
		next:         next,
		queue:        make(chan outboxMsg, max(size, 1)),
		done:         make(chan struct{}),
		log:          log,
		drainTimeout: drainTimeout,
	}
	go o.run()
	return o
}

// Publish queues an oven event.
func (o *Outbox) Publish(event oven.Event) error {
	return o.enqueue(outboxMsg{event: event})
}

// PublishSystem queues a lifecycle event.
func (o *Outbox) PublishSystem(event SystemEvent) error {
	return o.enqueue(outboxMsg{system: &event})
}

func (o *Outbox) enqueue(m outboxMsg) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.queue <- m:
		return nil
	default:
	}
	if o.dropped == 0 {
		o.log.Warnw("outbox full, dropping message", "capacity", cap(o.queue))
	}
	o.dropped++
	return ErrOutboxFull
}

// Dropped returns the number of messages refused because the queue was full.
func (o *Outbox) Dropped() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

// Close stops accepting messages and waits, up to the drain timeout, for the
// queue to be published. The wrapped Publisher is left open.
func (o *Outbox) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	select {
	case <-o.done:
	case <-time.After(o.drainTimeout):
		o.log.Warnw("outbox drain timed out", "pending", len(o.queue))
	}
	return nil
}

func (o *Outbox) run() {
	defer close(o.done)
	for m := range o.queue {
		if m.system != nil {
			if err := o.next.PublishSystem(*m.system); err != nil {
				o.log.Errorw("publish system event", "event", m.system.Event, "err", err)
			}
			continue
		}
		if err := o.next.Publish(m.event); err != nil {
			o.log.Errorw("publish event", "type", m.event.Type, "err", err)
		}
	}
}
