package gpio

import (
	"sync"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// signalQueue hands signals to the run loop in arrival order without
// blocking the producer. At most inputBuffer button presses wait at once;
// further presses are shed. Door edges are always kept.
type signalQueue struct {
	mu      sync.Mutex
	pending []oven.Input
	buttons int
	shed    int
	full    bool

	wake chan struct{}
	out  chan oven.Input
	done chan struct{}
	stop sync.Once
	log  *logger.Logger
}

func newSignalQueue(log *logger.Logger) *signalQueue {
	q := &signalQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan oven.Input),
		done: make(chan struct{}),
		log:  log,
	}
	go q.pump()
	return q
}

func isDoorEdge(in oven.Input) bool {
	return in == oven.InputDoorOpened || in == oven.InputDoorClosed
}

// push never blocks.
func (q *signalQueue) push(in oven.Input) {
	q.mu.Lock()
	if !isDoorEdge(in) {
		if q.buttons >= inputBuffer {
			q.shed++
			if !q.full {
				q.full = true
				q.log.Warnw("input queue full, dropping button press", "input", in)
			}
			q.mu.Unlock()
			return
		}
		q.buttons++
	}
	q.pending = append(q.pending, in)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *signalQueue) pop() (oven.Input, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return "", false
	}
	in := q.pending[0]
	q.pending[0] = ""
	q.pending = q.pending[1:]
	if !isDoorEdge(in) {
		q.buttons--
		if q.full && q.buttons < inputBuffer {
			q.full = false
			q.log.Infow("input queue recovered", "shed", q.shed)
		}
	}
	return in, true
}

func (q *signalQueue) pump() {
	for {
		in, ok := q.pop()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		select {
		case q.out <- in:
		case <-q.done:
			return
		}
	}
}

// Shed reports how many button presses were dropped.
func (q *signalQueue) Shed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shed
}

func (q *signalQueue) close() {
	q.stop.Do(func() { close(q.done) })
}
