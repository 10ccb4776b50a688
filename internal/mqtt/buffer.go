package mqtt

import "github.com/sweeney/microwave-oven/internal/logger"

// bufferedMsg is a serialized message awaiting replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is the offline outbox. It holds at most cap(slots) messages
// and overwrites the oldest when full. Callers synchronize.
type ringBuffer struct {
	slots   []bufferedMsg
	start   int // index of the oldest message
	n       int
	dropped int // overwritten since the last drain
	log     *logger.Logger
}

func newRingBuffer(capacity int, log *logger.Logger) *ringBuffer {
	if log == nil {
		log = logger.Nop()
	}
	return &ringBuffer{
		slots: make([]bufferedMsg, max(capacity, 1)),
		log:   log,
	}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	size := len(r.slots)
	if r.n < size {
		r.slots[(r.start+r.n)%size] = msg
		r.n++
		return
	}

	if r.dropped == 0 {
		r.log.Warnw("buffer full, dropping oldest", "capacity", size)
	}
	r.dropped++
	r.slots[r.start] = msg
	r.start = (r.start + 1) % size
}

// drainAll returns buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.n == 0 {
		return nil
	}
	if r.dropped > 0 {
		r.log.Warnw("messages lost while offline", "dropped", r.dropped)
	}

	out := make([]bufferedMsg, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.slots[(r.start+i)%len(r.slots)])
		r.slots[(r.start+i)%len(r.slots)] = bufferedMsg{}
	}
	r.start, r.n, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.n
}
