package oven

import "time"

// Journal collects events produced while the oven handles inputs and timer
// notifications. The run loop drains it after every step.
// Not safe for concurrent use.
type Journal struct {
	now    func() time.Time
	events []Event
}

// NewJournal creates a Journal stamping events with now.
// A nil now uses time.Now.
func NewJournal(now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{now: now}
}

// record appends e. A nil Journal discards it.
func (j *Journal) record(e Event) {
	if j == nil {
		return
	}
	e.Timestamp = j.now()
	j.events = append(j.events, e)
}

// Drain returns the recorded events in order and empties the journal.
func (j *Journal) Drain() []Event {
	if j == nil || len(j.events) == 0 {
		return nil
	}
	out := j.events
	j.events = nil
	return out
}
