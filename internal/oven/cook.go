package oven

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HeatingElement is the power tube as seen by the cooking controller.
type HeatingElement interface {
	TurnOn(power int) error
	TurnOff()
	Range() PowerRange
}

// Session describes one heating operation.
type Session struct {
	ID      string
	Power   int
	Seconds int
	Started time.Time
}

// CookController runs heating sessions: it switches the heating element and
// drives the display from countdown notifications.
type CookController struct {
	timer   CountdownTimer
	display Display
	tube    HeatingElement
	journal *Journal
	now     func() time.Time

	done    CompletionListener
	session *Session
}

// NewCookController wires a controller to its timer, display and heating
// element. journal may be nil.
func NewCookController(timer CountdownTimer, display Display, tube HeatingElement, journal *Journal) *CookController {
	return &CookController{
		timer:   timer,
		display: display,
		tube:    tube,
		journal: journal,
		now:     time.Now,
	}
}

// SetCompletionListener registers the receiver of CookingIsDone. It may be
// set once per controller.
func (c *CookController) SetCompletionListener(l CompletionListener) error {
	if c.done != nil {
		return fmt.Errorf("completion listener already set: %w", ErrInvalidOperation)
	}
	c.done = l
	return nil
}

// Active reports whether a session is open.
func (c *CookController) Active() bool {
	return c.session != nil
}

// Session returns the open session, if any.
func (c *CookController) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// StartCooking heats at power watts for seconds. A rejected call changes
// nothing and produces no output.
func (c *CookController) StartCooking(power, seconds int) error {
	rng := c.tube.Range()
	if !rng.Contains(power) {
		return fmt.Errorf("start cooking: power %d W outside %d..%d W: %w", power, rng.Min, rng.Max, ErrOutOfRange)
	}
	if c.session != nil {
		return ErrAlreadyInProgress
	}

	// The timer has no visible side effects, so it goes first and is
	// rolled back if the tube refuses.
	if err := c.timer.Start(seconds); err != nil {
		return fmt.Errorf("start cooking: %w", err)
	}
	if err := c.tube.TurnOn(power); err != nil {
		c.timer.Stop()
		return fmt.Errorf("start cooking: %w", err)
	}

	c.session = &Session{
		ID:      uuid.NewString(),
		Power:   power,
		Seconds: seconds,
		Started: c.now(),
	}
	c.journal.record(Event{
		Type:      EventCookingStarted,
		Mode:      ModeCooking,
		SessionID: c.session.ID,
		Power:     power,
		Seconds:   seconds,
	})
	return nil
}

// Stop ends the open session. Without one it does nothing at all.
func (c *CookController) Stop() {
	if c.session == nil {
		return
	}
	c.tube.TurnOff()
	c.timer.Stop()
	c.closeSession(EventCookingStopped)
}

// HandleTimer processes a countdown notification. Notifications from a
// cancelled countdown, or arriving after the session closed, are ignored.
func (c *CookController) HandleTimer(ev TimerEvent) {
	if c.session == nil || !c.timer.Current(ev) {
		return
	}

	switch ev.Kind {
	case TimerTick:
		remaining := c.timer.TimeRemaining()
		c.display.ShowTime(remaining/60, remaining%60)
	case TimerExpired:
		c.tube.TurnOff()
		c.closeSession(EventCookingDone)
		if c.done != nil {
			c.done.CookingIsDone()
		}
	}
}

func (c *CookController) closeSession(t EventType) {
	s := c.session
	c.session = nil
	c.journal.record(Event{
		Type:      t,
		SessionID: s.ID,
		Power:     s.Power,
		Seconds:   s.Seconds,
	})
}
