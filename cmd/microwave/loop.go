package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/microwave-oven/internal/config"
	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/metrics"
	"github.com/sweeney/microwave-oven/internal/mqtt"
	"github.com/sweeney/microwave-oven/internal/output"
	"github.com/sweeney/microwave-oven/internal/oven"
	"github.com/sweeney/microwave-oven/internal/status"
)

// appDeps are the collaborators newApp wires together.
type appDeps struct {
	cfg         config.Config
	out         oven.Output
	lightRelay  oven.Relay // may be nil
	heaterRelay oven.Relay // may be nil
	publisher   mqtt.Publisher
	mqttStatus  mqtt.ConnectionStatus // may be nil
	tracker     *status.Tracker
	metrics     metrics.Recorder
	log         *logger.Logger
	now         func() time.Time
}

// app owns the oven and its outputs. All methods run on the loop goroutine.
type app struct {
	timer   *oven.Timer
	tube    *oven.PowerTube
	cook    *oven.CookController
	ui      *oven.UserInterface
	light   *output.Light
	journal *oven.Journal

	outbox     *mqtt.Outbox
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	metrics    metrics.Recorder
	log        *logger.Logger
	now        func() time.Time
}

func newApp(d appDeps) (*app, error) {
	if d.metrics == nil {
		d.metrics = metrics.Nop{}
	}
	journal := oven.NewJournal(d.now)
	display := output.NewDisplay(d.out)

	light := output.NewLight(d.out, d.lightRelay)

	timer := oven.NewTimer(d.cfg.Oven.Tick.Duration)
	tube := oven.NewPowerTube(d.out, d.heaterRelay, d.cfg.PowerRange())
	cook := oven.NewCookController(timer, display, tube, journal)
	ui := oven.NewUserInterface(display, light, cook, d.cfg.PowerSteps(), journal)
	if err := cook.SetCompletionListener(ui); err != nil {
		return nil, fmt.Errorf("wire oven: %w", err)
	}

	return &app{
		timer:      timer,
		tube:       tube,
		cook:       cook,
		ui:         ui,
		light:      light,
		journal:    journal,
		outbox:     mqtt.NewOutbox(d.publisher, d.cfg.MQTT.Buffer, d.log.Named("outbox")),
		mqttStatus: d.mqttStatus,
		tracker:    d.tracker,
		metrics:    d.metrics,
		log:        d.log,
		now:        d.now,
	}, nil
}

// runLoop serializes button, door and timer signals onto one goroutine.
// It returns after a signal, or when inputs closes.
func (a *app) runLoop(inputs <-chan oven.Input, timer <-chan oven.TimerEvent, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			a.log.Infow("shutting down", "signal", s)
			a.shutdown(signalName(s))
			return nil

		case in, ok := <-inputs:
			if !ok {
				a.log.Infow("input closed, shutting down")
				a.shutdown("EOF")
				return nil
			}
			a.handleInput(in)

		case ev := <-timer:
			a.cook.HandleTimer(ev)
			a.flush()

		case <-heartbeat:
			a.publishLifecycle("HEARTBEAT", "")
		}
	}
}

func (a *app) handleInput(in oven.Input) {
	a.log.Debugw("input", "input", in, "mode", a.ui.Mode())
	a.metrics.RecordInput(in)
	if err := a.ui.Handle(in); err != nil {
		a.log.Warnw("input rejected", "input", in, "mode", a.ui.Mode(), "err", err)
		a.metrics.RecordRejected()
		if a.tracker != nil {
			a.tracker.Rejected()
		}
	}
	a.flush()
}

// flush publishes journal events and refreshes the status view.
func (a *app) flush() {
	events := a.journal.Drain()
	for _, e := range events {
		a.log.Infow("event",
			"type", e.Type,
			"mode", e.Mode,
			"session", e.SessionID,
			"power", e.Power,
			"seconds", e.Seconds,
		)
		if err := a.outbox.Publish(e); err != nil {
			a.log.Warnw("event not queued", "type", e.Type, "err", err)
		}
	}
	a.metrics.RecordEvents(events)

	remaining := 0
	sessionID := ""
	if s, ok := a.cook.Session(); ok {
		remaining = a.timer.TimeRemaining()
		sessionID = s.ID
	}
	a.metrics.SetHeating(a.tube.Power())
	a.metrics.SetRemaining(remaining)

	if a.tracker == nil {
		return
	}
	a.tracker.Record(events)
	power, minutes := a.ui.Selection()
	a.tracker.Update(status.Oven{
		Mode:          a.ui.Mode(),
		SelectedPower: power,
		SelectedMins:  minutes,
		Heating:       a.tube.IsOn(),
		HeatingWatts:  a.tube.Power(),
		Light:         a.light.IsOn(),
		Remaining:     remaining,
		SessionID:     sessionID,
	})
	if a.mqttStatus != nil {
		a.tracker.SetMQTTConnected(a.mqttStatus.IsConnected())
	}
}

// shutdown cancels any running session, announces the exit and drains the
// outbox.
func (a *app) shutdown(reason string) {
	if a.ui.Mode() == oven.ModeCooking {
		if err := a.ui.Handle(oven.InputStartCancelPressed); err != nil {
			a.log.Errorw("cancel on shutdown", "err", err)
		}
		a.flush()
	}
	a.publishLifecycle("SHUTDOWN", reason)
	a.outbox.Close()
}

// publishLifecycle sends a system event carrying a full status snapshot.
// STARTUP and SHUTDOWN are retained so late subscribers see the last one.
func (a *app) publishLifecycle(event, reason string) {
	se := mqtt.SystemEvent{
		Timestamp: a.now(),
		Event:     event,
		Reason:    reason,
		Retained:  event != "HEARTBEAT",
	}
	if a.tracker != nil {
		if a.mqttStatus != nil {
			a.tracker.SetMQTTConnected(a.mqttStatus.IsConnected())
		}
		se.RawPayload = status.FormatStatusEvent(a.tracker.Snapshot(), event, reason)
	}
	if err := a.outbox.PublishSystem(se); err != nil {
		a.log.Warnw("system event not queued", "event", event, "err", err)
		return
	}
	a.log.Infow("queued system event", "event", event)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
