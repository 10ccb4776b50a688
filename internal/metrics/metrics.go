// Package metrics exposes oven activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/microwave-oven/internal/oven"
)

var modes = []oven.Mode{
	oven.ModeReady,
	oven.ModeSettingPower,
	oven.ModeSettingTime,
	oven.ModeCooking,
	oven.ModeDoorOpen,
}

// Recorder is what the run loop reports to.
type Recorder interface {
	RecordInput(in oven.Input)
	RecordRejected()
	RecordEvents(events []oven.Event)
	SetHeating(watts int)
	SetRemaining(seconds int)
}

// Collector implements Recorder with Prometheus metrics.
type Collector struct {
	started   prometheus.Counter
	completed prometheus.Counter
	stopped   prometheus.Counter
	inputs    *prometheus.CounterVec
	rejected  prometheus.Counter
	mode      *prometheus.GaugeVec
	heating   prometheus.Gauge
	remaining prometheus.Gauge
	duration  prometheus.Histogram
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microwave_sessions_started_total",
			Help: "Heating sessions started.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microwave_sessions_completed_total",
			Help: "Heating sessions that ran to completion.",
		}),
		stopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microwave_sessions_stopped_total",
			Help: "Heating sessions cancelled or interrupted.",
		}),
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microwave_inputs_total",
			Help: "Button presses and door transitions by input.",
		}, []string{"input"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microwave_rejected_inputs_total",
			Help: "Inputs the oven refused.",
		}),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "microwave_mode",
			Help: "1 for the current operating mode, 0 otherwise.",
		}, []string{"mode"}),
		heating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microwave_heating_watts",
			Help: "Current heating power, 0 when off.",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "microwave_time_remaining_seconds",
			Help: "Seconds left in the running session.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "microwave_session_requested_seconds",
			Help:    "Requested length of completed sessions.",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 3600},
		}),
	}

	reg.MustRegister(
		c.started,
		c.completed,
		c.stopped,
		c.inputs,
		c.rejected,
		c.mode,
		c.heating,
		c.remaining,
		c.duration,
	)
	c.setMode(oven.ModeReady)
	return c
}

// RecordInput counts one input.
func (c *Collector) RecordInput(in oven.Input) {
	c.inputs.WithLabelValues(string(in)).Inc()
}

// RecordRejected counts one refused input.
func (c *Collector) RecordRejected() {
	c.rejected.Inc()
}

// RecordEvents updates counters and the mode gauge from journal events.
func (c *Collector) RecordEvents(events []oven.Event) {
	for _, e := range events {
		switch e.Type {
		case oven.EventModeChanged:
			c.setMode(e.Mode)
		case oven.EventCookingStarted:
			c.started.Inc()
		case oven.EventCookingDone:
			c.completed.Inc()
			c.duration.Observe(float64(e.Seconds))
		case oven.EventCookingStopped:
			c.stopped.Inc()
		}
	}
}

// SetHeating sets the heating power gauge.
func (c *Collector) SetHeating(watts int) {
	c.heating.Set(float64(watts))
}

// SetRemaining sets the remaining time gauge.
func (c *Collector) SetRemaining(seconds int) {
	c.remaining.Set(float64(seconds))
}

func (c *Collector) setMode(current oven.Mode) {
	for _, m := range modes {
		v := 0.0
		if m == current {
			v = 1
		}
		c.mode.WithLabelValues(string(m)).Set(v)
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordInput(oven.Input)    {}
func (Nop) RecordRejected()           {}
func (Nop) RecordEvents([]oven.Event) {}
func (Nop) SetHeating(int)            {}
func (Nop) SetRemaining(int)          {}
