package output

// Switch drives a relay line.
type Switch interface {
	Set(on bool)
}

// Light is the cavity light. Repeated calls in the same direction produce
// no output.
type Light struct {
	sink  Sink
	relay Switch
	on    bool
}

// NewLight creates a Light writing to sink. relay may be nil.
func NewLight(sink Sink, relay Switch) *Light {
	return &Light{sink: sink, relay: relay}
}

// IsOn reports whether the light is on.
func (l *Light) IsOn() bool {
	return l.on
}

// TurnOn switches the light on.
func (l *Light) TurnOn() {
	if l.on {
		return
	}
	l.on = true
	if l.relay != nil {
		l.relay.Set(true)
	}
	l.sink.OutputLine(LightOn)
}

// TurnOff switches the light off.
func (l *Light) TurnOff() {
	if !l.on {
		return
	}
	l.on = false
	if l.relay != nil {
		l.relay.Set(false)
	}
	l.sink.OutputLine(LightOff)
}
