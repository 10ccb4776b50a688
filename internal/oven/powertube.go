package oven

import "fmt"

// PowerTube controls the heating element. TurnOn is strict about state and
// range; TurnOff is idempotent and silent when already off.
type PowerTube struct {
	out   Output
	relay Relay
	rng   PowerRange
	on    bool
	power int
}

// NewPowerTube creates a heating element accepting power within rng.
// relay may be nil when no hardware line is attached.
func NewPowerTube(out Output, relay Relay, rng PowerRange) *PowerTube {
	return &PowerTube{out: out, relay: relay, rng: rng}
}

// Range returns the accepted power interval.
func (p *PowerTube) Range() PowerRange {
	return p.rng
}

// IsOn reports whether the element is heating.
func (p *PowerTube) IsOn() bool {
	return p.on
}

// Power returns the power of the current heating, or 0 when off.
func (p *PowerTube) Power() int {
	if !p.on {
		return 0
	}
	return p.power
}

// TurnOn starts heating at power watts.
func (p *PowerTube) TurnOn(power int) error {
	if !p.rng.Contains(power) {
		return fmt.Errorf("power %d W outside %d..%d W: %w", power, p.rng.Min, p.rng.Max, ErrOutOfRange)
	}
	if p.on {
		return fmt.Errorf("power tube already on: %w", ErrInvalidOperation)
	}

	p.on = true
	p.power = power
	if p.relay != nil {
		p.relay.Set(true)
	}
	p.out.OutputLine(fmt.Sprintf("PowerTube works with %d W", power))
	return nil
}

// TurnOff stops heating.
func (p *PowerTube) TurnOff() {
	if !p.on {
		return
	}

	p.on = false
	p.power = 0
	if p.relay != nil {
		p.relay.Set(false)
	}
	p.out.OutputLine("PowerTube turned off")
}
