package output

import "fmt"

// Display renders the oven display as one line per update.
type Display struct {
	sink Sink
}

// NewDisplay creates a Display writing to sink.
func NewDisplay(sink Sink) *Display {
	return &Display{sink: sink}
}

// ShowPower shows a power level, e.g. "Display shows: 150 W".
func (d *Display) ShowPower(watts int) {
	d.sink.OutputLine(fmt.Sprintf("%s%d W", DisplayPrefix, watts))
}

// ShowTime shows minutes and seconds zero-padded, e.g. "Display shows: 01:05".
func (d *Display) ShowTime(minutes, seconds int) {
	d.sink.OutputLine(fmt.Sprintf("%s%02d:%02d", DisplayPrefix, minutes, seconds))
}

// Clear blanks the display.
func (d *Display) Clear() {
	d.sink.OutputLine(DisplayCleared)
}
