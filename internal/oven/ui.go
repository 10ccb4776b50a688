package oven

// Cooker is the cooking controller as seen by the user interface.
type Cooker interface {
	StartCooking(power, seconds int) error
	Stop()
}

// state is one variant of the oven's mode. Only the setting states carry a
// payload (the pending selection).
type state interface {
	mode() Mode
	handle(ui *UserInterface, in Input) (state, error)
}

type readyState struct{}

type settingPowerState struct {
	power int
}

type settingTimeState struct {
	power   int
	minutes int
}

type cookingState struct{}

type doorOpenState struct{}

func (readyState) mode() Mode        { return ModeReady }
func (settingPowerState) mode() Mode { return ModeSettingPower }
func (settingTimeState) mode() Mode  { return ModeSettingTime }
func (cookingState) mode() Mode      { return ModeCooking }
func (doorOpenState) mode() Mode     { return ModeDoorOpen }

func (s readyState) handle(ui *UserInterface, in Input) (state, error) {
	switch in {
	case InputPowerPressed:
		power := ui.steps.Min
		ui.display.ShowPower(power)
		return settingPowerState{power: power}, nil
	case InputDoorOpened:
		ui.light.TurnOn()
		return doorOpenState{}, nil
	}
	return s, nil
}

func (s settingPowerState) handle(ui *UserInterface, in Input) (state, error) {
	switch in {
	case InputPowerPressed:
		power := ui.steps.next(s.power)
		ui.display.ShowPower(power)
		return settingPowerState{power: power}, nil
	case InputTimePressed:
		ui.display.ShowTime(1, 0)
		return settingTimeState{power: s.power, minutes: 1}, nil
	case InputStartCancelPressed:
		ui.display.Clear()
		return readyState{}, nil
	case InputDoorOpened:
		ui.light.TurnOn()
		ui.display.Clear()
		return doorOpenState{}, nil
	}
	return s, nil
}

func (s settingTimeState) handle(ui *UserInterface, in Input) (state, error) {
	switch in {
	case InputTimePressed:
		minutes := s.minutes + 1
		ui.display.ShowTime(minutes, 0)
		return settingTimeState{power: s.power, minutes: minutes}, nil
	case InputStartCancelPressed:
		// Light only comes on once the controller accepted the session so a
		// rejected start has no visible effect.
		if err := ui.cook.StartCooking(s.power, s.minutes*60); err != nil {
			return s, err
		}
		ui.light.TurnOn()
		return cookingState{}, nil
	case InputDoorOpened:
		ui.light.TurnOn()
		ui.display.Clear()
		return doorOpenState{}, nil
	}
	return s, nil
}

func (s cookingState) handle(ui *UserInterface, in Input) (state, error) {
	switch in {
	case InputStartCancelPressed:
		ui.cook.Stop()
		ui.light.TurnOff()
		ui.display.Clear()
		return readyState{}, nil
	case InputDoorOpened:
		ui.cook.Stop()
		ui.light.TurnOn()
		return doorOpenState{}, nil
	}
	return s, nil
}

func (s doorOpenState) handle(ui *UserInterface, in Input) (state, error) {
	if in == InputDoorClosed {
		ui.light.TurnOff()
		return readyState{}, nil
	}
	return s, nil
}

// UserInterface owns the oven's mode and pending selection and translates
// button and door inputs into controller, light and display commands.
type UserInterface struct {
	display Display
	light   Light
	cook    Cooker
	steps   PowerSteps
	journal *Journal

	current state
}

// NewUserInterface creates a user interface in Ready mode. journal may be nil.
func NewUserInterface(display Display, light Light, cook Cooker, steps PowerSteps, journal *Journal) *UserInterface {
	return &UserInterface{
		display: display,
		light:   light,
		cook:    cook,
		steps:   steps,
		journal: journal,
		current: readyState{},
	}
}

// Mode returns the current operating mode.
func (ui *UserInterface) Mode() Mode {
	return ui.current.mode()
}

// Selection returns the pending power and time. Both are zero outside the
// setting modes; minutes is zero while only power has been chosen.
func (ui *UserInterface) Selection() (power, minutes int) {
	switch s := ui.current.(type) {
	case settingPowerState:
		return s.power, 0
	case settingTimeState:
		return s.power, s.minutes
	}
	return 0, 0
}

// Handle applies one input. Inputs with no transition from the current mode
// are ignored. On error the mode is unchanged.
func (ui *UserInterface) Handle(in Input) error {
	next, err := ui.current.handle(ui, in)
	if err != nil {
		return err
	}
	ui.enter(next)
	return nil
}

// CookingIsDone implements CompletionListener.
func (ui *UserInterface) CookingIsDone() {
	if ui.current.mode() != ModeCooking {
		return
	}
	ui.display.Clear()
	ui.light.TurnOff()
	ui.enter(readyState{})
}

func (ui *UserInterface) enter(next state) {
	prev := ui.current.mode()
	ui.current = next
	if prev == next.mode() {
		return
	}
	power, _ := ui.Selection()
	ui.journal.record(Event{
		Type:  EventModeChanged,
		From:  prev,
		Mode:  next.mode(),
		Power: power,
	})
}
