package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/microwave-oven/internal/oven"
)

func TestFakeInputsDeliversInOrder(t *testing.T) {
	f := NewFakeInputs()
	f.Push(oven.InputDoorOpened, oven.InputDoorClosed, oven.InputPowerPressed)

	want := []oven.Input{oven.InputDoorOpened, oven.InputDoorClosed, oven.InputPowerPressed}
	for i, w := range want {
		got := <-f.Events()
		if got != w {
			t.Errorf("signal %d: expected %s, got %s", i, w, got)
		}
	}

	select {
	case extra := <-f.Events():
		t.Errorf("unexpected extra signal %s", extra)
	default:
	}
}

func TestFakeInputsKeepsDoorEdgesWhenFull(t *testing.T) {
	f := NewFakeInputs()
	defer f.Close()

	for i := 0; i < inputBuffer+10; i++ {
		f.Push(oven.InputPowerPressed)
	}
	f.Push(oven.InputDoorOpened)
	for i := 0; i < 10; i++ {
		f.Push(oven.InputTimePressed)
	}
	f.Push(oven.InputDoorClosed)

	var got []oven.Input
	timeout := time.After(time.Second)
	for len(got) == 0 || got[len(got)-1] != oven.InputDoorClosed {
		select {
		case in := <-f.Events():
			got = append(got, in)
		case <-timeout:
			t.Fatalf("door closed never delivered, got %d signals", len(got))
		}
	}

	var doors []oven.Input
	presses := 0
	for _, in := range got {
		switch in {
		case oven.InputDoorOpened, oven.InputDoorClosed:
			doors = append(doors, in)
		default:
			presses++
		}
	}
	if len(doors) != 2 || doors[0] != oven.InputDoorOpened || doors[1] != oven.InputDoorClosed {
		t.Errorf("expected door edges [DOOR_OPENED DOOR_CLOSED], got %v", doors)
	}
	if presses > inputBuffer+1 {
		t.Errorf("expected at most %d queued presses, got %d", inputBuffer+1, presses)
	}
	if f.Shed() == 0 {
		t.Error("expected some button presses to be shed")
	}
	if presses+f.Shed() != inputBuffer+20 {
		t.Errorf("delivered %d + shed %d, want %d pushed presses", presses, f.Shed(), inputBuffer+20)
	}
}

func TestFakeInputsDoorOpen(t *testing.T) {
	f := NewFakeInputs()

	open, err := f.DoorOpen()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open {
		t.Error("door should read closed by default")
	}

	f.Door = true
	open, _ = f.DoorOpen()
	if !open {
		t.Error("door should read open")
	}
}

func TestFakeInputsReadError(t *testing.T) {
	f := NewFakeInputs()
	f.ReadError = errors.New("simulated error")

	_, err := f.DoorOpen()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeInputsClose(t *testing.T) {
	f := NewFakeInputs()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeSwitchRecordsStates(t *testing.T) {
	s := NewFakeSwitch()
	if s.On() {
		t.Error("switch should start off")
	}

	s.Set(true)
	if !s.On() {
		t.Error("switch should be on")
	}
	s.Set(false)

	states := s.States()
	if len(states) != 2 || states[0] != true || states[1] != false {
		t.Errorf("expected [true false], got %v", states)
	}

	s.Close()
	if !s.Closed() {
		t.Error("should be closed after Close()")
	}
}

func TestFakeSwitchSatisfiesRelay(t *testing.T) {
	var _ oven.Relay = NewFakeSwitch()
	var _ Switch = NewFakeSwitch()
	var _ Inputs = NewFakeInputs()
}

func TestDefaultPins(t *testing.T) {
	p := DefaultPins()
	seen := map[int]string{}
	for name, pin := range map[string]int{
		"power": p.Power, "time": p.Time, "start": p.StartCancel,
		"door": p.Door, "light": p.Light, "heater": p.Heater,
	} {
		if other, dup := seen[pin]; dup {
			t.Errorf("pin %d assigned to both %s and %s", pin, name, other)
		}
		seen[pin] = name
	}
}
