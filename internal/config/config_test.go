package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/microwave-oven/internal/oven"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "microwave.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PowerRange() != oven.DefaultPowerRange {
		t.Errorf("PowerRange: got %+v, want %+v", cfg.PowerRange(), oven.DefaultPowerRange)
	}
	if cfg.PowerSteps() != oven.DefaultPowerSteps {
		t.Errorf("PowerSteps: got %+v, want %+v", cfg.PowerSteps(), oven.DefaultPowerSteps)
	}
	if cfg.Oven.Tick.Duration != time.Second {
		t.Errorf("Tick: got %v, want 1s", cfg.Oven.Tick.Duration)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[oven]
max_power = 900
step_max = 900
tick = "250ms"

[gpio]
door = 4
debounce = "5ms"

[mqtt]
broker = "tcp://localhost:1883"
heartbeat = "0s"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Oven.MaxPower != 900 {
		t.Errorf("MaxPower: got %d, want 900", cfg.Oven.MaxPower)
	}
	if cfg.Oven.MinPower != 1 {
		t.Errorf("MinPower should keep default 1, got %d", cfg.Oven.MinPower)
	}
	if cfg.Oven.Tick.Duration != 250*time.Millisecond {
		t.Errorf("Tick: got %v, want 250ms", cfg.Oven.Tick.Duration)
	}
	if cfg.GPIO.Door != 4 {
		t.Errorf("Door: got %d, want 4", cfg.GPIO.Door)
	}
	if cfg.GPIO.Power != Default().GPIO.Power {
		t.Errorf("Power pin should keep default, got %d", cfg.GPIO.Power)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("Broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Heartbeat.Duration != 0 {
		t.Errorf("Heartbeat: got %v, want 0", cfg.MQTT.Heartbeat.Duration)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level: got %q, want debug", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "[oven]\nwattage = 5\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("expected unknown keys error, got %v", err)
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "[oven]\ntick = \"soon\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"zero min power":     func(c *Config) { c.Oven.MinPower = 0 },
		"max below min":      func(c *Config) { c.Oven.MaxPower = 0 },
		"zero step":          func(c *Config) { c.Oven.PowerStep = 0 },
		"steps inverted":     func(c *Config) { c.Oven.StepMin = 700; c.Oven.StepMax = 50 },
		"steps above rating": func(c *Config) { c.Oven.StepMax = 800 },
		"uneven step":        func(c *Config) { c.Oven.PowerStep = 60 },
		"zero tick":          func(c *Config) { c.Oven.Tick.Duration = 0 },
		"zero buffer":        func(c *Config) { c.MQTT.Buffer = 0 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateAcceptsEvenStep(t *testing.T) {
	cfg := Default()
	cfg.Oven.PowerStep = 60
	cfg.Oven.StepMax = 650
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPins(t *testing.T) {
	cfg := Default()
	cfg.GPIO.Heater = 12
	pins := cfg.Pins()
	if pins.Heater != 12 {
		t.Errorf("Heater: got %d, want 12", pins.Heater)
	}
	if pins.Door != cfg.GPIO.Door {
		t.Errorf("Door: got %d, want %d", pins.Door, cfg.GPIO.Door)
	}
}
