// Package config loads daemon settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sweeney/microwave-oven/internal/gpio"
	"github.com/sweeney/microwave-oven/internal/oven"
)

// Config holds every tunable of the daemon.
type Config struct {
	Oven OvenConfig `toml:"oven"`
	GPIO GPIOConfig `toml:"gpio"`
	MQTT MQTTConfig `toml:"mqtt"`
	HTTP HTTPConfig `toml:"http"`
	Log  LogConfig  `toml:"log"`
}

// OvenConfig bounds power and time.
type OvenConfig struct {
	MinPower  int      `toml:"min_power"`  // heating element lower bound, watts
	MaxPower  int      `toml:"max_power"`  // heating element upper bound, watts
	PowerStep int      `toml:"power_step"` // selection increment, watts
	StepMin   int      `toml:"step_min"`   // first selectable level, watts
	StepMax   int      `toml:"step_max"`   // last selectable level before wrapping, watts
	Tick      Duration `toml:"tick"`       // length of one countdown second
}

// GPIOConfig names the chip and BCM lines.
type GPIOConfig struct {
	Chip        string   `toml:"chip"`
	Power       int      `toml:"power_button"`
	Time        int      `toml:"time_button"`
	StartCancel int      `toml:"start_cancel_button"`
	Door        int      `toml:"door"`
	Light       int      `toml:"light"`
	Heater      int      `toml:"heater"`
	Debounce    Duration `toml:"debounce"`
}

// MQTTConfig configures telemetry publishing.
type MQTTConfig struct {
	Broker    string   `toml:"broker"`
	ClientID  string   `toml:"client_id"`
	Heartbeat Duration `toml:"heartbeat"` // 0 disables
	Buffer    int      `toml:"buffer"`    // messages kept while disconnected
}

// HTTPConfig configures the status server. An empty address disables it.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration decodes TOML strings such as "1s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Oven: OvenConfig{
			MinPower:  oven.DefaultPowerRange.Min,
			MaxPower:  oven.DefaultPowerRange.Max,
			PowerStep: oven.DefaultPowerSteps.Step,
			StepMin:   oven.DefaultPowerSteps.Min,
			StepMax:   oven.DefaultPowerSteps.Max,
			Tick:      Duration{time.Second},
		},
		GPIO: GPIOConfig{
			Chip:        gpio.DefaultChip,
			Power:       gpio.DefaultPinPower,
			Time:        gpio.DefaultPinTime,
			StartCancel: gpio.DefaultPinStartCancel,
			Door:        gpio.DefaultPinDoor,
			Light:       gpio.DefaultPinLight,
			Heater:      gpio.DefaultPinHeater,
			Debounce:    Duration{20 * time.Millisecond},
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://192.168.1.200:1883",
			ClientID:  "microwave-oven",
			Heartbeat: Duration{15 * time.Minute},
			Buffer:    100,
		},
		HTTP: HTTPConfig{Addr: ":80"},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// Validate checks the settings are usable together.
func (c Config) Validate() error {
	var errs []error
	o := c.Oven
	if o.MinPower < 1 || o.MaxPower < o.MinPower {
		errs = append(errs, fmt.Errorf("oven: power range %d..%d invalid", o.MinPower, o.MaxPower))
	}
	if o.PowerStep < 1 {
		errs = append(errs, fmt.Errorf("oven: power_step must be positive, got %d", o.PowerStep))
	}
	if o.StepMin > o.StepMax {
		errs = append(errs, fmt.Errorf("oven: step range %d..%d invalid", o.StepMin, o.StepMax))
	} else if o.PowerStep > 0 && (o.StepMax-o.StepMin)%o.PowerStep != 0 {
		errs = append(errs, fmt.Errorf("oven: power_step %d does not divide step range %d..%d", o.PowerStep, o.StepMin, o.StepMax))
	}
	if o.StepMin < o.MinPower || o.StepMax > o.MaxPower {
		errs = append(errs, fmt.Errorf("oven: selectable %d..%d outside element range %d..%d", o.StepMin, o.StepMax, o.MinPower, o.MaxPower))
	}
	if o.Tick.Duration <= 0 {
		errs = append(errs, errors.New("oven: tick must be positive"))
	}
	if c.MQTT.Buffer < 1 {
		errs = append(errs, fmt.Errorf("mqtt: buffer must be positive, got %d", c.MQTT.Buffer))
	}
	return errors.Join(errs...)
}

// PowerRange returns the heating element's accepted interval.
func (c Config) PowerRange() oven.PowerRange {
	return oven.PowerRange{Min: c.Oven.MinPower, Max: c.Oven.MaxPower}
}

// PowerSteps returns the power button's selectable levels.
func (c Config) PowerSteps() oven.PowerSteps {
	return oven.PowerSteps{Min: c.Oven.StepMin, Max: c.Oven.StepMax, Step: c.Oven.PowerStep}
}

// Pins returns the GPIO line assignment.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{
		Power:       c.GPIO.Power,
		Time:        c.GPIO.Time,
		StartCancel: c.GPIO.StartCancel,
		Door:        c.GPIO.Door,
		Light:       c.GPIO.Light,
		Heater:      c.GPIO.Heater,
	}
}
