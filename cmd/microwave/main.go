// Command microwave runs the oven controller: it reads buttons and the door
// from GPIO, drives the heater and light relays, prints device output and
// publishes state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sweeney/microwave-oven/internal/config"
	"github.com/sweeney/microwave-oven/internal/gpio"
	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/metrics"
	"github.com/sweeney/microwave-oven/internal/mqtt"
	"github.com/sweeney/microwave-oven/internal/output"
	"github.com/sweeney/microwave-oven/internal/oven"
	"github.com/sweeney/microwave-oven/internal/status"
	"github.com/sweeney/microwave-oven/internal/web"
)

// options holds command-line flags. Flags that were set override the
// config file.
type options struct {
	configPath string
	broker     string
	httpAddr   string
	logLevel   string
	heartbeat  time.Duration
	tick       time.Duration
	printState bool
	stdin      bool

	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	def := config.Default()
	var o options
	fs := flag.NewFlagSet("microwave", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.broker, "broker", def.MQTT.Broker, "MQTT broker address")
	fs.StringVar(&o.httpAddr, "http", def.HTTP.Addr, "HTTP status address (empty to disable)")
	fs.StringVar(&o.logLevel, "log-level", def.Log.Level, "debug, info, warn or error")
	fs.DurationVar(&o.heartbeat, "heartbeat", def.MQTT.Heartbeat.Duration, "Heartbeat interval (0 to disable)")
	fs.DurationVar(&o.tick, "tick", def.Oven.Tick.Duration, "Length of one countdown second")
	fs.BoolVar(&o.printState, "print-state", false, "Print door state and exit")
	fs.BoolVar(&o.stdin, "stdin", false, "Read commands (power, time, start, open, close) from stdin instead of GPIO")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// loadConfig reads the config file and applies explicitly set flags.
func loadConfig(o options) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.set["broker"] {
		cfg.MQTT.Broker = o.broker
	}
	if o.set["http"] {
		cfg.HTTP.Addr = o.httpAddr
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.logLevel
	}
	if o.set["heartbeat"] {
		cfg.MQTT.Heartbeat = config.Duration{Duration: o.heartbeat}
	}
	if o.set["tick"] {
		cfg.Oven.Tick = config.Duration{Duration: o.tick}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level)
	defer log.Sync()

	if err := run(cfg, o, log); err != nil {
		log.Fatalw("fatal", "err", err)
	}
}

func run(cfg config.Config, o options, log *logger.Logger) error {
	inputs, lightRelay, heaterRelay, cleanup, err := openHardware(cfg, o.stdin, os.Stdin, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if o.printState {
		open, err := inputs.DoorOpen()
		if err != nil {
			return fmt.Errorf("read door: %w", err)
		}
		fmt.Printf("door: %s\n", doorString(open))
		return nil
	}

	publisher, err := mqtt.NewRealPublisher(mqtt.Options{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Buffer:   cfg.MQTT.Buffer,
		Log:      log.Named("mqtt"),
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.Oven.Tick.Milliseconds(),
		DebounceMs:  cfg.GPIO.Debounce.Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		MinPower:    cfg.Oven.MinPower,
		MaxPower:    cfg.Oven.MaxPower,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})

	console := output.NewConsole(os.Stdout, log.Named("output"))
	a, err := newApp(appDeps{
		cfg:         cfg,
		out:         console,
		lightRelay:  lightRelay,
		heaterRelay: heaterRelay,
		publisher:   publisher,
		mqttStatus:  publisher,
		tracker:     tracker,
		metrics:     metrics.NewCollector(reg),
		log:         log,
		now:         time.Now,
	})
	if err != nil {
		return err
	}

	a.publishLifecycle("STARTUP", "")

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, metrics.Handler(reg), log.Named("web"))
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infow("http status server listening", "addr", cfg.HTTP.Addr)
	}

	var heartbeat <-chan time.Time
	if cfg.MQTT.Heartbeat.Duration > 0 {
		t := time.NewTicker(cfg.MQTT.Heartbeat.Duration)
		defer t.Stop()
		heartbeat = t.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("started",
		"tick", cfg.Oven.Tick.Duration,
		"power", fmt.Sprintf("%d..%d W", cfg.Oven.MinPower, cfg.Oven.MaxPower),
		"broker", cfg.MQTT.Broker,
		"heartbeat", cfg.MQTT.Heartbeat.Duration,
	)

	if open, err := inputs.DoorOpen(); err != nil {
		log.Warnw("cannot read initial door state", "err", err)
	} else if open {
		a.handleInput(oven.InputDoorOpened)
	}

	return a.runLoop(inputs.Events(), a.timer.Events(), heartbeat, sigCh)
}

// openHardware returns the input source and relays. With useStdin the
// commands come from r and there are no relays.
func openHardware(cfg config.Config, useStdin bool, r io.Reader, log *logger.Logger) (gpio.Inputs, oven.Relay, oven.Relay, func(), error) {
	if useStdin {
		return gpio.NewLineInputs(r, log.Named("stdin")), nil, nil, func() {}, nil
	}

	glog := log.Named("gpio")
	inputs, err := gpio.NewRealInputs(cfg.GPIO.Chip, cfg.Pins(), cfg.GPIO.Debounce.Duration, glog)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init gpio inputs: %w", err)
	}
	light, err := gpio.NewRealSwitch(cfg.GPIO.Chip, cfg.GPIO.Light, "light", glog)
	if err != nil {
		inputs.Close()
		return nil, nil, nil, nil, fmt.Errorf("init light relay: %w", err)
	}
	heater, err := gpio.NewRealSwitch(cfg.GPIO.Chip, cfg.GPIO.Heater, "heater", glog)
	if err != nil {
		light.Close()
		inputs.Close()
		return nil, nil, nil, nil, fmt.Errorf("init heater relay: %w", err)
	}

	cleanup := func() {
		heater.Close()
		light.Close()
		inputs.Close()
	}
	return inputs, light, heater, cleanup, nil
}

func doorString(open bool) string {
	if open {
		return "OPEN"
	}
	return "CLOSED"
}
