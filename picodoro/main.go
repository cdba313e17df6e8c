//go:build rp2040 || rp2350

// Command picodoro is a Pomodoro timer for the Raspberry Pi Pico. It shows
// the time spent in the current work or break phase on a 16x2 I2C LCD and
// one block per completed work interval. Pressing the button on GP16 starts
// a new work interval.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picodoro/button"
	"github.com/harveysanders/picodoro/config"
	"github.com/harveysanders/picodoro/lcd"
	"github.com/harveysanders/picodoro/pomodoro"
	"github.com/harveysanders/picodoro/render"
)

type surface interface {
	lcd.Surface
	Configure() error
}

func main() {
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	if err := cfg.Validate(); err != nil {
		printErrForever(logger, "config:invalid", slog.String("err", err.Error()))
	}

	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: cfg.Display.I2CFrequency,
		SDA:       machine.Pin(cfg.Display.SDAPin),
		SCL:       machine.Pin(cfg.Display.SCLPin),
	})
	if err != nil {
		printErrForever(logger, "i2c:configure-failed", slog.String("err", err.Error()))
	}

	display, err := configureLCD(machine.I2C0, cfg.Display)
	if err != nil {
		printErrForever(logger, "lcd:configure-failed", slog.String("err", err.Error()))
	}

	clock := pomodoro.NewSystemClock()
	timer := pomodoro.New(clock.Micros(), cfg.WorkLength)

	btn := button.New(button.MachinePin{Pin: machine.Pin(cfg.ButtonPin)}, timer, clock)
	if err := btn.Start(); err != nil {
		_ = lcd.Show(display, int(cfg.Display.Cols), "picodoro", "button failed")
		printErrForever(logger, "button:irq-failed", slog.String("err", err.Error()))
	}

	led := statusLED(cfg.StatusLED)

	loop := render.New(timer, clock, display, render.Config{
		Tick:    cfg.Tick,
		Marker:  cfg.Marker,
		Logger:  logger,
		OnPhase: led,
		OnReset: func() {
			logger.Debug("button:presses", slog.Uint64("count", uint64(btn.Presses())))
		},
	})

	logger.Info("picodoro:start",
		slog.String("driver", cfg.Display.Driver.String()),
		slog.Duration("work", cfg.WorkLength),
	)
	loop.Run(context.Background())
}

// configureLCD probes the configured addresses on a preconfigured I2C
// peripheral and initializes the display found there.
func configureLCD(i2c *machine.I2C, cfg config.Display) (surface, error) {
	addr, err := lcd.Probe(i2c, cfg.Addresses)
	if err != nil {
		return nil, err
	}
	lcdCfg := lcd.Config{
		Address: addr,
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Hold:    cfg.Hold,
	}
	var s surface
	switch cfg.Driver {
	case config.DriverHD44780I2C:
		s = lcd.NewDriver(i2c, lcdCfg)
	default:
		s = lcd.NewBackpack(i2c, lcdCfg)
	}
	if err := s.Configure(); err != nil {
		return nil, err
	}
	return s, nil
}

// statusLED returns a phase callback that lights the LED during work.
func statusLED(cfg config.LED) func(pomodoro.Phase) {
	if !cfg.Enabled {
		return nil
	}
	pin := machine.Pin(cfg.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return func(p pomodoro.Phase) {
		pin.Set(p == pomodoro.Work)
	}
}

// printErrForever logs msg once per second. It blocks forever; there is no
// supervisor to restart the firmware.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
