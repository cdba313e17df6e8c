// Package config holds the compiled-in firmware settings. There is no
// runtime configuration surface: Default is the configuration.
package config

import (
	"log/slog"
	"time"

	"github.com/harveysanders/picodoro/errcode"
	"github.com/harveysanders/picodoro/lcd"
	"github.com/harveysanders/picodoro/pomodoro"
	"github.com/harveysanders/picodoro/render"
)

// Driver selects the lcd.Surface implementation.
type Driver uint8

const (
	DriverBackpack   Driver = iota // lcd.Backpack
	DriverHD44780I2C               // lcd.Driver
)

func (d Driver) String() string {
	switch d {
	case DriverBackpack:
		return "backpack"
	case DriverHD44780I2C:
		return "hd44780i2c"
	}
	return "unknown"
}

type Config struct {
	WorkLength time.Duration
	Tick       time.Duration
	Marker     byte
	LogLevel   slog.Level

	Display   Display
	ButtonPin uint8
	StatusLED LED
}

type Display struct {
	Driver    Driver
	Addresses []uint16 // probed in order
	Rows      uint8
	Cols      uint8
	Hold      time.Duration

	I2CFrequency uint32 // Hz
	SDAPin       uint8
	SCLPin       uint8
}

type LED struct {
	Enabled bool
	Pin     uint8
}

// HD44780 addressing limits.
const (
	maxRows  = 4
	maxCols  = 40
	maxCells = 80
)

// Default returns the Pico wiring: LCD backpack on I2C0 (GP4/GP5) at
// 100 kHz, button on GP16, debug LED on GP21.
func Default() Config {
	return Config{
		WorkLength: pomodoro.WorkLength,
		Tick:       render.DefaultTick,
		Marker:     render.DefaultMarker,
		LogLevel:   slog.LevelInfo,
		Display: Display{
			Driver:       DriverBackpack,
			Addresses:    append([]uint16(nil), lcd.CommonAddresses...),
			Rows:         lcd.DefaultRows,
			Cols:         lcd.DefaultCols,
			Hold:         lcd.DefaultHold,
			I2CFrequency: 100_000,
			SDAPin:       4,
			SCLPin:       5,
		},
		ButtonPin: 16,
		StatusLED: LED{Enabled: true, Pin: 21},
	}
}

// Validate reports the first invalid setting as errcode.InvalidParams.
func (c Config) Validate() error {
	switch {
	case c.WorkLength <= 0:
		return invalid("work length must be positive")
	case c.Tick <= 0:
		return invalid("tick must be positive")
	case c.Tick >= c.WorkLength:
		return invalid("tick must be shorter than the work length")
	case c.Marker == 0:
		return invalid("marker glyph must be non-zero")
	}
	return c.Display.Validate()
}

func (d Display) Validate() error {
	switch {
	case d.Driver != DriverBackpack && d.Driver != DriverHD44780I2C:
		return invalid("unknown display driver")
	case len(d.Addresses) == 0:
		return invalid("no display addresses to probe")
	case d.Rows < render.Rows || d.Cols < render.Cols:
		return invalid("display smaller than the 2x16 frame")
	case d.Rows > maxRows || d.Cols > maxCols || int(d.Rows)*int(d.Cols) > maxCells:
		return invalid("display larger than an HD44780 can address")
	case d.Hold < lcd.DefaultHold:
		return invalid("nibble hold below the controller minimum")
	case d.I2CFrequency == 0:
		return invalid("i2c frequency must be positive")
	}
	for _, a := range d.Addresses {
		if a == 0 || a > 0x7F {
			return invalid("display address outside the 7-bit range")
		}
	}
	return nil
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: msg}
}
