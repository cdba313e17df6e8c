// Package lcd drives a 16x2 HD44780 character LCD attached through a PCF8574
// I2C backpack.
//
// Two implementations of Surface are provided:
//
//	b := lcd.NewBackpack(machine.I2C0, lcd.Config{Address: 0x27})
//	err := b.Configure()
//
// talks the 4-bit nibble protocol directly and reports bus failures, while
//
//	d := lcd.NewDriver(machine.I2C0, lcd.Config{Address: 0x27})
//
// wraps tinygo.org/x/drivers/hd44780i2c.
package lcd

import (
	"time"

	"github.com/harveysanders/picodoro/errcode"
)

const (
	DefaultAddress = 0x27
	DefaultRows    = 2
	DefaultCols    = 16

	// DefaultHold is the minimum time each nibble transfer step is held so
	// the controller latches it.
	DefaultHold = 600 * time.Microsecond
)

// CommonAddresses are the usual PCF8574 backpack addresses, in probe order.
var CommonAddresses = []uint16{0x27, 0x3F}

// Surface is a clearable character grid with an addressable cursor.
type Surface interface {
	Clear() error
	SetCursor(row, col int) error
	WriteChar(c byte) error
}

// Config describes the display wiring. Zero fields select the defaults.
type Config struct {
	Address uint16
	Rows    uint8
	Cols    uint8
	Hold    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	if c.Rows == 0 {
		c.Rows = DefaultRows
	}
	if c.Cols == 0 {
		c.Cols = DefaultCols
	}
	if c.Hold <= 0 {
		c.Hold = DefaultHold
	}
	return c
}

func checkCursor(op string, row, col int, rows, cols uint8) error {
	if row < 0 || col < 0 || row >= int(rows) || col >= int(cols) || row >= len(rowOffsets) {
		return &errcode.E{C: errcode.InvalidCursorPosition, Op: op}
	}
	return nil
}

// Show clears s and prints one line per row, truncated to cols.
// Rows beyond len(lines) stay blank.
func Show(s Surface, cols int, lines ...string) error {
	if err := s.Clear(); err != nil {
		return err
	}
	for row, line := range lines {
		if len(line) > cols {
			line = line[:cols]
		}
		if line == "" {
			continue
		}
		if err := s.SetCursor(row, 0); err != nil {
			return err
		}
		for i := 0; i < len(line); i++ {
			if err := s.WriteChar(line[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// busyWait spins for at least d without yielding to the scheduler.
func busyWait(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
