package lcd

import (
	"time"

	"tinygo.org/x/drivers"

	"github.com/harveysanders/picodoro/errcode"
)

// HD44780 instructions and flags.
const (
	cmdClearDisplay   = 0x01
	cmdEntryModeSet   = 0x04
	cmdDisplayControl = 0x08
	cmdFunctionSet    = 0x20
	cmdSetDDRAMAddr   = 0x80

	entryLeft   = 0x02
	displayOn   = 0x04
	functionTwo = 0x08 // two-line mode
)

// PCF8574 backpack pin mapping: RS=P0, EN=P2, backlight=P3, D4..D7=P4..P7.
const (
	modeCommand  = 0x00
	modeData     = 0x01
	enableBit    = 0x04
	backlightBit = 0x08
)

var rowOffsets = [4]uint8{0x00, 0x40, 0x14, 0x54}

// Backpack is an HD44780 display driven in 4-bit mode through a PCF8574
// expander. Every operation blocks for the electrical hold times of the
// controller and never yields.
type Backpack struct {
	bus   drivers.I2C
	cfg   Config
	delay func(d time.Duration)
	buf   [1]byte
}

// NewBackpack returns a Backpack on bus. Call Configure before use.
func NewBackpack(bus drivers.I2C, cfg Config) *Backpack {
	return &Backpack{
		bus:   bus,
		cfg:   cfg.withDefaults(),
		delay: busyWait,
	}
}

func (b *Backpack) Address() uint16 { return b.cfg.Address }
func (b *Backpack) Rows() int       { return int(b.cfg.Rows) }
func (b *Backpack) Cols() int       { return int(b.cfg.Cols) }

// Configure runs the controller's power-on sequence: three 0x03 resets, the
// switch to 4-bit mode, function set, entry mode, display on and clear.
func (b *Backpack) Configure() error {
	for _, cmd := range [...]byte{
		0x03, 0x03, 0x03, 0x02,
		cmdFunctionSet | functionTwo,
		cmdEntryModeSet | entryLeft,
		cmdDisplayControl | displayOn,
	} {
		if err := b.sendByte(cmd, modeCommand); err != nil {
			return err
		}
	}
	return b.Clear()
}

// Clear blanks the grid and homes the controller's cursor.
func (b *Backpack) Clear() error {
	return b.sendByte(cmdClearDisplay, modeCommand)
}

// SetCursor moves the write position to (row, col).
func (b *Backpack) SetCursor(row, col int) error {
	if err := checkCursor("lcd.SetCursor", row, col, b.cfg.Rows, b.cfg.Cols); err != nil {
		return err
	}
	return b.sendByte(cmdSetDDRAMAddr|(rowOffsets[row]+uint8(col)), modeCommand)
}

// WriteChar writes c at the cursor; the controller advances the cursor.
func (b *Backpack) WriteChar(c byte) error {
	return b.sendByte(c, modeData)
}

// sendByte transfers val as two nibbles, high first.
func (b *Backpack) sendByte(val, mode byte) error {
	high := mode | (val & 0xF0) | backlightBit
	low := mode | ((val << 4) & 0xF0) | backlightBit
	if err := b.sendNibble(high); err != nil {
		return err
	}
	return b.sendNibble(low)
}

func (b *Backpack) sendNibble(v byte) error {
	if err := b.write(v); err != nil {
		return err
	}
	b.delay(b.cfg.Hold)
	if err := b.write(v | enableBit); err != nil {
		return err
	}
	b.delay(b.cfg.Hold)
	if err := b.write(v &^ enableBit); err != nil {
		return err
	}
	b.delay(b.cfg.Hold)
	return nil
}

func (b *Backpack) write(v byte) error {
	b.buf[0] = v
	if err := b.bus.Tx(b.cfg.Address, b.buf[:], nil); err != nil {
		return errcode.Wrap(errcode.BusUnavailable, "lcd.write", err)
	}
	return nil
}
