package lcd

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"github.com/harveysanders/picodoro/errcode"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

var errNack = errors.New("i2c: nack")

type busWrite struct {
	addr uint16
	v    byte
}

// fakeI2C records single-byte writes and NACKs the addresses in nack.
type fakeI2C struct {
	mu     sync.Mutex
	nack   map[uint16]bool
	writes []busWrite
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nack[addr] {
		return errNack
	}
	for _, v := range w {
		f.writes = append(f.writes, busWrite{addr: addr, v: v})
	}
	return nil
}

func (f *fakeI2C) reset() {
	f.mu.Lock()
	f.writes = nil
	f.mu.Unlock()
}

func (f *fakeI2C) bytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.writes))
	for i, w := range f.writes {
		out[i] = w.v
	}
	return out
}

type sent struct {
	mode byte
	val  byte
}

// decode rebuilds the transferred bytes from the enable-high strobes.
func decode(t *testing.T, raw []byte) []sent {
	t.Helper()
	var nibbles []byte
	for _, v := range raw {
		if v&enableBit != 0 {
			nibbles = append(nibbles, v)
		}
	}
	if len(nibbles)%2 != 0 {
		t.Fatalf("odd number of nibble strobes: %d", len(nibbles))
	}
	out := make([]sent, 0, len(nibbles)/2)
	for i := 0; i < len(nibbles); i += 2 {
		hi, lo := nibbles[i], nibbles[i+1]
		if hi&backlightBit == 0 || lo&backlightBit == 0 {
			t.Fatalf("backlight bit missing in %#02x/%#02x", hi, lo)
		}
		out = append(out, sent{mode: hi & modeData, val: hi&0xF0 | lo>>4})
	}
	return out
}

func newTestBackpack(bus *fakeI2C) (*Backpack, *[]time.Duration) {
	var delays []time.Duration
	b := NewBackpack(bus, Config{})
	b.delay = func(d time.Duration) { delays = append(delays, d) }
	return b, &delays
}

func TestBackpackWriteCharSequence(t *testing.T) {
	bus := &fakeI2C{}
	b, delays := newTestBackpack(bus)

	if err := b.WriteChar('A'); err != nil {
		t.Fatalf("WriteChar: %v", err)
	}
	want := []byte{0x49, 0x4D, 0x49, 0x19, 0x1D, 0x19}
	if got := bus.bytes(); string(got) != string(want) {
		t.Fatalf("bus bytes = % x, want % x", got, want)
	}
	for _, w := range bus.writes {
		if w.addr != DefaultAddress {
			t.Fatalf("write to %#x, want %#x", w.addr, DefaultAddress)
		}
	}
	if len(*delays) != 6 {
		t.Fatalf("got %d holds, want 6", len(*delays))
	}
	for _, d := range *delays {
		if d < 600*time.Microsecond {
			t.Fatalf("hold %v shorter than 600µs", d)
		}
	}
}

func TestBackpackSetCursor(t *testing.T) {
	bus := &fakeI2C{}
	b, _ := newTestBackpack(bus)

	if err := b.SetCursor(1, 5); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	want := []byte{0xC8, 0xCC, 0xC8, 0x58, 0x5C, 0x58}
	if got := bus.bytes(); string(got) != string(want) {
		t.Fatalf("bus bytes = % x, want % x", got, want)
	}

	bus.reset()
	for _, pos := range [][2]int{{2, 0}, {0, 16}, {-1, 0}, {0, -1}} {
		err := b.SetCursor(pos[0], pos[1])
		if errcode.Of(err) != errcode.InvalidCursorPosition {
			t.Fatalf("SetCursor(%d,%d) err = %v, want invalid_cursor_position", pos[0], pos[1], err)
		}
	}
	if n := len(bus.bytes()); n != 0 {
		t.Fatalf("rejected cursor moves wrote %d bytes", n)
	}
}

func TestBackpackConfigureOrder(t *testing.T) {
	bus := &fakeI2C{}
	b, _ := newTestBackpack(bus)

	if err := b.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	got := decode(t, bus.bytes())
	want := []byte{0x03, 0x03, 0x03, 0x02, 0x28, 0x06, 0x0C, 0x01}
	if len(got) != len(want) {
		t.Fatalf("sent %d commands, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.mode != modeCommand || s.val != want[i] {
			t.Fatalf("command %d = %+v, want %#02x", i, s, want[i])
		}
	}
}

func TestBackpackBusError(t *testing.T) {
	bus := &fakeI2C{nack: map[uint16]bool{DefaultAddress: true}}
	b, _ := newTestBackpack(bus)

	err := b.WriteChar('x')
	if !errors.Is(err, errcode.BusUnavailable) {
		t.Fatalf("err = %v, want bus_unavailable", err)
	}
	if !errors.Is(err, errNack) {
		t.Fatalf("err = %v, want wrapped nack", err)
	}
}

func TestDriverCursorBounds(t *testing.T) {
	bus := &fakeI2C{}
	d := NewDriver(bus, Config{})
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	bus.reset()

	if err := d.SetCursor(0, 16); errcode.Of(err) != errcode.InvalidCursorPosition {
		t.Fatalf("SetCursor(0,16) err = %v", err)
	}
	if n := len(bus.bytes()); n != 0 {
		t.Fatalf("rejected cursor move wrote %d bytes", n)
	}

	if err := d.SetCursor(1, 3); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if err := d.WriteChar(0xA5); err != nil {
		t.Fatalf("WriteChar: %v", err)
	}
	if len(bus.bytes()) == 0 {
		t.Fatal("no bus traffic for cursor move and write")
	}
	for _, w := range bus.writes {
		if w.addr != DefaultAddress {
			t.Fatalf("write to %#x, want %#x", w.addr, DefaultAddress)
		}
	}
}

func TestProbe(t *testing.T) {
	bus := &fakeI2C{nack: map[uint16]bool{0x27: true}}
	addr, err := Probe(bus, CommonAddresses)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if addr != 0x3F {
		t.Fatalf("Probe = %#x, want 0x3f", addr)
	}

	bus.nack[0x3F] = true
	_, err = Probe(bus, CommonAddresses)
	if !errors.Is(err, errcode.BusUnavailable) {
		t.Fatalf("err = %v, want bus_unavailable", err)
	}
	if !strings.Contains(err.Error(), "0x27, 0x3f") {
		t.Fatalf("err = %q, want probed addresses listed", err)
	}
}

type op struct {
	kind     string
	row, col int
	c        byte
}

type recordSurface struct{ ops []op }

func (s *recordSurface) Clear() error { s.ops = append(s.ops, op{kind: "clear"}); return nil }
func (s *recordSurface) SetCursor(row, col int) error {
	s.ops = append(s.ops, op{kind: "cursor", row: row, col: col})
	return nil
}
func (s *recordSurface) WriteChar(c byte) error { s.ops = append(s.ops, op{kind: "char", c: c}); return nil }

func TestShowTruncates(t *testing.T) {
	s := &recordSurface{}
	if err := Show(s, 4, "hello", "", "ab"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	var text strings.Builder
	for _, o := range s.ops {
		switch o.kind {
		case "clear":
			text.WriteString("|")
		case "cursor":
			text.WriteString("@")
			text.WriteByte(byte('0' + o.row))
		case "char":
			text.WriteByte(o.c)
		}
	}
	if got, want := text.String(), "|@0hell@2ab"; got != want {
		t.Fatalf("ops = %q, want %q", got, want)
	}
}
