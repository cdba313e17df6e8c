// Package render turns the timer state into text on a character display,
// sending only the cells that changed since the previous tick.
package render

import (
	"strconv"

	"github.com/harveysanders/picodoro/pomodoro"
)

const (
	Rows = 2
	Cols = 16

	// DefaultMarker is the filled block (A00 character ROM) drawn once per
	// completed work interval.
	DefaultMarker = 0xA5
)

// Frame holds the text of both display rows. A zero byte is a cell with
// nothing rendered in it; each row's text ends at its first zero.
type Frame [Rows][Cols]byte

// Row returns the text of row r.
func (f *Frame) Row(r int) []byte {
	row := f[r][:]
	for i, c := range row {
		if c == 0 {
			return row[:i]
		}
	}
	return row
}

func (f *Frame) setRow(r int, text []byte) {
	n := copy(f[r][:], text)
	clear(f[r][n:])
}

// AppendTime appends secs formatted as MM:SS. Minutes are zero-padded to two
// digits and widen past 99; seconds are always two digits.
func AppendTime(dst []byte, secs uint32) []byte {
	m, s := secs/60, secs%60
	if m < 10 {
		dst = append(dst, '0')
	}
	dst = strconv.AppendUint(dst, uint64(m), 10)
	return append(dst, ':', byte('0'+s/10), byte('0'+s%10))
}

// Compose fills f for the given state. scratch is reused to avoid
// allocating on every tick; the grown buffer is returned.
func Compose(f *Frame, scratch []byte, secs uint32, phase pomodoro.Phase, completed uint32, marker byte) []byte {
	scratch = AppendTime(scratch[:0], secs)
	scratch = append(scratch, ' ')
	scratch = append(scratch, phase.String()...)
	f.setRow(0, scratch)

	n := min(int(completed), Cols)
	scratch = scratch[:0]
	for i := 0; i < n; i++ {
		scratch = append(scratch, marker)
	}
	f.setRow(1, scratch)
	return scratch
}
