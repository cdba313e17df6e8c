package lcd

import (
	"strconv"

	"tinygo.org/x/drivers"

	"github.com/harveysanders/picodoro/errcode"
)

// Probe returns the first address in addrs whose backpack acknowledges a
// backlight-only write. If none answers, the error carries
// errcode.BusUnavailable and the last bus error.
func Probe(bus drivers.I2C, addrs []uint16) (uint16, error) {
	var (
		buf     = [1]byte{backlightBit}
		lastErr error
		tried   []byte
	)
	for _, a := range addrs {
		err := bus.Tx(a, buf[:], nil)
		if err == nil {
			return a, nil
		}
		lastErr = err
		if len(tried) > 0 {
			tried = append(tried, ", "...)
		}
		tried = append(tried, "0x"...)
		tried = strconv.AppendUint(tried, uint64(a), 16)
	}
	return 0, &errcode.E{
		C:   errcode.BusUnavailable,
		Op:  "lcd.Probe",
		Msg: "no LCD found on addresses: " + string(tried),
		Err: lastErr,
	}
}
