//go:build rp2040 || rp2350

package button

import "machine"

// MachinePin is a pulled-up input that fires on the falling edge, for a
// button that grounds the line when pressed.
type MachinePin struct {
	machine.Pin
}

func (p MachinePin) SetIRQ(handler func()) error {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return p.SetInterrupt(machine.PinFalling, func(machine.Pin) { handler() })
}
