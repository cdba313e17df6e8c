// Package button delivers presses of the reset button to the timer.
//
// The handler runs in interrupt context. It only stores atomics: it never
// logs, never touches the display and never blocks.
package button

import (
	"sync/atomic"

	"github.com/harveysanders/picodoro/pomodoro"
)

// Pin is an input line that calls handler on its configured edge.
type Pin interface {
	SetIRQ(handler func()) error
}

// Resetter receives reset requests. *pomodoro.Timer implements it.
type Resetter interface {
	RequestReset(now int64)
}

// Source turns edges on a Pin into timer resets.
type Source struct {
	pin     Pin
	target  Resetter
	clock   pomodoro.Clock
	presses atomic.Uint32
}

func New(pin Pin, target Resetter, clock pomodoro.Clock) *Source {
	return &Source{pin: pin, target: target, clock: clock}
}

// Start registers the interrupt handler.
func (s *Source) Start() error {
	return s.pin.SetIRQ(s.handle)
}

// Presses returns how many edges have been delivered since boot.
func (s *Source) Presses() uint32 { return s.presses.Load() }

func (s *Source) handle() {
	s.target.RequestReset(s.clock.Micros())
	s.presses.Add(1)
}
