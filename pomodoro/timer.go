// Package pomodoro implements the work/break timer state machine.
//
// A Timer is owned by the render loop. The button interrupt handler may call
// RequestReset at any time; every field it touches is a single atomic word,
// so no lock is ever taken from interrupt context.
package pomodoro

import (
	"sync/atomic"
	"time"

	"github.com/harveysanders/picodoro/errcode"
)

// WorkLength is how long a work phase lasts before the timer switches to a break.
const WorkLength = 25 * time.Minute

// Phase is the timer's current mode.
type Phase uint32

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "Break"
	}
	return "Work"
}

// Timer tracks the current phase against a microsecond clock.
// Breaks have no timeout; they end only through a reset.
type Timer struct {
	workLength int64 // µs

	// Shared with the interrupt handler.
	phase          atomic.Uint32
	phaseStart     atomic.Int64 // µs
	resetRequested atomic.Bool

	// Written only by the render loop.
	completed atomic.Uint32
}

// New returns a Timer in the Work phase started at now (µs).
// A non-positive workLength selects WorkLength.
func New(now int64, workLength time.Duration) *Timer {
	if workLength <= 0 {
		workLength = WorkLength
	}
	t := &Timer{workLength: workLength.Microseconds()}
	t.phaseStart.Store(now)
	return t
}

func (t *Timer) Phase() Phase       { return Phase(t.phase.Load()) }
func (t *Timer) PhaseStart() int64  { return t.phaseStart.Load() }
func (t *Timer) Completed() uint32  { return t.completed.Load() }
func (t *Timer) ResetPending() bool { return t.resetRequested.Load() }

func (t *Timer) WorkLength() time.Duration {
	return time.Duration(t.workLength) * time.Microsecond
}

// RequestReset restarts the Work phase at now and flags the reset for the
// render loop. It is safe to call from an interrupt handler: it only performs
// atomic stores, never blocks and never allocates.
func (t *Timer) RequestReset(now int64) {
	t.phaseStart.Store(now)
	t.phase.Store(uint32(Work))
	t.resetRequested.Store(true)
}

// Advance applies the Work timeout. It reports whether the timer moved to
// Break, in which case the completed count grew by one and the break started
// at now. The comparison is strict: exactly WorkLength elapsed is still Work.
func (t *Timer) Advance(now int64) bool {
	if t.Phase() != Work {
		return false
	}
	if now-t.phaseStart.Load() <= t.workLength {
		return false
	}
	t.completed.Add(1)
	t.phaseStart.Store(now)
	t.phase.Store(uint32(Break))
	return true
}

// ConsumeReset applies a pending reset: Work phase starting at now, count
// unchanged, flag cleared. It reports whether a reset was pending.
func (t *Timer) ConsumeReset(now int64) bool {
	if !t.resetRequested.Load() {
		return false
	}
	t.phase.Store(uint32(Work))
	t.phaseStart.Store(now)
	t.resetRequested.Store(false)
	return true
}

// Elapsed returns the time spent in the current phase at now.
// If the clock reads earlier than the phase start, it returns zero together
// with errcode.ClockBackwards.
func (t *Timer) Elapsed(now int64) (time.Duration, error) {
	d := now - t.phaseStart.Load()
	if d < 0 {
		return 0, errcode.ClockBackwards
	}
	return time.Duration(d) * time.Microsecond, nil
}

// ElapsedSeconds is Elapsed truncated to whole seconds.
func (t *Timer) ElapsedSeconds(now int64) (uint32, error) {
	d, err := t.Elapsed(now)
	return uint32(d / time.Second), err
}
