package render

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/picodoro/pomodoro"
)

// DefaultTick is the render period.
const DefaultTick = 200 * time.Millisecond

// Surface is the character grid the loop draws on.
type Surface interface {
	Clear() error
	SetCursor(row, col int) error
	WriteChar(c byte) error
}

type Config struct {
	Tick   time.Duration
	Marker byte
	Logger *slog.Logger
	// OnPhase, if set, is called from Step whenever the observed phase
	// changes, and once on the first Step.
	OnPhase func(pomodoro.Phase)
	// OnReset, if set, is called from Step after a pending reset was applied.
	OnReset func()
}

// Loop polls the timer once per tick and redraws the changed cells.
type Loop struct {
	timer   *pomodoro.Timer
	clock   pomodoro.Clock
	surface Surface
	log     *slog.Logger
	tick    time.Duration
	marker  byte
	onPhase func(pomodoro.Phase)
	onReset func()
	sleep   func(time.Duration)

	prev, next Frame
	scratch    []byte

	started bool
	phase   pomodoro.Phase
}

func New(timer *pomodoro.Timer, clock pomodoro.Clock, surface Surface, cfg Config) *Loop {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Marker == 0 {
		cfg.Marker = DefaultMarker
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Loop{
		timer:   timer,
		clock:   clock,
		surface: surface,
		log:     logger,
		tick:    cfg.Tick,
		marker:  cfg.Marker,
		onPhase: cfg.OnPhase,
		onReset: cfg.OnReset,
		sleep:   time.Sleep,
		scratch: make([]byte, 0, 2*Cols),
	}
}

// Previous returns the frame the loop believes is on the display.
func (l *Loop) Previous() Frame { return l.prev }

// Run calls Step every tick. The sleep between ticks is fixed and not
// shortened by the time Step took. Run returns only when ctx is done,
// which is checked between ticks.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		l.Step()
		l.sleep(l.tick)
	}
}

// Step performs one tick without sleeping and returns the number of cells
// written to the surface.
func (l *Loop) Step() int {
	now := l.clock.Micros()

	if l.timer.Advance(now) {
		l.log.Info("pomodoro:phase",
			slog.String("phase", pomodoro.Break.String()),
			slog.Uint64("completed", uint64(l.timer.Completed())),
		)
	}

	if l.timer.ResetPending() {
		if err := l.surface.Clear(); err != nil {
			l.log.Error("lcd:clear-failed", slog.String("err", err.Error()))
		}
		l.prev = Frame{}
		l.timer.ConsumeReset(now)
		l.log.Info("pomodoro:reset", slog.Uint64("completed", uint64(l.timer.Completed())))
		if l.onReset != nil {
			l.onReset()
		}
	}

	phase := l.timer.Phase()
	if !l.started || phase != l.phase {
		l.started = true
		l.phase = phase
		if l.onPhase != nil {
			l.onPhase(phase)
		}
	}

	secs, err := l.timer.ElapsedSeconds(now)
	if err != nil {
		l.log.Warn("pomodoro:clock-backwards",
			slog.Int64("now", now),
			slog.Int64("phaseStart", l.timer.PhaseStart()),
		)
	}

	l.scratch = Compose(&l.next, l.scratch, secs, phase, l.timer.Completed(), l.marker)
	return l.draw()
}

// draw writes every cell of next that differs from prev. Cells past the end
// of a row are not visited. A cell whose write failed keeps its previous
// value so it is retried on the next tick.
func (l *Loop) draw() int {
	var (
		written int
		failed  int
		first   error
	)
	for r := 0; r < Rows; r++ {
		row := l.next.Row(r)
		for c, ch := range row {
			if ch == l.prev[r][c] {
				continue
			}
			err := l.surface.SetCursor(r, c)
			if err == nil {
				err = l.surface.WriteChar(ch)
			}
			if err != nil {
				if first == nil {
					first = err
				}
				failed++
				continue
			}
			l.prev[r][c] = ch
			written++
		}
		clear(l.prev[r][len(row):])
	}
	if first != nil {
		l.log.Error("lcd:write-failed",
			slog.Int("failed", failed),
			slog.String("err", first.Error()),
		)
	}
	return written
}
