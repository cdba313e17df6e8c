// Package errcode defines the stable error identifiers used across the firmware.
package errcode

import "errors"

// Code is a comparable, allocation-free error identifier.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK Code = "ok"

	BusUnavailable        Code = "bus_unavailable"
	InvalidCursorPosition Code = "invalid_cursor_position"
	ClockBackwards        Code = "clock_backwards"
	InvalidParams         Code = "invalid_params"

	Error Code = "error" // generic fallback
)

// E wraps a Code with the failing operation, a message and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, code) match a wrapped E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap returns an *E for op carrying code c and cause err.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}
