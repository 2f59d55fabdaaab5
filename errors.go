package timerq

import (
	"errors"
)

// Standard errors.
var (
	// ErrInvalidTime is returned when a wakeup spec is NaN.
	ErrInvalidTime = errors.New("timerq: invalid time")

	// ErrNotFound is returned by update-only scheduling against a key with no
	// existing timer.
	ErrNotFound = errors.New("timerq: timer not found")

	// ErrPermissionDenied is returned by create-only scheduling against a key
	// that already has a timer.
	ErrPermissionDenied = errors.New("timerq: timer already exists")
)
