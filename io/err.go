package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull     = errors.New(f("channel full"))
	ErrChannelReadOnly = errors.New(f("channel read-only"))
)

// ErrTapeValue indicates a tape token that is not a decimal integer.
type ErrTapeValue string

func (err ErrTapeValue) Error() string {
	return f("tape value '%v' is not an integer", string(err))
}
