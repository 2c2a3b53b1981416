// Package io provides value channels for feeding and draining Intcode
// machines. It includes a bounded FIFO (Pipe), a read-only list of
// values (Rom) and a text stream (Tape).
package io

import (
	"iter"
)

// Channel defines the interface for all I/O channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields values from the channel.
	// Stopping the iteration early consumes only the values yielded.
	Receive() iter.Seq[int64]
	// Send writes a single value to the channel.
	Send(value int64) error
}
