package io

import (
	"iter"
)

// PIPE_CAPACITY is the capacity of a Pipe with no Capacity set.
const PIPE_CAPACITY = 1024

// Pipe implements a circular buffer of values.
// It operates as a FIFO queue with a fixed capacity and separate read/write positions.
type Pipe struct {
	Capacity int // Capacity in values.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []int64
}

var _ Channel = (*Pipe)(nil)

// Rewind resets the pipe to empty, resetting indices and
// reinitializing the data buffer.
func (pipe *Pipe) Rewind() {
	if pipe.Capacity <= 0 {
		pipe.Capacity = PIPE_CAPACITY
	}
	pipe.ReadIndex = 0
	pipe.WriteIndex = 0
	pipe.Size = 0
	pipe.Data = make([]int64, pipe.Capacity)
}

// Len returns the number of buffered values.
func (pipe *Pipe) Len() int {
	return pipe.Size
}

// Receive returns an iterator that yields values from the buffer until empty.
// The buffer wraps around at the capacity boundary.
func (pipe *Pipe) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for pipe.Size > 0 {
			value := pipe.Data[pipe.ReadIndex]
			pipe.ReadIndex++
			if pipe.ReadIndex == len(pipe.Data) {
				pipe.ReadIndex = 0
			}
			pipe.Size--
			if !yield(value) {
				return
			}
		}
	}
}

// Send writes a value to the buffer at the current write position.
// Returns ErrChannelFull if the buffer has reached capacity.
func (pipe *Pipe) Send(value int64) (err error) {
	if pipe.Data == nil {
		pipe.Rewind()
	}

	if pipe.Size >= len(pipe.Data) {
		err = ErrChannelFull
		return
	}

	pipe.Data[pipe.WriteIndex] = value

	pipe.WriteIndex++
	if pipe.WriteIndex == len(pipe.Data) {
		pipe.WriteIndex = 0
	}
	pipe.Size++

	return
}
