package io

import (
	"iter"
)

// Rom is a fixed list of values, read in order.
type Rom struct {
	Data []int64

	index int
}

var _ Channel = (*Rom)(nil)

// Rewind restarts reading at the first value.
func (rc *Rom) Rewind() {
	rc.index = 0
}

func (rc *Rom) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for rc.index < len(rc.Data) {
			value := rc.Data[rc.index]
			rc.index++
			if !yield(value) {
				return
			}
		}
	}
}

func (rc *Rom) Send(value int64) error {
	return ErrChannelReadOnly
}
