package cpu

import (
	"iter"
	"slices"
)

// Queue is a FIFO of machine values.
type Queue struct {
	Data []int64
}

// Push appends values to the tail of the queue.
func (q *Queue) Push(values ...int64) {
	q.Data = append(q.Data, values...)
}

// Pop removes the value at the head of the queue.
func (q *Queue) Pop() (value int64, ok bool) {
	value, ok = q.Peek()
	if ok {
		q.Data = q.Data[1:]
	}
	return
}

// Peek returns the value at the head of the queue.
func (q *Queue) Peek() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

// Last returns the value at the tail of the queue.
func (q *Queue) Last() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[len(q.Data)-1], true
}

func (q *Queue) Len() int {
	return len(q.Data)
}

func (q *Queue) Empty() bool {
	return len(q.Data) == 0
}

func (q *Queue) Reset() {
	q.Data = nil
}

// Values iterates the queue from head to tail without consuming it.
func (q *Queue) Values() iter.Seq[int64] {
	return slices.Values(q.Data)
}
