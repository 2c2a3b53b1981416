package cpu

import (
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/intcode/internal"
)

// Memory is the machine's address space: a dense copy of the program
// followed by a sparse overflow region. Unwritten addresses read as zero.
type Memory struct {
	dense  []int64
	sparse map[int64]int64
}

// NewMemory creates memory initialized with a copy of the program.
func NewMemory(program []int64) Memory {
	return Memory{dense: slices.Clone(program)}
}

// Len returns the length of the dense region.
func (mem *Memory) Len() int {
	return len(mem.dense)
}

// Read returns the value at addr.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	switch {
	case addr < 0:
		err = ErrNegativeAddress
	case addr < int64(len(mem.dense)):
		value = mem.dense[addr]
	default:
		value = mem.sparse[addr]
	}

	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	switch {
	case addr < 0:
		err = ErrNegativeAddress
	case addr < int64(len(mem.dense)):
		mem.dense[addr] = value
	default:
		if mem.sparse == nil {
			mem.sparse = make(map[int64]int64)
		}
		mem.sparse[addr] = value
	}

	return
}

// Clone returns an independent copy of the memory.
func (mem *Memory) Clone() Memory {
	return Memory{
		dense:  slices.Clone(mem.dense),
		sparse: maps.Clone(mem.sparse),
	}
}

// All iterates the dense region, then every written overflow address in
// ascending order.
func (mem *Memory) All() iter.Seq2[int64, int64] {
	dense := func(yield func(addr int64, value int64) bool) {
		for n, value := range mem.dense {
			if !yield(int64(n), value) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(dense, internal.IterMapSorted(mem.sparse))
}
