package emulator

import (
	"github.com/ezrec/intcode/cpu"
)

const (
	SEARCH_NOT_FOUND  = int64(-1) // Result when no trial matches.
	SEARCH_LIMIT      = int64(100)
	SEARCH_TICK_LIMIT = 1 << 16 // Trials still running after this many ticks never match.
)

// Search tries every noun and verb in [0, limit), running program fresh for
// each pair, and returns 100*noun+verb for the first pair that leaves target
// at address 0. A limit of zero or less searches the default range.
func Search(program []int64, target int64, limit int64) (result int64, err error) {
	result = SEARCH_NOT_FOUND

	if len(program) == 0 {
		err = ErrSearchEmpty
		return
	}

	if limit <= 0 {
		limit = SEARCH_LIMIT
	}

	m := cpu.NewMachine(program)
	for noun := range limit {
		for verb := range limit {
			m.Init(noun, verb)
			if !trial(m) {
				continue
			}
			value, _ := m.Read(0)
			if value == target {
				result = 100*noun + verb
				return
			}
		}
	}

	return
}

// trial runs the machine, returning true if it halted cleanly.
func trial(m *cpu.Machine) bool {
	for range SEARCH_TICK_LIMIT {
		event, err := m.Step()
		if err != nil {
			return false
		}
		if event == cpu.EVENT_HALT {
			return true
		}
	}

	return false
}
