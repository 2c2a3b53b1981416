package cpu

import (
	"fmt"
	"iter"
)

// Disassemble iterates the program, yielding the address and assembler text
// of each instruction. Words that do not decode to an instruction the
// Assembler would produce identically are yielded as '.data' lines, so the
// text always assembles back into the same program.
func Disassemble(program []int64) iter.Seq2[int64, string] {
	return func(yield func(ip int64, text string) bool) {
		for ip := 0; ip < len(program); {
			word := program[ip]
			ins, err := Decode(word)
			width := ins.Op.Width()

			exact := err == nil && ins.Word() == word && ip+width <= len(program)
			if exact {
				target := ins.Op.Target()
				exact = target < 0 || ins.Modes[target] != MODE_IMMEDIATE
			}

			if !exact {
				if !yield(int64(ip), fmt.Sprintf(".data %d", word)) {
					return
				}
				ip++
				continue
			}

			if !yield(int64(ip), formatInstruction(ins, program[ip+1:ip+width])) {
				return
			}
			ip += width
		}
	}
}
