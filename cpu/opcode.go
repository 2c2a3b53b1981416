package cpu

import (
	"fmt"
	"strings"
)

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD = Op(1)  // add
	OP_MUL = Op(2)  // mul
	OP_IN  = Op(3)  // in
	OP_OUT = Op(4)  // out
	OP_JNZ = Op(5)  // jnz
	OP_JZ  = Op(6)  // jz
	OP_LT  = Op(7)  // lt
	OP_EQ  = Op(8)  // eq
	OP_ARB = Op(9)  // arb
	OP_HLT = Op(99) // hlt
)

// Mode is a parameter addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // pos
	MODE_IMMEDIATE = Mode(1) // imm
	MODE_RELATIVE  = Mode(2) // rel
)

// Number of parameters per operation.
var opParams = map[Op]int{
	OP_ADD: 3,
	OP_MUL: 3,
	OP_IN:  1,
	OP_OUT: 1,
	OP_JNZ: 2,
	OP_JZ:  2,
	OP_LT:  3,
	OP_EQ:  3,
	OP_ARB: 1,
	OP_HLT: 0,
}

// Valid returns true if the operation is implemented.
func (op Op) Valid() (ok bool) {
	_, ok = opParams[op]
	return
}

// Params returns the number of parameters that follow the opcode word.
func (op Op) Params() int {
	return opParams[op]
}

// Width returns the number of words the instruction occupies.
func (op Op) Width() int {
	return 1 + opParams[op]
}

// Target returns the index of the parameter written by the operation,
// or -1 if the operation writes no memory.
func (op Op) Target() int {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return 2
	case OP_IN:
		return 0
	}

	return -1
}

// Code is a raw instruction word and its address.
type Code struct {
	Ip   int64
	Word int64
}

// Instruction is a decoded opcode word.
type Instruction struct {
	Op    Op
	Modes [3]Mode
}

// Decode splits an opcode word into its operation and parameter modes.
// Mode digits above the last parameter are ignored.
func Decode(word int64) (ins Instruction, err error) {
	op := Op(word % 100)
	if !op.Valid() {
		err = ErrOpcodeUnimplemented
		return
	}

	ins.Op = op
	modes := word / 100
	for n := range op.Params() {
		mode := Mode(modes % 10)
		modes /= 10
		if mode > MODE_RELATIVE {
			err = ErrModeInvalid
			return
		}
		ins.Modes[n] = mode
	}

	return
}

// Word encodes the instruction back into an opcode word.
func (ins Instruction) Word() (word int64) {
	word = int64(ins.Op)
	scale := int64(100)
	for n := range ins.Op.Params() {
		word += int64(ins.Modes[n]) * scale
		scale *= 10
	}

	return
}

// String returns the operation and modes, ie 'add.imm.rel.pos'
func (ins Instruction) String() string {
	words := []string{ins.Op.String()}
	for n := range ins.Op.Params() {
		words = append(words, ins.Modes[n].String())
	}

	return strings.Join(words, ".")
}

// formatParam renders a parameter in assembler syntax.
func formatParam(mode Mode, value int64) string {
	switch mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("#%d", value)
	case MODE_RELATIVE:
		return fmt.Sprintf("@%d", value)
	}

	return fmt.Sprintf("%d", value)
}

// formatInstruction renders an instruction and its raw parameters in
// assembler syntax.
func formatInstruction(ins Instruction, params []int64) string {
	words := []string{ins.Op.String()}
	for n, value := range params {
		words = append(words, formatParam(ins.Modes[n], value))
	}

	return strings.Join(words, " ")
}
