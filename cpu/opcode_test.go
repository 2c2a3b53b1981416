package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word  int64
		ins   Instruction
		text  string
		width int
	}){
		{1, Instruction{Op: OP_ADD}, "add.pos.pos.pos", 4},
		{1002, Instruction{OP_MUL, [3]Mode{MODE_POSITION, MODE_IMMEDIATE, MODE_POSITION}}, "mul.pos.imm.pos", 4},
		{203, Instruction{OP_IN, [3]Mode{MODE_RELATIVE}}, "in.rel", 2},
		{104, Instruction{OP_OUT, [3]Mode{MODE_IMMEDIATE}}, "out.imm", 2},
		{1105, Instruction{OP_JNZ, [3]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE}}, "jnz.imm.imm", 3},
		{6, Instruction{Op: OP_JZ}, "jz.pos.pos", 3},
		{21107, Instruction{OP_LT, [3]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE, MODE_RELATIVE}}, "lt.imm.imm.rel", 4},
		{8, Instruction{Op: OP_EQ}, "eq.pos.pos.pos", 4},
		{109, Instruction{OP_ARB, [3]Mode{MODE_IMMEDIATE}}, "arb.imm", 2},
		{99, Instruction{Op: OP_HLT}, "hlt", 1},
		{1199, Instruction{Op: OP_HLT}, "hlt", 1},
	}

	for _, entry := range table {
		ins, err := Decode(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.ins, ins, entry.word)
		assert.Equal(entry.text, ins.String(), entry.word)
		assert.Equal(entry.width, ins.Op.Width(), entry.word)
	}
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []int64{0, 10, 42, 98, 100, -1, -99} {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrOpcodeUnimplemented, word)
	}

	for _, word := range []int64{301, 1401, 304, 32201} {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrModeInvalid, word)
	}
}

func TestInstructionWord(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []int64{1, 1002, 203, 104, 1105, 21107, 109, 99, 22201} {
		ins, err := Decode(word)
		assert.NoError(err)
		assert.Equal(word, ins.Word())
	}
}

func TestOp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, OP_ADD.Target())
	assert.Equal(0, OP_IN.Target())
	assert.Equal(-1, OP_OUT.Target())
	assert.Equal(-1, OP_JNZ.Target())
	assert.False(Op(10).Valid())
	assert.Equal("Op(10)", Op(10).String())
	assert.Equal("Mode(5)", Mode(5).String())
}
