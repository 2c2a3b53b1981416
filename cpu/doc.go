// Package cpu implements the Intcode machine and its assembler.
//
// A Machine holds a dense copy of its program, a sparse overflow region for
// addresses past the end of the program, an instruction pointer, a relative
// base register, and FIFO input and output queues. Execution may be driven
// to completion or paused after every output, which lets several machines be
// chained together by a driver that moves values between their queues.
//
// An empty input queue is not fatal: the machine reports ErrInputStarved,
// leaves the instruction pointer on the input instruction, and resumes once
// more input has been pushed.
//
// The assembler accepts a small mnemonic language with labels, equates and
// compile-time expressions, and Disassemble renders a program back into it.
package cpu
