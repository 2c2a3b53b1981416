// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/intcode/translate"
)

// Status is the execution state of a machine.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_READY          = Status(0) // ready
	STATUS_RUNNING        = Status(1) // running
	STATUS_AWAITING_INPUT = Status(2) // awaiting
	STATUS_HALTED         = Status(3) // halted
)

// Event is the observable result of a single step.
type Event int

//go:generate go tool stringer -linecomment -type=Event
const (
	EVENT_NONE    = Event(0) // none
	EVENT_OUTPUT  = Event(1) // output
	EVENT_HALT    = Event(2) // halt
	EVENT_BLOCKED = Event(3) // blocked
)

// Machine is the simulation context for a single Intcode program.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Ip           int64  // Current instruction pointer.
	RelativeBase int64  // Base for relative mode parameters.
	Memory       Memory // Program store.
	Input        Queue  // Values consumed by input instructions.
	Output       Queue  // Values produced by output instructions.

	Ticks int // Executed instruction counter.

	status  Status
	program []int64 // Source program, for Reset.
}

// NewMachine creates a machine running a private copy of program.
func NewMachine(program []int64) (m *Machine) {
	m = &Machine{
		program: slices.Clone(program),
	}

	m.Reset()

	return
}

// NewMachineFromText parses program text and creates a machine running it.
func NewMachineFromText(text string) (m *Machine, err error) {
	program, err := ParseProgram(text)
	if err != nil {
		return
	}

	m = NewMachine(program)

	return
}

// Reset restores the source program and clears registers, queues and status.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("intcode: reset")
	}

	m.Ip = 0
	m.RelativeBase = 0
	m.Memory = NewMemory(m.program)
	m.Input.Reset()
	m.Output.Reset()
	m.Ticks = 0
	m.status = STATUS_READY
}

// Init resets the machine, then overrides addresses 1 and 2.
func (m *Machine) Init(noun, verb int64) {
	m.Reset()

	// Non-negative addresses never fail.
	_ = m.Memory.Write(1, noun)
	_ = m.Memory.Write(2, verb)
}

// Program returns a copy of the source program.
func (m *Machine) Program() []int64 {
	return slices.Clone(m.program)
}

// Status returns the execution status.
func (m *Machine) Status() Status {
	return m.status
}

// Halted returns true once a halt instruction has executed.
func (m *Machine) Halted() bool {
	return m.status == STATUS_HALTED
}

// Push appends values to the input queue. It never executes instructions.
func (m *Machine) Push(values ...int64) {
	m.Input.Push(values...)
}

// Read returns the memory value at addr.
func (m *Machine) Read(addr int64) (value int64, err error) {
	return m.Memory.Read(addr)
}

// Write sets the memory value at addr.
func (m *Machine) Write(addr int64, value int64) (err error) {
	return m.Memory.Write(addr, value)
}

// LastOutput returns the most recently produced output.
func (m *Machine) LastOutput() (value int64, ok bool) {
	return m.Output.Last()
}

// Outputs returns a copy of all produced output.
func (m *Machine) Outputs() []int64 {
	return slices.Clone(m.Output.Data)
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := []string{"ip", "base", "status", "ticks", "input", "output"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%04d", m.Ip)
			word, err := m.Memory.Read(m.Ip)
			if err == nil {
				ins, err := Decode(word)
				if err == nil {
					strval += " " + ins.String()
				}
			}
		case "base":
			strval = fmt.Sprintf("%d", m.RelativeBase)
		case "status":
			strval = m.status.String()
		case "ticks":
			strval = translate.Count(int64(m.Ticks))
		case "input":
			strval = fmt.Sprintf("%v", m.Input.Data)
		case "output":
			strval = fmt.Sprintf("%v", m.Output.Data)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Step executes a single instruction.
//
// An input instruction with an empty input queue returns EVENT_BLOCKED and
// ErrInputStarved without changing any state except the status, so the same
// instruction is retried on the next step.
func (m *Machine) Step() (event Event, err error) {
	if m.status == STATUS_HALTED {
		err = ErrHalted
		return
	}

	m.status = STATUS_RUNNING

	code := Code{Ip: m.Ip}
	defer func() {
		if err != nil && err != ErrInputStarved {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	code.Word, err = m.Memory.Read(m.Ip)
	if err != nil {
		return
	}

	ins, err := Decode(code.Word)
	if err != nil {
		return
	}

	if m.Verbose {
		params := make([]int64, ins.Op.Params())
		for n := range params {
			params[n], _ = m.Memory.Read(m.Ip + 1 + int64(n))
		}
		log.Printf("%04d: %v", m.Ip, formatInstruction(ins, params))
	}

	next_ip := m.Ip + int64(ins.Op.Width())

	switch ins.Op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b, dst int64
		a, err = m.param(ins, 0)
		if err != nil {
			return
		}
		b, err = m.param(ins, 1)
		if err != nil {
			return
		}
		dst, err = m.target(ins, 2)
		if err != nil {
			return
		}
		var value int64
		switch ins.Op {
		case OP_ADD:
			value = a + b
		case OP_MUL:
			value = a * b
		case OP_LT:
			if a < b {
				value = 1
			}
		case OP_EQ:
			if a == b {
				value = 1
			}
		}
		err = m.Memory.Write(dst, value)
		if err != nil {
			return
		}
	case OP_IN:
		var dst int64
		dst, err = m.target(ins, 0)
		if err != nil {
			return
		}
		value, ok := m.Input.Pop()
		if !ok {
			if m.Verbose {
				log.Printf("%04d: awaiting input", m.Ip)
			}
			m.status = STATUS_AWAITING_INPUT
			event = EVENT_BLOCKED
			err = ErrInputStarved
			return
		}
		err = m.Memory.Write(dst, value)
		if err != nil {
			return
		}
	case OP_OUT:
		var value int64
		value, err = m.param(ins, 0)
		if err != nil {
			return
		}
		m.Output.Push(value)
		event = EVENT_OUTPUT
	case OP_JNZ, OP_JZ:
		var cond, addr int64
		cond, err = m.param(ins, 0)
		if err != nil {
			return
		}
		addr, err = m.param(ins, 1)
		if err != nil {
			return
		}
		if (cond != 0) == (ins.Op == OP_JNZ) {
			next_ip = addr
		}
	case OP_ARB:
		var offset int64
		offset, err = m.param(ins, 0)
		if err != nil {
			return
		}
		m.RelativeBase += offset
	case OP_HLT:
		// The instruction pointer stays on the halt.
		next_ip = m.Ip
		event = EVENT_HALT
	}

	m.Ip = next_ip
	m.Ticks++

	if event == EVENT_HALT {
		m.status = STATUS_HALTED
	} else {
		m.status = STATUS_RUNNING
	}

	return
}

// param fetches the value of parameter n.
func (m *Machine) param(ins Instruction, n int) (value int64, err error) {
	raw, err := m.Memory.Read(m.Ip + 1 + int64(n))
	if err != nil {
		return
	}

	switch ins.Modes[n] {
	case MODE_IMMEDIATE:
		value = raw
	case MODE_RELATIVE:
		value, err = m.Memory.Read(raw + m.RelativeBase)
	default:
		value, err = m.Memory.Read(raw)
	}

	return
}

// target resolves the address written by parameter n.
func (m *Machine) target(ins Instruction, n int) (addr int64, err error) {
	raw, err := m.Memory.Read(m.Ip + 1 + int64(n))
	if err != nil {
		return
	}

	switch ins.Modes[n] {
	case MODE_IMMEDIATE:
		err = ErrWriteImmediate
		return
	case MODE_RELATIVE:
		addr = raw + m.RelativeBase
	default:
		addr = raw
	}

	if addr < 0 {
		err = ErrNegativeAddress
	}

	return
}

// Run executes until the machine halts.
func (m *Machine) Run() (err error) {
	_, _, err = m.exec(false)
	return
}

// RunToOutput executes until exactly one new value has been output, and
// returns it. If the machine halts first, ok is false.
func (m *Machine) RunToOutput() (value int64, ok bool, err error) {
	return m.exec(true)
}

// exec steps until halted, or until the first output if pause is set.
func (m *Machine) exec(pause bool) (value int64, ok bool, err error) {
	for m.status != STATUS_HALTED {
		var event Event
		event, err = m.Step()
		if err != nil {
			return
		}
		if pause && event == EVENT_OUTPUT {
			value, ok = m.Output.Last()
			return
		}
	}

	return
}
