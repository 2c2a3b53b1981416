// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Emulator state. Machine + IO channels.
type Emulator struct {
	Verbose      bool // If set, enables verbose logging.
	*cpu.Machine      // Reference to the machine simulation.

	Input  io.Channel // Source of values for input instructions.
	Output io.Channel // Destination of output values.
}

// NewEmulator creates a new emulator running program.
func NewEmulator(program []int64) (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(program),
	}

	return
}

// Reset the machine, and rewind the channels.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()

	if emu.Input != nil {
		emu.Input.Rewind()
	}
	if emu.Output != nil {
		emu.Output.Rewind()
	}
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code) {
	code.Ip = emu.Machine.Ip
	code.Word, _ = emu.Machine.Read(code.Ip)
	return
}

// inputErr is an input channel that can stop on an error, like io.Tape.
type inputErr interface {
	Err() error
}

// feed moves one value from the input channel to the machine.
func (emu *Emulator) feed() bool {
	if emu.Input == nil {
		return false
	}

	for value := range emu.Input.Receive() {
		if emu.Verbose {
			log.Printf("intcode: input %d", value)
		}
		emu.Machine.Push(value)
		return true
	}

	return false
}

// Tick runs the machine until it produces its next output, which is sent to
// the output channel. When the machine is starved, one value is taken from
// the input channel and execution resumes; if the input channel is exhausted
// the cpu.ErrInputStarved error is returned, and the emulator may be ticked
// again once more input is available. If the input channel stopped on an
// error, that error is returned instead. done is set once the machine halts.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: emu.Machine.Ip, Err: err}
		}
	}()

	for {
		var value int64
		var ok bool
		value, ok, err = emu.Machine.RunToOutput()
		if errors.Is(err, cpu.ErrInputStarved) {
			if emu.feed() {
				continue
			}
			// A broken input stream is not recoverable starvation.
			if in, ok := emu.Input.(inputErr); ok && in.Err() != nil {
				err = in.Err()
			}
		}
		if err != nil {
			return
		}

		if !ok {
			done = true
			return
		}

		if emu.Output != nil {
			err = emu.Output.Send(value)
		}

		return
	}
}

// Run ticks the emulator until the machine halts.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
