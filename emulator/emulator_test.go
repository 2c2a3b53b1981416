package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

var echoLoop = []int64{3, 10, 4, 10, 1105, 1, 0, 99}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator([]int64{99})

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.Equal(cpu.STATUS_READY, emu.Status())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.True(emu.Halted())
}

func TestEmulatorChannels(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(echoLoop)
	rom := &io.Rom{Data: []int64{1, 2, 3}}
	pipe := &io.Pipe{Capacity: 8}
	emu.Input = rom
	emu.Output = pipe
	emu.Reset()

	for range 3 {
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}
	assert.Equal([]int64{1, 2, 3}, pipe.Data[:pipe.Len()])

	// The echo loop waits for more input.
	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrInputStarved)
	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(int64(0), rt.Ip)
	assert.Equal(cpu.Code{Ip: 0, Word: 3}, emu.Code())

	// Resumes once input is available.
	rom.Data = append(rom.Data, 4)
	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(4, pipe.Len())
	last, ok := emu.LastOutput()
	assert.True(ok)
	assert.Equal(int64(4), last)

	// Reset rewinds the channels.
	emu.Reset()
	assert.Equal(0, pipe.Len())
	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal([]int64{1}, emu.Outputs())
}

func TestEmulatorTape(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator([]int64{3, 20, 3, 21, 1, 20, 21, 22, 4, 22, 99})
	output := &bytes.Buffer{}
	emu.Input = &io.Tape{Input: strings.NewReader("5, 6\n")}
	emu.Output = &io.Tape{Output: output}

	assert.NoError(emu.Run())
	assert.True(emu.Halted())
	assert.Equal("11\n", output.String())
}

func TestEmulatorTapeAscii(t *testing.T) {
	assert := assert.New(t)

	// Echo until a newline.
	program := []int64{
		3, 100, // in 100
		4, 100, // out 100
		1008, 100, 10, 101, // eq 100 #10 101
		1006, 101, 0, // jz 101 #0
		99,
	}

	emu := NewEmulator(program)
	output := &bytes.Buffer{}
	emu.Input = &io.Tape{Input: strings.NewReader("hey\nignored"), Ascii: true}
	emu.Output = &io.Tape{Output: output, Ascii: true}

	assert.NoError(emu.Run())
	assert.Equal("hey\n", output.String())
}

func TestEmulatorErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program  []int64
		ip       int64
		expected error
	}){
		{[]int64{98}, 0, cpu.ErrOpcodeUnimplemented},
		{[]int64{1101, 1, 1, 5, 1103, 0}, 4, cpu.ErrWriteImmediate},
		{[]int64{3, 0, 99}, 0, cpu.ErrInputStarved},
	}

	for _, entry := range table {
		emu := NewEmulator(entry.program)
		err := emu.Run()
		assert.ErrorIs(err, entry.expected)
		var rt *ErrRuntime
		if assert.True(errors.As(err, &rt)) {
			assert.Equal(entry.ip, rt.Ip)
		}
	}

	// Output channel errors stop the run.
	emu := NewEmulator([]int64{104, 1, 99})
	emu.Output = &io.Rom{}
	assert.ErrorIs(emu.Run(), io.ErrChannelReadOnly)
}

func TestEmulatorTapeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(echoLoop)
	emu.Input = &io.Tape{Input: strings.NewReader("1 x 3")}
	emu.Output = &io.Pipe{}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	// A malformed token stops the run, and is not starvation.
	done, err = emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, io.ErrTapeValue("x"))
	assert.False(errors.Is(err, cpu.ErrInputStarved))
	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(int64(0), rt.Ip)
	}
}

func TestErrorText(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Ip: 2, Err: cpu.ErrInputStarved}
	assert.Equal("ip 0002 input starved", err.Error())

	err = &ErrRuntime{Ip: 12345, Err: cpu.ErrInputStarved}
	assert.Equal("ip 12345 input starved", err.Error())

	stage := &ErrStage{Stage: 1234, Err: ErrStageHalted}
	assert.Equal("stage 1234 stage halted without output", stage.Error())
}
