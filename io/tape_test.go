package io

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func receiveAll(ch Channel) (values []int64) {
	for value := range ch.Receive() {
		values = append(values, value)
	}
	return
}

func TestTapeReceive(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		input    string
		expected []int64
	}){
		{"", nil},
		{"5", []int64{5}},
		{"1,2,3\n", []int64{1, 2, 3}},
		{"  -7 \n\n 8,\t9  ", []int64{-7, 8, 9}},
		{"1219070632396864", []int64{1219070632396864}},
	}

	for _, entry := range table {
		tape := &Tape{Input: strings.NewReader(entry.input)}
		assert.Equal(entry.expected, receiveAll(tape), entry.input)
		assert.NoError(tape.Err(), entry.input)
	}
}

func TestTapeReceiveAscii(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("Hi\n"), Ascii: true}

	assert.Equal([]int64{'H', 'i', '\n'}, receiveAll(tape))
	assert.NoError(tape.Err())
}

func TestTapeReceiveEarlyStop(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("10 20 30")}

	for value := range tape.Receive() {
		assert.Equal(int64(10), value)
		break
	}

	assert.Equal([]int64{20, 30}, receiveAll(tape))

	// Rewind is not possible on a tape.
	tape.Rewind()
	assert.Nil(receiveAll(tape))
}

func TestTapeReceiveError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1 two 3")}
	assert.Equal([]int64{1}, receiveAll(tape))
	assert.Equal(ErrTapeValue("two"), tape.Err())

	// Stays stopped.
	assert.Nil(receiveAll(tape))

	tape = &Tape{Input: &errorReader{}}
	assert.Nil(receiveAll(tape))
	assert.ErrorIs(tape.Err(), io.ErrUnexpectedEOF)
}

type errorReader struct{}

func (er *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestTapeSend(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(tape.Send(3500))
	assert.NoError(tape.Send(-1))
	assert.Equal("3500\n-1\n", output.String())

	output.Reset()
	tape.Ascii = true
	for _, value := range []int64{'o', 'k', '\n', 1000} {
		assert.NoError(tape.Send(value))
	}
	assert.Equal("ok\n1000\n", output.String())

	// No output stream discards.
	assert.NoError((&Tape{}).Send(1))
}
