package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode"
)

// Tape provides sequential text I/O for values.
//
// In decimal mode, input is whitespace or comma separated integers and each
// output value is written on its own line. In Ascii mode, every input byte
// is a value, and output values in 0..127 are written as characters, with
// anything larger written as a decimal line.
type Tape struct {
	Input  io.Reader
	Output io.Writer
	Ascii  bool

	reader *bufio.Reader
	source io.Reader
	err    error
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Err returns the first error that stopped reading, if it was not io.EOF.
func (tc *Tape) Err() error {
	return tc.err
}

// input returns a buffered reader over the current Input.
func (tc *Tape) input() *bufio.Reader {
	if tc.Input != tc.source {
		tc.source = tc.Input
		tc.reader = nil
		if tc.Input != nil {
			tc.reader = bufio.NewReader(tc.Input)
		}
	}

	return tc.reader
}

// Receive returns an iterator that yields values from the input stream.
// Iteration ends at the end of input, or at a read or parse error
// which is then available from Err.
func (tc *Tape) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		reader := tc.input()
		if reader == nil || tc.err != nil {
			return
		}
		for {
			value, err := tc.next(reader)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					tc.err = err
				}
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

// next reads the next value from the reader.
func (tc *Tape) next(reader *bufio.Reader) (value int64, err error) {
	if tc.Ascii {
		var b byte
		b, err = reader.ReadByte()
		value = int64(b)
		return
	}

	var token strings.Builder
	for {
		var r rune
		r, _, err = reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && token.Len() > 0 {
				err = nil
				break
			}
			return
		}
		if unicode.IsSpace(r) || r == ',' {
			if token.Len() > 0 {
				break
			}
			continue
		}
		token.WriteRune(r)
	}

	value, err = strconv.ParseInt(token.String(), 10, 64)
	if err != nil {
		err = ErrTapeValue(token.String())
	}

	return
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		return
	}

	if tc.Ascii && value >= 0 && value < 128 {
		_, err = tc.Output.Write([]byte{byte(value)})
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
