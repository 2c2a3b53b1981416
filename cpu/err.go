package cpu

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted          = errors.New(f("machine halted"))
	ErrInputStarved    = errors.New(f("input starved"))
	ErrNegativeAddress = errors.New(f("negative address"))

	// Instruction decode errors
	ErrOpcodeUnimplemented = errors.New(f("unimplemented opcode"))
	ErrModeInvalid         = errors.New(f("parameter mode invalid"))
	ErrWriteImmediate      = errors.New(f("write to immediate parameter"))

	// Snapshot errors
	ErrSnapshot        = errors.New(f("snapshot"))
	ErrSnapshotInvalid = errors.New(f("snapshot invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrDataEmpty          = errors.New(f(".data without values"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrQuoteUnterminated  = errors.New(f("unterminated quote"))
)

// ErrOpcode locates a failing instruction.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v at %v", strconv.FormatInt(eo.Word, 10), fmt.Sprintf("%04d", eo.Ip))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax reports a malformed program text token.
type ErrSyntax struct {
	Index int
	Token string
	Err   error
}

func (err *ErrSyntax) Error() string {
	return f("token %v '%v' %v", strconv.Itoa(err.Index), err.Token, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value, label or equate", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrAsmSyntax locates an assembler error in the source text.
type ErrAsmSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrAsmSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *ErrAsmSyntax) Unwrap() error {
	return err.Err
}
