package emulator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrChainEmpty  = errors.New(f("chain has no stages"))
	ErrStageHalted = errors.New(f("stage halted without output"))
	ErrSearchEmpty = errors.New(f("search program is empty"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip  int64
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("ip %v %v", fmt.Sprintf("%04d", err.Ip), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrStage indicates which stage of a chain failed.
type ErrStage struct {
	Stage int
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %v %v", strconv.Itoa(err.Stage), err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
