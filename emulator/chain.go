package emulator

import (
	"log"
	"slices"

	"github.com/ezrec/intcode/cpu"
)

// Chain is a series of machines running the same program, each primed
// with its own phase value, where the output of each stage is the input
// of the next.
type Chain struct {
	Verbose bool           // If set, enables verbose logging.
	Stages  []*cpu.Machine // Machines, in signal order.

	phases []int64
}

// NewChain creates a chain with one stage per phase.
func NewChain(program []int64, phases []int64) (ch *Chain) {
	ch = &Chain{
		Stages: make([]*cpu.Machine, len(phases)),
		phases: slices.Clone(phases),
	}

	for n := range phases {
		ch.Stages[n] = cpu.NewMachine(program)
	}

	ch.Reset()

	return
}

// Reset every stage, and prime it with its phase.
func (ch *Chain) Reset() {
	for n, stage := range ch.Stages {
		stage.Verbose = ch.Verbose
		stage.Reset()
		stage.Push(ch.phases[n])
	}
}

// pass moves signal through every stage once.
func (ch *Chain) pass(signal int64) (out int64, halted bool, err error) {
	out = signal
	for n, stage := range ch.Stages {
		stage.Push(out)

		var ok bool
		out, ok, err = stage.RunToOutput()
		if err != nil {
			err = &ErrStage{Stage: n, Err: &ErrRuntime{Ip: stage.Ip, Err: err}}
			return
		}
		if !ok {
			halted = true
			return
		}

		if ch.Verbose {
			log.Printf("intcode: stage %d: %d", n, out)
		}
	}

	return
}

// Run resets the chain, and passes signal through every stage once.
func (ch *Chain) Run(signal int64) (out int64, err error) {
	if len(ch.Stages) == 0 {
		err = ErrChainEmpty
		return
	}

	ch.Reset()

	out, halted, err := ch.pass(signal)
	if err != nil {
		return
	}

	if halted {
		err = ErrStageHalted
	}

	return
}

// RunFeedback resets the chain, and loops the output of the last stage back
// into the first until a stage halts. It returns the last output of the last
// stage.
func (ch *Chain) RunFeedback(signal int64) (out int64, err error) {
	if len(ch.Stages) == 0 {
		err = ErrChainEmpty
		return
	}

	ch.Reset()

	for {
		var halted bool
		signal, halted, err = ch.pass(signal)
		if err != nil {
			return
		}
		if halted {
			break
		}
	}

	out, ok := ch.Stages[len(ch.Stages)-1].LastOutput()
	if !ok {
		err = ErrStageHalted
	}

	return
}
