package cpu

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

// snapshotEncMode uses canonical CBOR so equal machines encode identically.
var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// Snapshot is the complete state of a suspended machine.
type Snapshot struct {
	Program      []int64         `cbor:"program"`
	Memory       []int64         `cbor:"memory"`
	Sparse       map[int64]int64 `cbor:"sparse,omitempty"`
	Ip           int64           `cbor:"ip"`
	RelativeBase int64           `cbor:"base"`
	Status       Status          `cbor:"status"`
	Ticks        int             `cbor:"ticks"`
	Input        []int64         `cbor:"input,omitempty"`
	Output       []int64         `cbor:"output,omitempty"`
}

// Snapshot captures the machine state.
func (m *Machine) Snapshot() *Snapshot {
	return &Snapshot{
		Program:      slices.Clone(m.program),
		Memory:       slices.Clone(m.Memory.dense),
		Sparse:       maps.Clone(m.Memory.sparse),
		Ip:           m.Ip,
		RelativeBase: m.RelativeBase,
		Status:       m.status,
		Ticks:        m.Ticks,
		Input:        slices.Clone(m.Input.Data),
		Output:       slices.Clone(m.Output.Data),
	}
}

// Clone returns an independent machine in the same state.
func (m *Machine) Clone() (clone *Machine) {
	clone = restore(m.Snapshot())
	clone.Verbose = m.Verbose
	return
}

// Restore creates a machine from a snapshot. It resumes exactly where the
// snapshot was taken.
func Restore(snap *Snapshot) (m *Machine, err error) {
	if snap.Ip < 0 || snap.Status < STATUS_READY || snap.Status > STATUS_HALTED || snap.Ticks < 0 {
		err = ErrSnapshotInvalid
		return
	}
	for addr := range snap.Sparse {
		if addr < int64(len(snap.Memory)) {
			err = ErrSnapshotInvalid
			return
		}
	}

	m = restore(snap)

	return
}

func restore(snap *Snapshot) *Machine {
	return &Machine{
		Ip:           snap.Ip,
		RelativeBase: snap.RelativeBase,
		Memory: Memory{
			dense:  slices.Clone(snap.Memory),
			sparse: maps.Clone(snap.Sparse),
		},
		Input:   Queue{Data: slices.Clone(snap.Input)},
		Output:  Queue{Data: slices.Clone(snap.Output)},
		Ticks:   snap.Ticks,
		status:  snap.Status,
		program: slices.Clone(snap.Program),
	}
}

// Marshal writes the snapshot as canonical CBOR.
func (snap *Snapshot) Marshal(file io.Writer) (err error) {
	data, err := snapshotEncMode.Marshal(snap)
	if err != nil {
		err = errors.Join(ErrSnapshot, err)
		return
	}

	_, err = file.Write(data)

	return
}

// UnmarshalSnapshot reads a snapshot written by Marshal.
func UnmarshalSnapshot(file io.Reader) (snap *Snapshot, err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	snap = &Snapshot{}
	err = cbor.Unmarshal(data, snap)
	if err != nil {
		snap = nil
		err = errors.Join(ErrSnapshot, err)
		return
	}

	return
}
