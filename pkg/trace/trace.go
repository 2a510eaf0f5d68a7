// Package trace records the observable state of a machine after every step
// so runs can be saved, replayed for display and compared.
package trace

import (
	"errors"
	"slices"

	"stackvis/pkg/vm"
)

// Version is the trace format version written by Marshal.
const Version = 1

// Entry is the machine state observed after one step.
type Entry struct {
	Step    int     `cbor:"1,keyasint"`
	IP      int     `cbor:"2,keyasint"`
	Stack   []int32 `cbor:"3,keyasint,omitempty"`
	Frames  []int   `cbor:"4,keyasint,omitempty"` // return IP of each frame, bottom first
	Output  string  `cbor:"5,keyasint,omitempty"`
	Printed bool    `cbor:"6,keyasint,omitempty"` // Output is meaningful, even when empty
	Running bool    `cbor:"7,keyasint"`
	Fault   string  `cbor:"8,keyasint,omitempty"`
}

// Equal compares two entries field by field
func (e Entry) Equal(o Entry) bool {
	return e.Step == o.Step &&
		e.IP == o.IP &&
		slices.Equal(e.Stack, o.Stack) &&
		slices.Equal(e.Frames, o.Frames) &&
		e.Output == o.Output &&
		e.Printed == o.Printed &&
		e.Running == o.Running &&
		e.Fault == o.Fault
}

// Trace is the ordered list of entries produced by running a program.
type Trace struct {
	Version uint8      `cbor:"1,keyasint"`
	Program vm.Program `cbor:"2,keyasint"`
	Entries []Entry    `cbor:"3,keyasint"`
}

// Console returns the console text produced over the whole trace
func (t *Trace) Console() []string {
	var lines []string
	for _, e := range t.Entries {
		if e.Printed {
			lines = append(lines, e.Output)
		}
	}
	return lines
}

// Recorder appends an entry for every step of a machine.
type Recorder struct {
	m     *vm.Machine
	trace *Trace
}

// NewRecorder starts recording m's current program
func NewRecorder(m *vm.Machine) *Recorder {
	return &Recorder{
		m: m,
		trace: &Trace{
			Version: Version,
			Program: append(vm.Program(nil), m.Program()...),
		},
	}
}

// Record appends the state after a step. Steps refused with vm.ErrHalted
// are not recorded since they change nothing.
func (r *Recorder) Record(res vm.StepResult, err error) {
	if errors.Is(err, vm.ErrHalted) {
		return
	}

	e := Entry{
		Step:    len(r.trace.Entries) + 1,
		IP:      res.IP,
		Stack:   r.m.Stack(),
		Running: res.Running,
	}

	for _, f := range r.m.Frames() {
		e.Frames = append(e.Frames, f.ReturnIP)
	}

	if res.Output != nil {
		e.Output = res.Output.Text
		e.Printed = true
	}

	if err != nil {
		e.Fault = err.Error()
	}

	r.trace.Entries = append(r.trace.Entries, e)
}

// Step steps the machine and records the outcome
func (r *Recorder) Step() (vm.StepResult, error) {
	res, err := r.m.Step()
	r.Record(res, err)
	return res, err
}

// Trace returns the entries recorded so far
func (r *Recorder) Trace() *Trace {
	return r.trace
}

// Capture resets m and runs it to completion, recording every step. The
// returned error is the fault that stopped the machine, nil on HALT.
// Programs that may loop forever need a machine built with vm.WithMaxSteps.
func Capture(m *vm.Machine) (*Trace, error) {
	m.Reset()
	r := NewRecorder(m)

	for m.Running() {
		if _, err := r.Step(); err != nil {
			return r.Trace(), err
		}
	}

	return r.Trace(), nil
}

// FirstDifference returns the index of the first entry where a and b differ,
// or -1 when the traces are identical.
func FirstDifference(a, b *Trace) int {
	n := min(len(a.Entries), len(b.Entries))
	for i := 0; i < n; i++ {
		if !a.Entries[i].Equal(b.Entries[i]) {
			return i
		}
	}

	if len(a.Entries) != len(b.Entries) {
		return n
	}

	return -1
}

// Equal reports whether two traces record the same steps
func Equal(a, b *Trace) bool {
	return FirstDifference(a, b) == -1
}
