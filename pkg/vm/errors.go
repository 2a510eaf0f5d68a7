package vm

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange         = errors.New("index out of range")
	ErrStackUnderflow     = errors.New("operand stack underflow")
	ErrCallStackUnderflow = errors.New("call stack underflow")
	ErrCallStackOverflow  = errors.New("call stack overflow")
	ErrNonFinite          = errors.New("non-finite arithmetic result")
	ErrHalted             = errors.New("machine is halted")
	ErrMaxStepsExceeded   = errors.New("maximum steps exceeded")
)

// Fault is an unrecoverable execution error. It records where the machine
// stopped and unwraps to one of the package sentinels.
type Fault struct {
	IP      int         // instruction pointer at the time of the fault
	Instr   Instruction // instruction being executed
	Fetched bool        // false when the fetch itself failed and Instr is meaningless
	Err     error
}

func (f *Fault) Error() string {
	if !f.Fetched {
		return fmt.Sprintf("fault at %d: %v", f.IP, f.Err)
	}
	return fmt.Sprintf("fault at %d (%s): %v", f.IP, f.Instr, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
