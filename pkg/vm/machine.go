package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Machine executes a Program one instruction at a time. It is not safe for
// concurrent use; whoever drives it must serialize calls to Step.
type Machine struct {
	program Program // program store, read-only after Load
	ip      int     // instruction pointer (index into program)

	stack OperandStack // operand stack
	calls *CallStack   // call frames

	running bool  // false after HALT or a fault
	err     error // fault that stopped the machine, if any

	out    io.Writer   // console events are written here, one per line
	logger *log.Logger // step and fault diagnostics

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
	maxDepth int // maximum call depth
}

// Output is a console event produced by a SYSCALL.
type Output struct {
	Syscall int32  // syscall number that produced the text
	Text    string // text to append to the console
}

// StepResult is what a single Step exposes to the presentation layer.
type StepResult struct {
	IP      int     // instruction pointer after the step; HALT leaves it on the HALT itself
	Running bool    // whether further steps are permitted
	Output  *Output // console event, nil if the step printed nothing
}

type Option func(*Machine)

// WithWriter sets the writer console output is copied to
func WithWriter(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// WithMaxSteps sets a maximum number of steps before the machine faults with ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(m *Machine) { m.maxSteps = n }
}

// WithMaxCallDepth bounds the number of live call frames
func WithMaxCallDepth(n int) Option {
	return func(m *Machine) { m.maxDepth = n }
}

// WithLogger sets the logger used for step tracing and fault reports
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// New creates a machine loaded with program and ready to run
func New(program Program, opts ...Option) *Machine {
	m := &Machine{}
	for _, o := range opts {
		o(m)
	}

	if m.out == nil {
		m.out = io.Discard
	}

	if m.logger == nil {
		m.logger = log.Default()
	}

	m.calls = NewCallStack(m.maxDepth)
	m.Load(program)

	return m
}

// Load replaces the program and resets the machine
func (m *Machine) Load(program Program) {
	m.program = append(Program(nil), program...)
	m.Reset()
}

// Reset rewinds the machine to the first instruction with empty stacks
func (m *Machine) Reset() {
	m.ip = 0
	m.stack.Reset()
	m.calls.Reset()
	m.running = true
	m.err = nil
	m.steps = 0
}

// Program returns the loaded program
func (m *Machine) Program() Program {
	return m.program
}

// IP returns the current instruction pointer
func (m *Machine) IP() int {
	return m.ip
}

// Running reports whether Step may be called
func (m *Machine) Running() bool {
	return m.running
}

// Err returns the fault that stopped the machine, or nil
func (m *Machine) Err() error {
	return m.err
}

// Steps returns the number of instructions executed since the last reset
func (m *Machine) Steps() int {
	return m.steps
}

// Stack returns a snapshot of the operand stack, bottom first
func (m *Machine) Stack() []int32 {
	return m.stack.Array()
}

// Frames returns a snapshot of the call stack, bottom first
func (m *Machine) Frames() []Frame {
	return m.calls.Snapshot()
}

// Step executes a single instruction
func (m *Machine) Step() (StepResult, error) {
	if !m.running {
		return m.result(nil), ErrHalted
	}

	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return m.result(nil), m.fail(&Fault{IP: m.ip, Err: ErrMaxStepsExceeded})
	}

	in, err := m.program.At(m.ip)
	if err != nil {
		return m.result(nil), m.fail(&Fault{IP: m.ip, Err: err})
	}

	next, out, err := m.exec(in)
	if err != nil {
		return m.result(nil), m.fail(&Fault{IP: m.ip, Instr: in, Fetched: true, Err: err})
	}

	m.logger.Debug("step", "ip", m.ip, "op", in.Op, "operand", in.Operand, "next", next, "stack", m.stack.Size(), "calls", m.calls.Depth())

	m.ip = next
	m.steps++

	if out != nil {
		if _, err := fmt.Fprintln(m.out, out.Text); err != nil {
			m.logger.Warn("console write failed", "error", err)
		}
	}

	return m.result(out), nil
}

// Run executes until halt or fault. A clean halt returns nil.
func (m *Machine) Run() error {
	for m.running {
		if _, err := m.Step(); err != nil {
			return err
		}
	}

	return nil
}

// halt stops the machine without a fault
func (m *Machine) halt() {
	m.running = false
}

// fail stops the machine and records the fault
func (m *Machine) fail(f *Fault) error {
	m.running = false
	m.err = f
	m.logger.Warn("machine fault", "ip", f.IP, "error", f.Err)
	return f
}

func (m *Machine) result(out *Output) StepResult {
	return StepResult{IP: m.ip, Running: m.running, Output: out}
}

// IsFault reports whether err is a machine fault rather than a plain halt.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
