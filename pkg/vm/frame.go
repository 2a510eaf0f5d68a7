package vm

import "fmt"

// FrameLocals is the number of local variable slots in every call frame.
const FrameLocals = 30

// DefaultMaxCallDepth bounds the call stack unless WithMaxCallDepth says otherwise.
const DefaultMaxCallDepth = 1024

type Locals [FrameLocals]int32

// Frame represents a function call frame.
type Frame struct {
	ReturnIP int    // IP of the CALL that created this frame
	Locals   Locals // local variables, zeroed on creation
}

// Load reads a local slot
func (f *Frame) Load(slot int32) (int32, error) {
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	return f.Locals[slot], nil
}

// Store writes a local slot
func (f *Frame) Store(slot, v int32) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	f.Locals[slot] = v
	return nil
}

func checkSlot(slot int32) error {
	if slot < 0 || slot >= FrameLocals {
		return fmt.Errorf("%w: local slot %d not in [0, %d)", ErrOutOfRange, slot, FrameLocals)
	}
	return nil
}

// CallStack is the pool of call frames. Popped frames keep their storage
// so the next CALL can reuse it after zeroing.
type CallStack struct {
	frames []Frame
	depth  int
	max    int
}

// NewCallStack creates a call stack bounded to max frames (max <= 0 means DefaultMaxCallDepth)
func NewCallStack(max int) *CallStack {
	if max <= 0 {
		max = DefaultMaxCallDepth
	}
	return &CallStack{max: max}
}

// Push allocates a fresh zeroed frame on top of the stack
func (c *CallStack) Push(returnIP int) (*Frame, error) {
	if c.depth >= c.max {
		return nil, fmt.Errorf("%w: depth %d", ErrCallStackOverflow, c.max)
	}

	if c.depth < len(c.frames) {
		c.frames[c.depth] = Frame{ReturnIP: returnIP}
	} else {
		c.frames = append(c.frames, Frame{ReturnIP: returnIP})
	}
	c.depth++

	return &c.frames[c.depth-1], nil
}

// Pop discards the top frame and returns a copy of it
func (c *CallStack) Pop() (Frame, error) {
	if c.depth == 0 {
		return Frame{}, ErrCallStackUnderflow
	}

	c.depth--
	return c.frames[c.depth], nil
}

// Top returns the active frame
func (c *CallStack) Top() (*Frame, error) {
	if c.depth == 0 {
		return nil, fmt.Errorf("%w: no active frame", ErrCallStackUnderflow)
	}
	return &c.frames[c.depth-1], nil
}

// Depth returns the number of live frames
func (c *CallStack) Depth() int {
	return c.depth
}

// Snapshot returns a copy of the live frames, bottom first
func (c *CallStack) Snapshot() []Frame {
	return append([]Frame(nil), c.frames[:c.depth]...)
}

// Reset drops every frame
func (c *CallStack) Reset() {
	c.depth = 0
}
