package vm

import (
	"errors"
	"testing"
)

func TestCallStackReusesZeroedFrames(t *testing.T) {
	c := NewCallStack(2)

	f, err := c.Push(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Store(FrameLocals-1, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	popped, err := c.Pop()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if popped.ReturnIP != 7 || popped.Locals[FrameLocals-1] != 99 {
		t.Errorf("expected popped frame to keep its contents, got %+v", popped)
	}

	f, _ = c.Push(3)
	if v, _ := f.Load(FrameLocals - 1); v != 0 {
		t.Errorf("expected reused frame to be zeroed, got %d", v)
	}

	if _, err := c.Push(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Push(5); !errors.Is(err, ErrCallStackOverflow) {
		t.Errorf("expected ErrCallStackOverflow, got %v", err)
	}

	if c.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", c.Depth())
	}

	snap := c.Snapshot()
	if len(snap) != 2 || snap[0].ReturnIP != 3 || snap[1].ReturnIP != 4 {
		t.Errorf("expected frames returning to 3 and 4, got %+v", snap)
	}

	c.Reset()
	if _, err := c.Top(); !errors.Is(err, ErrCallStackUnderflow) {
		t.Errorf("expected ErrCallStackUnderflow, got %v", err)
	}
}

func TestFrameSlotBounds(t *testing.T) {
	var f Frame
	for _, slot := range []int32{-1, FrameLocals, 1 << 20} {
		if err := f.Store(slot, 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("slot %d: expected ErrOutOfRange on store, got %v", slot, err)
		}
		if _, err := f.Load(slot); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("slot %d: expected ErrOutOfRange on load, got %v", slot, err)
		}
	}
}

func TestWrapInt32(t *testing.T) {
	tests := []struct {
		in       float64
		expected int32
	}{
		{0, 0},
		{-5, -5},
		{2147483648, -2147483648},
		{4294967296, 0},
		{-2147483649, 2147483647},
		{1e12, -727379968},
	}

	for _, test := range tests {
		if got := wrapInt32(test.in); got != test.expected {
			t.Errorf("wrapInt32(%v): expected %d, got %d", test.in, test.expected, got)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{2.5, 3},
		{-2.5, -2},
		{-3.5, -3},
		{2.4999999999999996, 2},
		{1 << 52, 1 << 52},
		{1<<52 + 1, 1<<52 + 1},
		{1<<52 + 3, 1<<52 + 3},
	}

	for _, test := range tests {
		if got := roundHalfUp(test.in); got != test.expected {
			t.Errorf("Input %v: expected %v, got %v", test.in, test.expected, got)
		}
	}
}
