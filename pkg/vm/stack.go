package vm

import "fmt"

// OperandStack holds the intermediate values of a computation.
type OperandStack struct {
	a []int32
}

// Push adds an element to the top of the stack
func (s *OperandStack) Push(v int32) {
	s.a = append(s.a, v)
}

// Pop removes and returns the top element of the stack
func (s *OperandStack) Pop() (int32, error) {
	if len(s.a) < 1 {
		return 0, ErrStackUnderflow
	}

	v := s.a[len(s.a)-1]
	s.a = s.a[:len(s.a)-1]

	return v, nil
}

// Pop2 removes the top two elements and returns them in push order (a below b)
func (s *OperandStack) Pop2() (a, b int32, err error) {
	if err := s.need(2); err != nil {
		return 0, 0, err
	}

	b, _ = s.Pop()
	a, _ = s.Pop()

	return a, b, nil
}

// Size returns the number of elements on the stack
func (s *OperandStack) Size() int {
	return len(s.a)
}

// Array returns a copy of the stack contents, bottom first
func (s *OperandStack) Array() []int32 {
	return append([]int32(nil), s.a...)
}

// Reset empties the stack
func (s *OperandStack) Reset() {
	s.a = s.a[:0]
}

// need fails without touching the stack when fewer than n elements are present
func (s *OperandStack) need(n int) error {
	if len(s.a) < n {
		return fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, n, len(s.a))
	}
	return nil
}
