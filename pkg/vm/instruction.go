package vm

import "fmt"

type Instruction struct {
	Op      Operation
	Operand int32
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	return fmt.Sprintf("%s %d", i.Op, i.Operand)
}

// Program is the read-only store of decoded instructions.
type Program []Instruction

// Len returns the number of instructions in the program
func (p Program) Len() int {
	return len(p)
}

// At returns the instruction at index, or ErrOutOfRange when index falls
// outside the program.
func (p Program) At(index int) (Instruction, error) {
	if index < 0 || index >= len(p) {
		return Instruction{}, fmt.Errorf("%w: instruction %d not in [0, %d)", ErrOutOfRange, index, len(p))
	}
	return p[index], nil
}
