package vm

import (
	"math"
	"strconv"
)

// exec dispatches a single instruction. It returns the next instruction
// pointer and the console event, if any. When it returns an error the
// operand stack and call stack are left untouched.
func (m *Machine) exec(in Instruction) (int, *Output, error) {
	ip := m.ip
	operand := in.Operand

	switch in.Op {
	case OpHalt:
		// ip stays on HALT so the listing keeps pointing at it
		m.halt()
		return ip, nil, nil

	case OpPush:
		m.stack.Push(operand)
		return ip + 1, nil, nil

	case OpJmp:
		// relative: operand 1 falls through
		return ip + int(operand), nil, nil

	case OpJne:
		a, err := m.stack.Pop()
		if err != nil {
			return ip, nil, err
		}
		if a != 1 {
			return ip + int(operand), nil, nil
		}
		return ip + 1, nil, nil

	case OpCall:
		// absolute: execution resumes at index operand
		if _, err := m.calls.Push(ip); err != nil {
			return ip, nil, err
		}
		return int(operand), nil, nil

	case OpRet:
		frame, err := m.calls.Pop()
		if err != nil {
			return ip, nil, err
		}
		return frame.ReturnIP + 1, nil, nil

	case OpMvlv:
		frame, err := m.calls.Top()
		if err != nil {
			return ip, nil, err
		}
		v, err := m.stack.Pop()
		if err != nil {
			return ip, nil, err
		}
		if err := frame.Store(operand, v); err != nil {
			m.stack.Push(v)
			return ip, nil, err
		}
		return ip + 1, nil, nil

	case OpPushlv:
		frame, err := m.calls.Top()
		if err != nil {
			return ip, nil, err
		}
		v, err := frame.Load(operand)
		if err != nil {
			return ip, nil, err
		}
		m.stack.Push(v)
		return ip + 1, nil, nil

	case OpAdd, OpMul, OpEq, OpLt:
		a, b, err := m.stack.Pop2()
		if err != nil {
			return ip, nil, err
		}
		res, err := evalBinary(in.Op, a, b, operand)
		if err != nil {
			// restore operands so a fault leaves the stack as it was
			m.stack.Push(a)
			m.stack.Push(b)
			return ip, nil, err
		}
		m.stack.Push(res)
		return ip + 1, nil, nil

	case OpSyscall:
		out, err := m.syscall(operand)
		if err != nil {
			return ip, nil, err
		}
		return ip + 1, out, nil

	default:
		// OpUnknown and anything else decode to a no-op
		return ip + 1, nil, nil
	}
}

// syscall performs console output. Unassigned numbers are ignored.
func (m *Machine) syscall(num int32) (*Output, error) {
	switch num {
	case SysPrintInt:
		v, err := m.stack.Pop()
		if err != nil {
			return nil, err
		}
		return &Output{Syscall: num, Text: strconv.FormatInt(int64(v), 10)}, nil

	case SysPrintChar:
		v, err := m.stack.Pop()
		if err != nil {
			return nil, err
		}
		// invalid code points render as U+FFFD
		return &Output{Syscall: num, Text: string(rune(v))}, nil

	case SysPrintString:
		// reserved: discards an address/length pair
		if _, _, err := m.stack.Pop2(); err != nil {
			return nil, err
		}
		return &Output{Syscall: num, Text: StringsUnsupported}, nil

	default:
		return nil, nil
	}
}

// evalBinary evaluates ADD, MUL, EQ and LT with the operand as modifier
func evalBinary(op Operation, a, b, operand int32) (int32, error) {
	switch op {
	case OpAdd:
		// operand scales b: 1 adds, -1 subtracts
		return int32(int64(a) + int64(b)*int64(operand)), nil

	case OpMul:
		// operand is the exponent applied to b
		r := float64(a) * math.Pow(float64(b), float64(operand))
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, ErrNonFinite
		}
		return wrapInt32(roundHalfUp(r)), nil

	case OpEq:
		if a == b {
			return operand, nil
		}
		return -operand, nil

	case OpLt:
		if a < b {
			return operand, nil
		}
		return -operand, nil
	}

	return 0, nil
}

// roundHalfUp rounds to the nearest integer, ties toward positive infinity.
// Adding 0.5 before flooring would round again above 2^52.
func roundHalfUp(f float64) float64 {
	fl := math.Floor(f)
	if f-fl >= 0.5 {
		fl++
	}
	return fl
}

// wrapInt32 reduces an integral float modulo 2^32 into the int32 range
func wrapInt32(f float64) int32 {
	m := math.Mod(f, 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}
