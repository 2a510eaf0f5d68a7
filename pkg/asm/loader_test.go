package asm_test

import (
	"errors"
	"strings"
	"testing"

	"stackvis/pkg/asm"
	"stackvis/pkg/vm"
)

func TestParse(t *testing.T) {
	input := "0 PUSH 72\n" +
		"1 SYSCALL 11\r\n" +
		"\n" +
		"2 PUSH\n" +
		"   3\tJMP   -2   trailing comment\n" +
		"4 push 1\n" +
		"5 HALT +0\n"

	listing, err := asm.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		number   int
		label    string
		mnemonic string
		instr    vm.Instruction
	}{
		{1, "0", "PUSH", vm.Instruction{Op: vm.OpPush, Operand: 72}},
		{2, "1", "SYSCALL", vm.Instruction{Op: vm.OpSyscall, Operand: 11}},
		{5, "3", "JMP", vm.Instruction{Op: vm.OpJmp, Operand: -2}},
		{6, "4", "push", vm.Instruction{Op: vm.OpUnknown, Operand: 1}},
		{7, "5", "HALT", vm.Instruction{Op: vm.OpHalt, Operand: 0}},
	}

	if len(listing.Lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(listing.Lines))
	}

	for i, e := range expected {
		line := listing.Lines[i]
		if line.Number != e.number || line.Label != e.label || line.Mnemonic != e.mnemonic || line.Instr != e.instr {
			t.Errorf("line %d: expected %+v, got %+v", i, e, line)
		}
	}

	program := listing.Program()
	if len(program) != len(expected) || program[2] != expected[2].instr {
		t.Errorf("expected program to mirror listing, got %v", program)
	}

	unknown := listing.Unknown()
	if len(unknown) != 1 || unknown[0].Mnemonic != "push" {
		t.Errorf("expected one unknown line, got %+v", unknown)
	}
}

func TestParseErrors(t *testing.T) {
	input := "0 PUSH abc\n" +
		"1 PUSH 1\n" +
		"2 PUSH 2147483648\n" +
		"3 PUSH 1.5\n"

	listing, err := asm.Parse(input)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, asm.ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand, got %v", err)
	}

	var lineErr *asm.LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 1 {
		t.Errorf("expected first error on line 1, got %v", err)
	}

	for _, n := range []string{"line 1", "line 3", "line 4"} {
		if !strings.Contains(err.Error(), n) {
			t.Errorf("expected error to mention %s, got %v", n, err)
		}
	}

	if len(listing.Lines) != 1 || listing.Lines[0].Instr.Operand != 1 {
		t.Errorf("expected the valid line to survive, got %+v", listing.Lines)
	}
}

func TestLineString(t *testing.T) {
	tests := []struct {
		line     asm.Line
		expected string
	}{
		{asm.Line{Label: "0", Mnemonic: "PUSH", Instr: vm.Instruction{Op: vm.OpPush, Operand: 5}}, "0    PUSH 5"},
		{asm.Line{Label: "12", Mnemonic: "RET", Instr: vm.Instruction{Op: vm.OpRet}}, "12  RET 0"},
		{asm.Line{Label: "1234", Mnemonic: "JMP", Instr: vm.Instruction{Op: vm.OpJmp, Operand: -1}}, "1234  JMP -1"},
	}

	for _, test := range tests {
		if got := test.line.String(); got != test.expected {
			t.Errorf("expected %q, got %q", test.expected, got)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	input := "0 PUSH 1\n1 CALL 3\n2 HALT 0\n3 RET 0\n"

	listing, err := asm.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	if err := asm.Format(&out, listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != input {
		t.Errorf("expected %q, got %q", input, out.String())
	}
}
