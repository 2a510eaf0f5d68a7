// Package asm loads the textual program listing into vm instructions.
//
// Each non-empty line has the form
//
//	<label> <OPCODE> <operand>
//
// The label is informational and only used for display; execution follows
// line order. Lines with fewer than three fields are skipped and fields past
// the third are ignored. Mnemonics the machine does not know load as
// vm.OpUnknown.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stackvis/pkg/vm"
)

// Line is one decoded instruction together with the text it came from.
type Line struct {
	Number   int            // 1-based line number in the source text
	Label    string         // informational index label
	Mnemonic string         // opcode as written, kept even when unknown
	Instr    vm.Instruction // decoded instruction
}

// String renders the line the way listings are displayed
func (l Line) String() string {
	pad := 3 - len(l.Label)
	if pad < 1 {
		pad = 1
	}
	return fmt.Sprintf("%s%s%s %d", l.Label, strings.Repeat("  ", pad), l.Mnemonic, l.Instr.Operand)
}

// Listing is a loaded program in source order.
type Listing struct {
	Lines []Line
}

// Program returns the instructions of the listing
func (l *Listing) Program() vm.Program {
	program := make(vm.Program, len(l.Lines))
	for i, line := range l.Lines {
		program[i] = line.Instr
	}
	return program
}

// Unknown returns the lines whose mnemonic the machine does not recognize
func (l *Listing) Unknown() []Line {
	var unknown []Line
	for _, line := range l.Lines {
		if line.Instr.Op == vm.OpUnknown {
			unknown = append(unknown, line)
		}
	}
	return unknown
}

var ErrInvalidOperand = errors.New("invalid operand")

// LineError reports a line that could not be decoded.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse decodes a listing from text. All malformed lines are reported
// together; the returned listing holds the lines that did decode.
func Parse(src string) (*Listing, error) {
	return Load(strings.NewReader(src))
}

// Load decodes a listing from r
func Load(r io.Reader) (*Listing, error) {
	listing := &Listing{}
	var errs []error

	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		text := scanner.Text()

		fields := splitFields(text)
		if len(fields) < 3 {
			continue
		}

		line, err := decodeLine(number, fields)
		if err != nil {
			errs = append(errs, &LineError{Line: number, Text: text, Err: err})
			continue
		}

		listing.Lines = append(listing.Lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	return listing, errors.Join(errs...)
}

// decodeLine turns the first three fields of a line into a Line
func decodeLine(number int, fields []string) (Line, error) {
	label, mnemonic, operand := fields[0], fields[1], fields[2]

	if !operandRegex.MatchString(operand) {
		return Line{}, fmt.Errorf("%w %q", ErrInvalidOperand, operand)
	}

	n, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return Line{}, fmt.Errorf("%w %q: out of 32-bit range", ErrInvalidOperand, operand)
	}

	op, _ := vm.LookupOperation(mnemonic)

	return Line{
		Number:   number,
		Label:    label,
		Mnemonic: mnemonic,
		Instr:    vm.Instruction{Op: op, Operand: int32(n)},
	}, nil
}

// Format writes the listing back out in its text form, numbering lines by
// position when a label is missing.
func Format(w io.Writer, l *Listing) error {
	for i, line := range l.Lines {
		label := line.Label
		if label == "" {
			label = strconv.Itoa(i)
		}
		if _, err := fmt.Fprintf(w, "%s %s %d\n", label, line.Mnemonic, line.Instr.Operand); err != nil {
			return err
		}
	}
	return nil
}
