package asm

import (
	"regexp"
	"strings"
)

// Field patterns for a listing line: <label> <OPCODE> <operand>
var (
	fieldSeparatorRegex = regexp.MustCompile(`\s+`)
	operandRegex        = regexp.MustCompile(`^[+-]?\d+$`)
)

// splitFields splits a line into whitespace separated fields
func splitFields(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return fieldSeparatorRegex.Split(line, -1)
}
