package vm

type Operation uint8

// List of machine operations
const (
	OpUnknown Operation = iota // any mnemonic the machine does not understand, executed as a no-op
	OpHalt
	OpPush
	OpJmp
	OpJne
	OpCall
	OpRet
	OpMvlv
	OpPushlv
	OpAdd
	OpMul
	OpEq
	OpLt
	OpSyscall
)

var operationNames = map[Operation]string{
	OpUnknown: "UNKNOWN",
	OpHalt:    "HALT",
	OpPush:    "PUSH",
	OpJmp:     "JMP",
	OpJne:     "JNE",
	OpCall:    "CALL",
	OpRet:     "RET",
	OpMvlv:    "MVLV",
	OpPushlv:  "PUSHLV",
	OpAdd:     "ADD",
	OpMul:     "MUL",
	OpEq:      "EQ",
	OpLt:      "LT",
	OpSyscall: "SYSCALL",
}

var operationsByName = func() map[string]Operation {
	m := make(map[string]Operation, len(operationNames))
	for op, name := range operationNames {
		if op != OpUnknown {
			m[name] = op
		}
	}
	return m
}()

// String returns the mnemonic of the operation
func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// LookupOperation maps a mnemonic to its operation. Matching is exact and
// case-sensitive; anything else yields OpUnknown and false.
func LookupOperation(name string) (Operation, bool) {
	op, ok := operationsByName[name]
	if !ok {
		return OpUnknown, false
	}
	return op, true
}

// Syscall numbers understood by SYSCALL
const (
	SysPrintInt    int32 = 10
	SysPrintChar   int32 = 11
	SysPrintString int32 = 12
)

// StringsUnsupported is the console notice emitted by SYSCALL 12.
const StringsUnsupported = "Strings are not currently supported."
