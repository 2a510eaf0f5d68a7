package trace

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// canonical mode keeps encodings deterministic so identical runs produce
// identical files
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Trace to CBOR bytes.
func Marshal(t *Trace) ([]byte, error) {
	return cborEncMode.Marshal(t)
}

// Unmarshal deserializes a Trace from CBOR bytes.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trace: unmarshal: %w", err)
	}
	if t.Version != Version {
		return nil, fmt.Errorf("trace: unsupported version %d", t.Version)
	}
	return &t, nil
}

// Save writes t to path
func Save(path string, t *Trace) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("trace: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trace: cannot write %s: %w", path, err)
	}
	return nil
}

// Open reads a trace previously written by Save
func Open(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot read %s: %w", path, err)
	}
	return Unmarshal(data)
}
