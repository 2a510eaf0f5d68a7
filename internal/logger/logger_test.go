package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		debug    bool
		expected []string
		hidden   []string
	}{
		{false, []string{"careful"}, []string{"stepping", "hello"}},
		{true, []string{"careful", "stepping", "hello"}, nil},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		l := New(&buf, test.debug, true)

		l.Debug("stepping", "ip", 3)
		l.Info("hello")
		l.Warn("careful")

		out := buf.String()
		if !strings.Contains(out, "STACKVIS") {
			t.Errorf("debug=%v: expected prefix in %q", test.debug, out)
		}
		for _, s := range test.expected {
			if !strings.Contains(out, s) {
				t.Errorf("debug=%v: expected %q in %q", test.debug, s, out)
			}
		}
		for _, s := range test.hidden {
			if strings.Contains(out, s) {
				t.Errorf("debug=%v: did not expect %q in %q", test.debug, s, out)
			}
		}
	}
}
