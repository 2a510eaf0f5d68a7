package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[run]
interval = "250ms"
max_steps = 5000

[display]
panels = false
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, _ := c.IntervalDuration()
	if d != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", d)
	}
	if c.Run.MaxSteps != 5000 {
		t.Errorf("expected max_steps 5000, got %d", c.Run.MaxSteps)
	}
	if c.Run.MaxCallDepth != Default().Run.MaxCallDepth {
		t.Errorf("expected default call depth, got %d", c.Run.MaxCallDepth)
	}
	if c.Display.Panels {
		t.Error("expected panels disabled")
	}
	if !c.Display.Color {
		t.Error("expected color to keep its default")
	}
	if c.Path != path {
		t.Errorf("expected path %s, got %s", path, c.Path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		description string
		content     string
	}{
		{"bad toml", "[run\n"},
		{"bad interval", "[run]\ninterval = \"soon\"\n"},
		{"negative interval", "[run]\ninterval = \"-1s\"\n"},
		{"negative steps", "[run]\nmax_steps = -1\n"},
		{"wrong type", "[display]\nwindow = \"wide\"\n"},
	}

	for _, test := range tests {
		path := writeConfig(t, t.TempDir(), test.content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", test.description)
		}
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[run]\nmax_steps = 7\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Run.MaxSteps != 7 {
		t.Errorf("expected config from parent directory, got %+v", c.Run)
	}
}

func TestFindAndLoadDefaults(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Path != "" {
		t.Skipf("found %s above the temp dir", c.Path)
	}
	if c.Run.Interval != "100ms" {
		t.Errorf("expected default interval, got %q", c.Run.Interval)
	}
}
