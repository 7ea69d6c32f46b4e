package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":        Info,
		"debug":   Debug,
		"WARN":    Warn,
		"warning": Warn,
		"error":   Error,
	}

	for input, expected := range tests {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", input, err)
		}
		if got != expected {
			t.Errorf("ParseLevel(%q): expected %s, got %s", input, expected, got)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("desk", Warn, &buf)

	l.Info("dropped")
	l.Warn("kept %d", 1)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept 1") || !strings.Contains(out, "[desk]") {
		t.Errorf("expected warn line with component, got %q", out)
	}
}

func TestLogger_NamedAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("desk", Debug, &buf)
	l.JSON = true

	l.Named("bulk").With("op", "delete").Info("done")

	var e entry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.Component != "desk/bulk" {
		t.Errorf("expected component 'desk/bulk', got %q", e.Component)
	}
	if e.Fields["op"] != "delete" {
		t.Errorf("expected field op=delete, got %v", e.Fields)
	}
}
