package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"DBG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"err", ErrorLevel},
		{"", InfoLevel},
		{"nonsense", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "text", "warn")

	log.Debug("debug message")
	log.Infof("info %d", 1)
	log.Warnf("warn %d", 2)
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info 1") {
		t.Errorf("output contains records below warn level: %q", out)
	}
	if !strings.Contains(out, "warn 2") {
		t.Errorf("output missing warn record: %q", out)
	}
	if !strings.Contains(out, "error message") {
		t.Errorf("output missing error record: %q", out)
	}
}

func TestWithKeepsLevelAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "json", "error").With("component", "forms")

	log.Info("hidden")
	log.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("With() lost level filtering: %q", out)
	}
	if !strings.Contains(out, `"component":"forms"`) {
		t.Errorf("With() attrs missing: %q", out)
	}
}
