package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	Info(logger, "hidden")
	Warn(logger, "shown", FieldLabelID, "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "label_id=abc") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestErrorAppendsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info")

	Error(logger, "publish failed", errors.New("boom"))

	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("expected error field, got %q", buf.String())
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Info(nil, "x")
	Warn(nil, "x")
	Error(nil, "x", errors.New("y"))
}
