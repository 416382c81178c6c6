package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":    slog.LevelError,
		" WARN ":   slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"info":     slog.LevelInfo,
		"debug":    slog.LevelDebug,
		"anything": slog.LevelDebug,
	}
	for in, want := range cases {
		if got := levelFromString(in); got != want {
			t.Fatalf("%q: want %v, got %v", in, want, got)
		}
	}
}

func TestComponentTagsOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := Component(NewWithWriter(&buf, "info"), "resolver")
	log.Debug("hidden")
	log.Info("searched", "source", "Circuit")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "component=resolver") || !strings.Contains(out, "source=Circuit") {
		t.Fatalf("missing attributes: %s", out)
	}

	if Component(nil, "x") != nil {
		t.Fatalf("nil base should stay nil")
	}
}
