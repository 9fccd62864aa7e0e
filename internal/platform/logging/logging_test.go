package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"agencycheck/internal/platform/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", slog.String("subject", "s-1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode json record: %v", err)
	}
	if record["msg"] != "shown" || record["subject"] != "s-1" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewTintWritesPlainTextToNonTerminal(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logging.New(buf, "info", "tint").Info("report computed", slog.Int("entries", 3))
	out := buf.String()
	if !strings.Contains(out, "report computed") || !strings.Contains(out, "entries=3") {
		t.Fatalf("unexpected tint output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes for non-terminal writer: %q", out)
	}
}
