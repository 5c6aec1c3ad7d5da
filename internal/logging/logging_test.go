package logging

import (
	"log/slog"
	"os"
	"path/filepath"
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
		"chatty":  slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closer, err := New("debug", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if closer == nil {
		t.Fatal("closer must not be nil")
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sunrise.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New("info", path)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		logger.Debug("hidden")
		logger.Info(msg, "component", "test")
		if err := closer.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, "msg=first") || !strings.Contains(out, "msg=second") {
		t.Fatalf("expected both records appended, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked at info level: %q", out)
	}
}
