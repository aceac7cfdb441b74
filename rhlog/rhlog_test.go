package rhlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFromEnvRespectsLevel(t *testing.T) {
	logger := NewFromEnv("warn", "")
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info-level records to be disabled when LOG_LEVEL=warn")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("expected warn-level records to be enabled when LOG_LEVEL=warn")
	}
}

func TestModuleFilterHandlerDropsDisallowedModules(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	h := &moduleFilterHandler{base: base, allow: map[string]struct{}{"resolver": {}}}
	logger := slog.New(h)

	Module(logger, "scheduler").Info("dropped message")
	if buf.Len() != 0 {
		t.Fatalf("expected module not in allowlist to be dropped, got %q", buf.String())
	}

	Module(logger, "resolver").Info("kept message")
	if !strings.Contains(buf.String(), "kept message") {
		t.Fatalf("expected allowed module's record to pass through, got %q", buf.String())
	}
}

func TestModuleFilterHandlerPassesEverythingWhenAllowIsNil(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	h := &moduleFilterHandler{base: base}
	logger := slog.New(h)

	Module(logger, "anything").Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected nil allowlist to let every module through, got %q", buf.String())
	}
}
