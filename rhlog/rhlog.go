// Package rhlog sets up structured logging for rustyhook: a JSON handler
// writing to stderr, configured from the environment rather than a global
// singleton.
package rhlog

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// New builds a logger honoring LOG_LEVEL (debug|info|warn|error, default
// info) and LOG_MODULES (a comma-separated allowlist of module names; empty
// means all modules log). The returned logger is meant to be threaded
// through constructors explicitly -- no package-level default is kept.
func New() *slog.Logger {
	return NewFromEnv(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_MODULES"))
}

// NewFromEnv is the environment-free variant of New, for tests and callers
// that already parsed their own configuration.
func NewFromEnv(levelStr, modulesStr string) *slog.Logger {
	level := parseLevel(levelStr)
	var allow map[string]struct{}
	if modulesStr != "" {
		allow = make(map[string]struct{})
		for _, m := range strings.Split(modulesStr, ",") {
			m = strings.TrimSpace(m)
			if m != "" {
				allow[m] = struct{}{}
			}
		}
	}

	base := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(&moduleFilterHandler{base: base, allow: allow})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// moduleFilterHandler drops records from modules not present in allow (when
// allow is non-nil), identified by a "module" attribute set via
// logger.With("module", name).
type moduleFilterHandler struct {
	base   slog.Handler
	allow  map[string]struct{}
	module string // "module" attribute bound through WithAttrs, if any
}

func (h *moduleFilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *moduleFilterHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.allow != nil {
		module := h.module
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "module" {
				module = a.Value.String()
				return false
			}
			return true
		})
		if module != "" {
			if _, ok := h.allow[module]; !ok {
				return nil
			}
		}
	}
	return h.base.Handle(ctx, r)
}

func (h *moduleFilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	module := h.module
	for _, a := range attrs {
		if a.Key == "module" {
			module = a.Value.String()
		}
	}
	return &moduleFilterHandler{base: h.base.WithAttrs(attrs), allow: h.allow, module: module}
}

func (h *moduleFilterHandler) WithGroup(name string) slog.Handler {
	return &moduleFilterHandler{base: h.base.WithGroup(name), allow: h.allow, module: h.module}
}

// Module returns a child logger tagged with the given module name, for use
// with LOG_MODULES filtering.
func Module(l *slog.Logger, name string) *slog.Logger {
	return l.With("module", name)
}
