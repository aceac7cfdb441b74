// Package tool defines C2, the Tool Contract: the uniform interface every
// toolchain provisioner exposes, so the resolver and scheduler never branch
// on language.
package tool

import "context"

// SetupContext carries everything a provisioner's Setup needs to bring a
// tool to an installed state.
type SetupContext struct {
	InstallDir string // <cache-root>/venvs/<language>-<id>
	CacheDir   string // <cache-root>/cache/<language>-<id>
	Force      bool   // when true, reinstall even if already installed
	Version    string // resolved version, or "latest"
}

// Tool is the polymorphic handle consumers operate on. Every provisioner
// variant (interpreted-language, node-like, go-like, system, built-in)
// implements this same contract.
type Tool interface {
	// Setup is idempotent: if Force is false and IsInstalled() is already
	// true, it is a no-op.
	Setup(ctx context.Context, sc SetupContext) error

	// Run invokes the tool on the given file paths. A non-zero underlying
	// exit is reported as rherrors.ExecutionError with stderr captured.
	Run(ctx context.Context, files []string) error

	// IsInstalled is a cheap predicate: does the tool's expected binary
	// path exist.
	IsInstalled() bool

	// InstallDir is the canonical root of this tool's hermetic
	// environment.
	InstallDir() string

	// Name is the hook id this tool instance was created for.
	Name() string

	// Version is the resolved version string this instance was set up
	// with; it is empty before Setup and for tools that carry no version
	// (system, built-in).
	Version() string
}
