package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rustyhook/rustyhook/rherrors"
)

// RubyTool is the Ruby provisioner. Unlike the interpreted and Node-like
// variants it does not download a hermetic interpreter: Ruby toolchains
// are too often pinned to a system or rbenv/rvm-managed Ruby for a single
// mirrored build to serve, so it defers to whatever "bundle" resolves to
// on PATH and isolates only the gem set, the same division of
// responsibility original_source's toolchains/ruby.rs draws between
// "find Bundler" and "install gems".
type RubyTool struct {
	id      string
	entry   string
	args    []string
	gem     string // primary gem name, first token of entry
	version string

	installDir string
	bundler    string
}

// NewRubyTool builds a RubyTool for the given hook id/entry/args. version,
// if non-empty, pins the gem to that version in the generated Gemfile.
func NewRubyTool(id, entry string, args []string, version string) *RubyTool {
	return &RubyTool{id: id, entry: entry, args: args, version: version}
}

func (t *RubyTool) Setup(ctx context.Context, sc SetupContext) error {
	fields, err := shellquote.Split(t.entry)
	if err != nil || len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: t.id, Command: t.entry, Cause: err}
	}
	t.gem = aliasPackage("ruby", fields[0])
	t.installDir = sc.InstallDir

	bundler, err := exec.LookPath("bundle")
	if err != nil {
		return &rherrors.ToolNotFound{Tool: "bundler", Cause: err}
	}
	t.bundler = bundler

	if !sc.Force && t.isInstalledAt(t.installDir) {
		return nil
	}

	if err := os.MkdirAll(t.installDir, 0o755); err != nil {
		return &rherrors.InstallationError{Tool: t.gem, Cause: err}
	}
	if err := t.generateGemfile(); err != nil {
		return err
	}
	if err := t.installGems(ctx); err != nil {
		return err
	}
	return nil
}

// generateGemfile writes a single-source Gemfile naming the one gem this
// tool provisions, version-pinned when a version was given.
func (t *RubyTool) generateGemfile() error {
	var b strings.Builder
	b.WriteString("source 'https://rubygems.org'\n\n")
	if t.version != "" {
		fmt.Fprintf(&b, "gem %q, \"~> %s\"\n", t.gem, t.version)
	} else {
		fmt.Fprintf(&b, "gem %q\n", t.gem)
	}
	path := filepath.Join(t.installDir, "Gemfile")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &rherrors.InstallationError{Tool: t.gem, Cause: err}
	}
	return nil
}

// installGems points Bundler at a local vendor/bin pair inside installDir
// so gems never land in a shared system or user gem path, then runs
// "bundle install".
func (t *RubyTool) installGems(ctx context.Context) error {
	bundleDir := filepath.Join(t.installDir, ".bundle")
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return &rherrors.InstallationError{Tool: t.gem, Cause: err}
	}
	config := "---\nBUNDLE_PATH: vendor/bundle\nBUNDLE_BIN: bin\n"
	if err := os.WriteFile(filepath.Join(bundleDir, "config"), []byte(config), 0o644); err != nil {
		return &rherrors.InstallationError{Tool: t.gem, Cause: err}
	}

	cmd := exec.CommandContext(ctx, t.bundler, "install")
	cmd.Dir = t.installDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &rherrors.InstallationError{Tool: t.gem, Stdout: string(out), Cause: err}
	}
	return nil
}

func (t *RubyTool) Run(ctx context.Context, files []string) error {
	binPath := t.binaryPath()
	argv := append(append([]string{}, t.args...), files...)
	cmd := exec.CommandContext(ctx, binPath, argv...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &rherrors.ExecutionError{Tool: t.gem, ExitCode: exitCode, Stderr: stderr.String()}
	}
	return nil
}

func (t *RubyTool) IsInstalled() bool {
	return t.isInstalledAt(t.installDir)
}

func (t *RubyTool) isInstalledAt(installDir string) bool {
	if installDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(installDir, "bin", t.binaryName()))
	return err == nil
}

func (t *RubyTool) InstallDir() string { return t.installDir }
func (t *RubyTool) Name() string       { return t.id }
func (t *RubyTool) Version() string    { return t.version }

func (t *RubyTool) binaryName() string {
	fields, err := shellquote.Split(t.entry)
	if err != nil || len(fields) == 0 {
		return t.id
	}
	return fields[0]
}

func (t *RubyTool) binaryPath() string {
	return filepath.Join(t.installDir, "bin", t.binaryName())
}
