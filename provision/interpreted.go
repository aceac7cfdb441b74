package provision

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rustyhook/rustyhook/rherrors"
)

// metaPackageHooks maps a legacy meta-package name to the set of hook ids
// it bundles, so Run can invoke "-m <package>.<hook>" instead of looking
// for a standalone binary. Grounded in original_source's bundled
// pre-commit-hooks set.
var metaPackageHooks = map[string]map[string]bool{
	"pre-commit-hooks": {
		"trailing-whitespace":     true,
		"end-of-file-fixer":       true,
		"check-yaml":              true,
		"check-json":              true,
		"check-toml":              true,
		"check-xml":               true,
		"check-merge-conflict":    true,
		"check-added-large-files": true,
		"check-case-conflict":     true,
		"detect-private-key":      true,
	},
}

// InterpretedTool is the Python-family provisioner. It
// never trusts a system interpreter: every hook runs inside a hermetic
// environment built from a downloaded standalone interpreter archive.
type InterpretedTool struct {
	id         string
	language   string // e.g. "python"
	entry      string
	args       []string
	pinFiles   []string // e.g. [".python-version"]
	urlTmpl    string    // fixed download URL template
	defaultVer string

	installDir string
	binDir     string
	pkg        string // primary package name, post-alias
	version    string
}

// NewInterpretedTool builds an InterpretedTool. urlTmpl is formatted with
// (os, arch, buildSeries, version) via fmt.Sprintf with %s placeholders in
// that order.
func NewInterpretedTool(id, language, entry string, args []string, pinFiles []string, urlTmpl, defaultVer string) *InterpretedTool {
	return &InterpretedTool{
		id: id, language: language, entry: entry, args: args,
		pinFiles: pinFiles, urlTmpl: urlTmpl, defaultVer: defaultVer,
	}
}

func (t *InterpretedTool) Setup(ctx context.Context, sc SetupContext) error {
	fields, err := shellquote.Split(t.entry)
	if err != nil || len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: t.id, Command: t.entry, Cause: err}
	}
	t.pkg = aliasPackage(t.language, fields[0])

	resolved := resolveVersion(sc.Version, sc.InstallDir, t.pinFiles, t.defaultVer)
	if resolved == "latest" || resolved == "" {
		resolved = t.defaultVer
	}
	norm, err := normalizeVersion(resolved)
	if err == nil {
		resolved = norm
	}
	t.version = resolved
	t.installDir = sc.InstallDir

	langRoot := filepath.Join(sc.InstallDir, t.language)
	if !sc.Force {
		if _, statErr := os.Stat(t.expectedBinPath(langRoot)); statErr == nil {
			t.binDir = t.binDirFor(langRoot)
			return nil
		}
	}

	url := fmt.Sprintf(t.urlTmpl, runtime.GOOS, runtime.GOARCH, "standalone", t.version)
	kind, err := detectArchiveKind(url)
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	resp, err := http.Get(url)
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: fmt.Errorf("download returned status %d", resp.StatusCode)}
	}
	if err := extractArchive(resp.Body, kind, langRoot); err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	if runtime.GOOS != "windows" {
		_ = markExecutable(t.interpreterPath(langRoot))
	}

	if err := t.createVenv(ctx, langRoot); err != nil {
		return err
	}
	if err := t.installPackages(ctx); err != nil {
		return err
	}
	return nil
}

func (t *InterpretedTool) createVenv(ctx context.Context, langRoot string) error {
	interp := t.interpreterPath(langRoot)
	cmd := exec.CommandContext(ctx, interp, "-m", "venv", t.installDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Stdout: string(out), Cause: err}
	}
	t.binDir = t.binDirFor(langRoot)
	return nil
}

func (t *InterpretedTool) installPackages(ctx context.Context) error {
	pip := filepath.Join(t.binDir, pipBinaryName())
	uv := filepath.Join(t.binDir, uvBinaryName())

	installUv := exec.CommandContext(ctx, pip, "install", "uv")
	if out, err := installUv.CombinedOutput(); err == nil {
		installPkg := exec.CommandContext(ctx, uv, "pip", "install", "--python", t.pythonBinaryPath(), t.pkg)
		if out2, err2 := installPkg.CombinedOutput(); err2 == nil {
			return nil
		} else {
			_ = out2
		}
	} else {
		_ = out
	}

	cmd := exec.CommandContext(ctx, pip, "install", t.pkg)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Stdout: string(out), Cause: err}
	}
	return nil
}

func (t *InterpretedTool) Run(ctx context.Context, files []string) error {
	if meta, ok := t.metaHookTarget(); ok {
		return t.runModule(ctx, meta, files)
	}
	binPath := filepath.Join(t.binDir, t.id)
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}
	return t.runBinary(ctx, binPath, files)
}

func (t *InterpretedTool) metaHookTarget() (string, bool) {
	hooks, ok := metaPackageHooks[t.pkg]
	if !ok || !hooks[t.id] {
		return "", false
	}
	return strings.ReplaceAll(t.id, "-", "_"), true
}

func (t *InterpretedTool) runModule(ctx context.Context, hookModule string, files []string) error {
	argv := append([]string{"-m", fmt.Sprintf("%s.%s", strings.ReplaceAll(t.pkg, "-", "_"), hookModule)}, t.args...)
	argv = append(argv, files...)
	cmd := exec.CommandContext(ctx, t.pythonBinaryPath(), argv...)
	return t.runCmd(cmd)
}

func (t *InterpretedTool) runBinary(ctx context.Context, binPath string, files []string) error {
	argv := append(append([]string{}, t.args...), files...)
	cmd := exec.CommandContext(ctx, binPath, argv...)
	return t.runCmd(cmd)
}

func (t *InterpretedTool) runCmd(cmd *exec.Cmd) error {
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &rherrors.ExecutionError{Tool: t.pkg, ExitCode: exitCode, Stderr: stderr.String()}
	}
	return nil
}

func (t *InterpretedTool) IsInstalled() bool {
	if t.binDir == "" {
		return false
	}
	_, err := os.Stat(t.pythonBinaryPath())
	return err == nil
}

func (t *InterpretedTool) InstallDir() string { return t.installDir }
func (t *InterpretedTool) Name() string       { return t.id }
func (t *InterpretedTool) Version() string    { return t.version }

func (t *InterpretedTool) interpreterPath(langRoot string) string {
	name := "python3"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(langRoot, "bin", name)
}

func (t *InterpretedTool) pythonBinaryPath() string {
	return filepath.Join(t.binDirFor(""), pythonBinaryName())
}

func (t *InterpretedTool) expectedBinPath(langRoot string) string {
	return t.interpreterPath(langRoot)
}

func (t *InterpretedTool) binDirFor(langRoot string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(t.installDir, "Scripts")
	}
	return filepath.Join(t.installDir, "bin")
}

func pythonBinaryName() string {
	if runtime.GOOS == "windows" {
		return "python.exe"
	}
	return "python3"
}

func pipBinaryName() string {
	if runtime.GOOS == "windows" {
		return "pip.exe"
	}
	return "pip"
}

func uvBinaryName() string {
	if runtime.GOOS == "windows" {
		return "uv.exe"
	}
	return "uv"
}

// aliasPackage rewrites a small set of known entry tokens to their actual
// package-manager names, per the resolver's alias table.
func aliasPackage(language, token string) string {
	switch language {
	case "python":
		if token == "shellcheck" {
			return "shellcheck-py"
		}
	case "node":
		if token == "biome" {
			return "@biomejs/biome"
		}
	}
	return token
}
