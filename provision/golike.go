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

	"github.com/rustyhook/rustyhook/rherrors"
)

// goDefaultVersion is the pinned default toolchain version used when no
// explicit version and no .go-version pin file is found.
const goDefaultVersion = "1.23.2"

// GoTool is the fourth, [NEW] provisioner variant: it downloads a pinned
// Go toolchain the same way NodeTool downloads a Node runtime, then
// installs the requested package with "go install pkg@version" and runs
// the resulting binary from GOBIN. Grounded in original_source's "golang"
// language tag, which ran "go build ./..." against a system toolchain; this
// variant keeps the hermetic-environment discipline the interpreted and
// Node provisioners use instead of trusting whatever "go" happens to be on
// PATH.
type GoTool struct {
	id      string
	entry   string
	args    []string
	urlTmpl string // formatted with (os, arch, version, ext)

	installDir string
	pkg        string
	version    string
}

func NewGoTool(id, entry string, args []string, urlTmpl string) *GoTool {
	return &GoTool{id: id, entry: entry, args: args, urlTmpl: urlTmpl}
}

func (t *GoTool) Setup(ctx context.Context, sc SetupContext) error {
	fields := strings.Fields(t.entry)
	if len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: t.id, Command: t.entry}
	}
	t.pkg = fields[0]
	t.installDir = sc.InstallDir

	resolved := resolveVersion(sc.Version, sc.InstallDir, []string{".go-version"}, goDefaultVersion)
	if resolved == "latest" || resolved == "" {
		resolved = goDefaultVersion
	}
	if norm, err := normalizeVersion(resolved); err == nil {
		resolved = norm
	}
	t.version = resolved

	if !sc.Force && t.IsInstalled() {
		return nil
	}

	toolchainRoot := filepath.Join(filepath.Dir(sc.InstallDir), "runtimes", "go", t.version)
	goBin := t.goBinaryPath(toolchainRoot)

	if !sc.Force {
		if _, err := os.Stat(goBin); err == nil {
			return t.installPackage(ctx, toolchainRoot)
		}
	}

	ext := "tar.gz"
	if runtime.GOOS == "windows" {
		ext = "zip"
	}
	url := fmt.Sprintf(t.urlTmpl, runtime.GOOS, runtime.GOARCH, t.version, ext)
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
	if err := extractArchive(resp.Body, kind, toolchainRoot); err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	if runtime.GOOS != "windows" {
		_ = markExecutable(goBin)
	}

	verify := exec.CommandContext(ctx, goBin, "version")
	if out, err := verify.CombinedOutput(); err != nil {
		return &rherrors.InstallationError{Tool: "go", Stdout: string(out), Cause: err}
	}

	return t.installPackage(ctx, toolchainRoot)
}

func (t *GoTool) installPackage(ctx context.Context, toolchainRoot string) error {
	if err := os.MkdirAll(t.installDir, 0o755); err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	goBin := t.goBinaryPath(toolchainRoot)
	target := t.pkg
	if !strings.Contains(target, "@") {
		target += "@latest"
	}
	cmd := exec.CommandContext(ctx, goBin, "install", target)
	cmd.Env = append(os.Environ(), "GOBIN="+t.installDir, "GOPATH="+filepath.Join(toolchainRoot, "gopath"))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Stdout: string(out), Cause: err}
	}
	return nil
}

func (t *GoTool) Run(ctx context.Context, files []string) error {
	argv := append(append([]string{}, t.args...), files...)
	cmd := exec.CommandContext(ctx, t.binaryPath(), argv...)
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

func (t *GoTool) IsInstalled() bool {
	_, err := os.Stat(t.binaryPath())
	return err == nil
}

func (t *GoTool) InstallDir() string { return t.installDir }
func (t *GoTool) Name() string       { return t.id }
func (t *GoTool) Version() string    { return t.version }

func (t *GoTool) binaryPath() string {
	name := t.binaryName()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(t.installDir, name)
}

func (t *GoTool) binaryName() string {
	parts := strings.Split(t.pkg, "/")
	last := parts[len(parts)-1]
	return strings.Split(last, "@")[0]
}

func (t *GoTool) goBinaryPath(toolchainRoot string) string {
	name := "go"
	if runtime.GOOS == "windows" {
		name = "go.exe"
	}
	return filepath.Join(toolchainRoot, "go", "bin", name)
}
