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

// nodeLTSVersion is the pinned LTS version "lts" resolves to.
const nodeLTSVersion = "20.11.1"

// NodeTool is the Node-like provisioner.
type NodeTool struct {
	id      string
	entry   string
	args    []string
	devDeps bool
	urlTmpl string // formatted with (os, arch, version, ext)

	installDir string
	pkg        string
	version    string
}

func NewNodeTool(id, entry string, args []string, devDeps bool, urlTmpl string) *NodeTool {
	return &NodeTool{id: id, entry: entry, args: args, devDeps: devDeps, urlTmpl: urlTmpl}
}

func (t *NodeTool) Setup(ctx context.Context, sc SetupContext) error {
	t.pkg = aliasPackage("node", strings.Fields(t.entry)[0])
	t.installDir = sc.InstallDir

	resolved := resolveVersion(sc.Version, sc.InstallDir, []string{".node-version", ".nvmrc"}, nodeLTSVersion)
	if resolved == "lts" || resolved == "" || resolved == "latest" {
		resolved = nodeLTSVersion
	}
	t.version = resolved

	if !sc.Force && t.IsInstalled() {
		return nil
	}

	runtimeRoot := filepath.Join(filepath.Dir(sc.InstallDir), "runtimes", "node", t.version)
	nodeBin := t.nodeBinaryPath(runtimeRoot)

	if !sc.Force {
		if _, err := os.Stat(nodeBin); err == nil {
			return t.installPackages(ctx, runtimeRoot)
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
	if err := extractArchive(resp.Body, kind, runtimeRoot); err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	if runtime.GOOS != "windows" {
		_ = markExecutable(nodeBin)
	}

	verify := exec.CommandContext(ctx, nodeBin, "--version")
	if out, err := verify.CombinedOutput(); err != nil {
		return &rherrors.InstallationError{Tool: "node", Stdout: string(out), Cause: err}
	}

	return t.installPackages(ctx, runtimeRoot)
}

func (t *NodeTool) installPackages(ctx context.Context, runtimeRoot string) error {
	if err := os.MkdirAll(t.installDir, 0o755); err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
	}
	manifestPath := filepath.Join(t.installDir, "package.json")
	if _, err := os.Stat(manifestPath); err != nil {
		manifest := []byte(`{"name":"rustyhook-tool","private":true,"version":"0.0.0"}` + "\n")
		if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
			return &rherrors.InstallationError{Tool: t.pkg, Cause: err}
		}
	}

	npm := filepath.Join(runtimeRoot, "bin", "npm")
	if runtime.GOOS == "windows" {
		npm = filepath.Join(runtimeRoot, "npm.cmd")
	}
	argv := []string{"install"}
	if t.devDeps {
		argv = append(argv, "--save-dev")
	}
	argv = append(argv, t.pkg)

	cmd := exec.CommandContext(ctx, npm, argv...)
	cmd.Dir = t.installDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &rherrors.InstallationError{Tool: t.pkg, Stdout: string(out), Cause: err}
	}
	return nil
}

func (t *NodeTool) Run(ctx context.Context, files []string) error {
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
		return &rherrors.ExecutionError{Tool: t.pkg, ExitCode: exitCode, Stderr: stderr.String()}
	}
	return nil
}

func (t *NodeTool) IsInstalled() bool {
	_, err := os.Stat(t.binaryPath())
	return err == nil
}

func (t *NodeTool) InstallDir() string { return t.installDir }
func (t *NodeTool) Name() string       { return t.id }
func (t *NodeTool) Version() string    { return t.version }

func (t *NodeTool) binaryPath() string {
	name := t.id
	if runtime.GOOS == "windows" {
		name += ".cmd"
	}
	return filepath.Join(t.installDir, "node_modules", ".bin", name)
}

func (t *NodeTool) nodeBinaryPath(runtimeRoot string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(runtimeRoot, "node.exe")
	}
	return filepath.Join(runtimeRoot, "bin", "node")
}
