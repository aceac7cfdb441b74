package provision

import (
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rustyhook/rustyhook/rherrors"
)

// SystemTool is the System-command provisioner: no
// hermetic environment is created at all. Setup only verifies that the
// command named by entry already resolves on PATH; Run shells out to the
// entry string split on whitespace, with hook args and the filtered file
// list appended.
type SystemTool struct {
	id      string
	entry   string
	args    []string
	command string // first whitespace token of entry, resolved at Setup
}

// NewSystemTool builds a SystemTool for the given hook id/entry/args.
func NewSystemTool(id, entry string, args []string) *SystemTool {
	return &SystemTool{id: id, entry: entry, args: args}
}

func (s *SystemTool) Setup(ctx context.Context, sc SetupContext) error {
	fields, err := shellquote.Split(s.entry)
	if err != nil || len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: s.id, Command: s.entry, Cause: err}
	}
	command := fields[0]
	if _, err := exec.LookPath(command); err != nil {
		return &rherrors.CommandNotFound{HookID: s.id, Command: command, Cause: err}
	}
	s.command = command
	return nil
}

func (s *SystemTool) Run(ctx context.Context, files []string) error {
	fields, err := shellquote.Split(s.entry)
	if err != nil || len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: s.id, Command: s.entry, Cause: err}
	}
	argv := append(append([]string{}, fields[1:]...), s.args...)
	argv = append(argv, files...)

	cmd := exec.CommandContext(ctx, fields[0], argv...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &rherrors.ExecutionError{Tool: fields[0], ExitCode: exitCode, Stderr: stderr.String()}
	}
	return nil
}

func (s *SystemTool) IsInstalled() bool {
	if s.command == "" {
		return false
	}
	_, err := exec.LookPath(s.command)
	return err == nil
}

func (s *SystemTool) InstallDir() string { return "" }
func (s *SystemTool) Name() string       { return s.id }
func (s *SystemTool) Version() string    { return "" }
