// Package hookctx implements C4, the Hook Context: an immutable
// per-execution record built from a resolved hook descriptor, a working
// directory, and the already-filtered file list it will run against.
package hookctx

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rustyhook/rustyhook/rhconfig"
	"github.com/rustyhook/rustyhook/rherrors"
	"github.com/rustyhook/rustyhook/tool"
)

// Context is constructed once per hook invocation and never mutated.
type Context struct {
	Hook       rhconfig.Hook
	WorkingDir string
	Files      []string
}

// New builds a Context. Callers are expected to have already run the
// hook's matcher over the candidate files.
func New(hook rhconfig.Hook, workingDir string, files []string) *Context {
	return &Context{Hook: hook, WorkingDir: workingDir, Files: files}
}

// ShouldRunInSeparateProcess reports whether this hook must be dispatched
// as its own subprocess rather than in-process through a Tool.
func (c *Context) ShouldRunInSeparateProcess() bool {
	return c.Hook.SeparateProcess || c.Hook.HookType == rhconfig.HookExternal
}

// RunInSeparateProcess spawns the hook's entry command with its args and
// the context's files appended, inheriting the hook's declared env and
// running with WorkingDir as the current directory.
func (c *Context) RunInSeparateProcess(ctx context.Context) error {
	if strings.TrimSpace(c.Hook.Entry) == "" {
		return &rherrors.ProcessError{HookID: c.Hook.ID, Message: "empty entry"}
	}

	fields, err := shellquote.Split(c.Hook.Entry)
	if err != nil || len(fields) == 0 {
		return &rherrors.CommandNotFound{HookID: c.Hook.ID, Command: c.Hook.Entry, Cause: err}
	}

	argv := append(append(append([]string{}, fields[1:]...), c.Hook.Args...), c.Files...)
	cmd := exec.CommandContext(ctx, fields[0], argv...)
	cmd.Dir = c.WorkingDir
	cmd.Env = mergeEnv(c.Hook.Env)

	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return &rherrors.ProcessError{HookID: c.Hook.ID, ExitCode: ee.ExitCode(), Stderr: stderr.String(), Message: err.Error()}
		}
		return &rherrors.CommandNotFound{HookID: c.Hook.ID, Command: fields[0], Cause: err}
	}
	return nil
}

// Execute is the single dispatch point the resolver calls: an empty file
// list is a trivial success, otherwise it branches on
// ShouldRunInSeparateProcess, delegating to the caller-supplied Tool when
// running in-process.
func (c *Context) Execute(ctx context.Context, t tool.Tool) error {
	if len(c.Files) == 0 {
		return nil
	}
	if c.ShouldRunInSeparateProcess() {
		return c.RunInSeparateProcess(ctx)
	}
	if t == nil {
		return &rherrors.ProcessError{HookID: c.Hook.ID, Message: "in-process hook has no tool"}
	}
	return t.Run(ctx, c.Files)
}

// mergeEnv inherits the current process environment and appends the
// hook's declared overrides, matching exec.Cmd's nil-Env inheritance
// behavior while still layering in hook-specific variables.
func mergeEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
