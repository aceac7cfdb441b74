package builtin

import (
	"context"
	"fmt"

	"github.com/rustyhook/rustyhook/rherrors"
	"github.com/rustyhook/rustyhook/tool"
)

// Tool adapts a Check to the tool.Tool contract so the resolver and
// scheduler can treat built-in hooks identically to provisioned ones.
// Setup is a no-op: there is no environment to bring up.
type Tool struct {
	id    string
	check Check
}

// NewTool looks up id in the registry and wraps it. The caller is
// expected to have already verified id names a built-in hook.
func NewTool(id string) (*Tool, bool) {
	c, ok := Lookup(id)
	if !ok {
		return nil, false
	}
	return &Tool{id: id, check: c}, true
}

func (t *Tool) Setup(ctx context.Context, sc tool.SetupContext) error {
	return nil
}

func (t *Tool) Run(ctx context.Context, files []string) error {
	var failures []string
	for _, f := range files {
		result, err := t.check.Run(f)
		if err != nil {
			return &rherrors.IoError{Op: fmt.Sprintf("builtin check %s on %s", t.id, f), Cause: err}
		}
		if !result.Ok {
			failures = append(failures, fmt.Sprintf("%s: %s", f, result.Message))
		}
	}
	if len(failures) > 0 {
		return &rherrors.ExecutionError{Tool: t.id, ExitCode: 1, Stderr: joinLines(failures)}
	}
	return nil
}

func (t *Tool) IsInstalled() bool   { return true }
func (t *Tool) InstallDir() string  { return "" }
func (t *Tool) Name() string        { return t.id }
func (t *Tool) Version() string     { return "" }

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
