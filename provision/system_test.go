package provision

import (
	"context"
	"testing"
)

func TestSystemToolSetupAndRun(t *testing.T) {
	st := NewSystemTool("true-hook", "true", nil)
	if err := st.Setup(context.Background(), SetupContext{}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !st.IsInstalled() {
		t.Fatal("expected IsInstalled to be true once Setup resolves the command")
	}
	if err := st.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSystemToolSetupFailsForUnknownCommand(t *testing.T) {
	st := NewSystemTool("nope-hook", "this-command-does-not-exist-anywhere", nil)
	if err := st.Setup(context.Background(), SetupContext{}); err == nil {
		t.Fatal("expected Setup to fail for an unresolvable command")
	}
}

func TestSystemToolRunReportsNonZeroExit(t *testing.T) {
	st := NewSystemTool("false-hook", "false", nil)
	if err := st.Setup(context.Background(), SetupContext{}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := st.Run(context.Background(), nil); err == nil {
		t.Fatal("expected Run to surface the non-zero exit from \"false\"")
	}
}
