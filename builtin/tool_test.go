package builtin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyhook/rustyhook/rherrors"
	"github.com/rustyhook/rustyhook/tool"
)

func TestNewToolUnknownID(t *testing.T) {
	if _, ok := NewTool("not-a-real-hook"); ok {
		t.Fatal("expected NewTool to reject an unknown id")
	}
}

func TestToolRunPassesForCleanFiles(t *testing.T) {
	tl, ok := NewTool("check-merge-conflict")
	if !ok {
		t.Fatal("expected check-merge-conflict to be registered")
	}
	path := filepath.Join(t.TempDir(), "clean.txt")
	os.WriteFile(path, []byte("nothing unusual here\n"), 0o644)

	if err := tl.Run(context.Background(), []string{path}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestToolRunAggregatesFailuresAcrossFiles(t *testing.T) {
	tl, ok := NewTool("check-merge-conflict")
	if !ok {
		t.Fatal("expected check-merge-conflict to be registered")
	}
	dir := t.TempDir()
	bad1 := filepath.Join(dir, "a.txt")
	bad2 := filepath.Join(dir, "b.txt")
	os.WriteFile(bad1, []byte("<<<<<<< HEAD\n"), 0o644)
	os.WriteFile(bad2, []byte(">>>>>>> branch\n"), 0o644)

	err := tl.Run(context.Background(), []string{bad1, bad2})
	ee, ok := err.(*rherrors.ExecutionError)
	if !ok {
		t.Fatalf("expected *rherrors.ExecutionError, got %#v", err)
	}
	if ee.Stderr == "" {
		t.Error("expected aggregated failure messages in Stderr")
	}
}

func TestToolSetupIsNoop(t *testing.T) {
	tl, _ := NewTool("check-json")
	if err := tl.Setup(context.Background(), tool.SetupContext{}); err != nil {
		t.Fatalf("Setup should never error: %v", err)
	}
}
