package provision

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveVersionExplicitWins(t *testing.T) {
	got := resolveVersion("3.9.0", t.TempDir(), []string{".python-version"}, "3.12.1")
	if got != "3.9.0" {
		t.Errorf("got %q, want 3.9.0", got)
	}
}

func TestResolveVersionFindsNearestAncestorPin(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".python-version"), []byte("3.10.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", ".python-version"), []byte("3.11.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := resolveVersion("", nested, []string{".python-version"}, "3.12.1")
	if got != "3.11.0" {
		t.Errorf("got %q, want nearest ancestor pin 3.11.0", got)
	}
}

func TestResolveVersionFallsBackWhenNoPin(t *testing.T) {
	got := resolveVersion("", t.TempDir(), []string{".python-version"}, "3.12.1")
	if got != "3.12.1" {
		t.Errorf("got %q, want fallback 3.12.1", got)
	}
}

func TestNormalizeVersionStripsVPrefix(t *testing.T) {
	got, err := normalizeVersion("v20.11.1")
	if err != nil {
		t.Fatalf("normalizeVersion: %v", err)
	}
	if got != "20.11.1" {
		t.Errorf("got %q, want 20.11.1", got)
	}
}

func TestNormalizeVersionRejectsGarbage(t *testing.T) {
	if _, err := normalizeVersion("not-a-version"); err == nil {
		t.Fatal("expected an error for an unparseable version")
	}
}
