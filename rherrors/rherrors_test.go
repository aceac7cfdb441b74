package rherrors

import (
	"errors"
	"testing"
)

func TestHookNotFoundMessages(t *testing.T) {
	repoErr := &HookNotFound{RepoID: "local", Reason: "repo"}
	if repoErr.Error() == "" || repoErr.Remediation() == "" {
		t.Fatal("expected non-empty error and remediation strings")
	}

	hookErr := &HookNotFound{RepoID: "local", HookID: "lint", Reason: "hook"}
	if hookErr.Error() == repoErr.Error() {
		t.Fatal("expected distinct messages for repo vs hook not-found")
	}
}

func TestErrorsAreWrappable(t *testing.T) {
	cause := errors.New("boom")
	err := &ToolNotFound{Tool: "eslint", Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}

	var toolNotFound *ToolNotFound
	if !errors.As(err, &toolNotFound) {
		t.Fatal("expected errors.As to match *ToolNotFound")
	}
}

func TestRemediableInterfaceSatisfied(t *testing.T) {
	var errs []Remediable = []Remediable{
		&HookNotFound{Reason: "repo"},
		&UnsupportedLanguage{Language: "cobol"},
		&InvalidPattern{Pattern: "("},
		&ToolNotFound{Tool: "x"},
		&InstallationError{Tool: "x"},
		&ExecutionError{Tool: "x"},
		&ProcessError{HookID: "x"},
		&CommandNotFound{HookID: "x", Command: "x"},
		&FileNotFound{Path: "x"},
		&IoError{Op: "read"},
	}
	for _, e := range errs {
		if e.Error() == "" {
			t.Errorf("%T: empty Error()", e)
		}
		if e.Remediation() == "" {
			t.Errorf("%T: empty Remediation()", e)
		}
	}
}
