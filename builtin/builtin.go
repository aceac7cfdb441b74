// Package builtin implements the native, no-provisioning hook set: the
// always-available checks a legacy config can reference as hook_type
// "built-in" without naming a language or
// entry point. Each check is grounded on a single leaf behavior from
// original_source's hooks module, reimplemented natively rather than
// shelled out to an interpreter.
package builtin

import (
	"fmt"
	"os"
)

// Result is a single check's outcome against one file.
type Result struct {
	Path    string
	Ok      bool
	Fixed   bool   // true if the check mutated the file to make it pass
	Message string // populated when !Ok
}

// Check is the contract every built-in hook implements. Unlike tool.Tool,
// a Check operates one file at a time and never requires setup: there is
// no hermetic environment to provision.
type Check interface {
	// ID is the hook id this check answers to, e.g. "trailing-whitespace".
	ID() string
	// Run inspects (and for fixers, rewrites) a single file.
	Run(path string) (Result, error)
}

// registry maps hook id to a constructor, mirroring the legacy
// pre-commit-hooks meta-package's bundled entry points.
var registry = map[string]func() Check{
	"trailing-whitespace":     func() Check { return trailingWhitespace{} },
	"end-of-file-fixer":       func() Check { return endOfFileFixer{} },
	"check-yaml":              func() Check { return checkYAML{} },
	"check-json":              func() Check { return checkJSON{} },
	"check-toml":              func() Check { return checkTOML{} },
	"check-xml":               func() Check { return checkXML{} },
	"check-merge-conflict":    func() Check { return checkMergeConflict{} },
	"check-added-large-files": func() Check { return checkAddedLargeFiles{maxSizeKB: 500} },
	"check-case-conflict":     func() Check { return &checkCaseConflict{} },
	"detect-private-key":      func() Check { return detectPrivateKey{} },
	"check-hooks-apply":       func() Check { return checkHooksApply{} },
	"check-useless-excludes":  func() Check { return checkUselessExcludes{} },
}

// Lookup returns the check registered for id, or false if id names no
// built-in hook.
func Lookup(id string) (Check, bool) {
	ctor, ok := registry[id]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// IDs lists every known built-in hook id, in a stable order.
func IDs() []string {
	return []string{
		"trailing-whitespace", "end-of-file-fixer", "check-yaml", "check-json",
		"check-toml", "check-xml", "check-merge-conflict", "check-added-large-files",
		"check-case-conflict", "detect-private-key",
		"check-hooks-apply", "check-useless-excludes",
	}
}

func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return data, false, nil
}

func fail(path, format string, args ...any) Result {
	return Result{Path: path, Ok: false, Message: fmt.Sprintf(format, args...)}
}
