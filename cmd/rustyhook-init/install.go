package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// defaultStages is the set of git hook names rustyhook-init wires up by
// default. These are git's own hook script names; they are not the stage
// names a config's default_stages uses (which default to "commit").
var defaultStages = []string{"pre-commit", "pre-push", "commit-msg"}

const scriptTemplate = `#!/bin/sh
# installed by rustyhook-init; do not edit by hand
exec rustyhook run "$@"
`

const marker = "installed by rustyhook-init"

func findGitDir() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--git-dir").Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	dir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(wd, dir)
	}
	return dir, nil
}

// installHook writes the hook script for stage into gitDir/hooks/stage.
// An existing hook not previously installed by this tool is left alone
// unless force is set.
func installHook(gitDir, stage string, force, dryRun bool) error {
	hooksDir := filepath.Join(gitDir, "hooks")
	path := filepath.Join(hooksDir, stage)

	if existing, err := os.ReadFile(path); err == nil {
		if !strings.Contains(string(existing), marker) && !force {
			return fmt.Errorf("%s already exists and was not installed by rustyhook-init; rerun with --force to overwrite", path)
		}
	}

	if dryRun {
		return nil
	}

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", hooksDir, err)
	}
	if err := os.WriteFile(path, []byte(scriptTemplate), 0o755); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
