package builtin

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rustyhook/rustyhook/matcher"
	"github.com/rustyhook/rustyhook/rhconfig"
)

// checkHooksApply is pre-commit's "meta" housekeeping hook that flags any
// configured hook whose files/exclude patterns match none of the
// repository's tracked files -- almost always a sign the pattern was
// written for a layout the repo no longer has. It is configured against
// the legacy config file itself (files: \.pre-commit-config\.yaml$), so
// path here is the config path, not an arbitrary source file.
type checkHooksApply struct{}

func (checkHooksApply) ID() string { return "check-hooks-apply" }

func (checkHooksApply) Run(path string) (Result, error) {
	cfg, err := rhconfig.LoadLegacy(path, 0, nil, nil)
	if err != nil {
		return Result{}, err
	}
	tracked, err := trackedFiles(filepath.Dir(path))
	if err != nil {
		return Result{}, err
	}

	var idle []string
	for _, repo := range cfg.Repos {
		for _, h := range repo.Hooks {
			m, err := matcher.Compile(h.Files, h.Exclude)
			if err != nil {
				continue
			}
			if len(m.Filter(tracked)) == 0 {
				idle = append(idle, h.ID)
			}
		}
	}
	if len(idle) > 0 {
		return fail(path, "hooks match no tracked file: %s", strings.Join(idle, ", ")), nil
	}
	return Result{Path: path, Ok: true}, nil
}

// checkUselessExcludes is the companion meta hook: it flags hooks whose
// exclude pattern removes nothing that files wasn't already going to
// exclude on its own, a sign the exclude was written against a pattern
// that moved or never matched.
type checkUselessExcludes struct{}

func (checkUselessExcludes) ID() string { return "check-useless-excludes" }

func (checkUselessExcludes) Run(path string) (Result, error) {
	cfg, err := rhconfig.LoadLegacy(path, 0, nil, nil)
	if err != nil {
		return Result{}, err
	}
	tracked, err := trackedFiles(filepath.Dir(path))
	if err != nil {
		return Result{}, err
	}

	var useless []string
	for _, repo := range cfg.Repos {
		for _, h := range repo.Hooks {
			if h.Exclude == "" {
				continue
			}
			withExclude, err := matcher.Compile(h.Files, h.Exclude)
			if err != nil {
				continue
			}
			withoutExclude, err := matcher.Compile(h.Files, "")
			if err != nil {
				continue
			}
			if len(withExclude.Filter(tracked)) == len(withoutExclude.Filter(tracked)) {
				useless = append(useless, h.ID)
			}
		}
	}
	if len(useless) > 0 {
		return fail(path, "exclude pattern filters nothing: %s", strings.Join(useless, ", ")), nil
	}
	return Result{Path: path, Ok: true}, nil
}

// trackedFiles enumerates git's tracked files rooted at dir, the same
// subprocess pattern cmd/rustyhook-init's install step uses to locate a
// repository.
func trackedFiles(dir string) ([]string, error) {
	cmd := exec.Command("git", "ls-files")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files in %s: %w", dir, err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	files := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			files = append(files, l)
		}
	}
	return files, nil
}
