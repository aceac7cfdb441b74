// Package rhconfig is the in-memory configuration model the rest of the
// engine consumes: Hook and Repo descriptors, the top-level Configuration,
// and loaders for both the native ".rustyhook.yaml" format and the legacy
// ".pre-commit-config.yaml" format. Parsing itself is a thin collaborator
// (per the engine's own scope) -- this package's job is to hand the
// resolver/scheduler a validated, normalized Configuration.
package rhconfig

import (
	"fmt"
)

// AccessMode declares a hook's intent toward the shared workspace.
type AccessMode string

const (
	AccessRead      AccessMode = "read"
	AccessReadWrite AccessMode = "read-write"
)

// HookType distinguishes in-process built-in checks from external commands.
type HookType string

const (
	HookBuiltin  HookType = "built-in"
	HookExternal HookType = "external"
)

// Hook is a single check: what to run, where, and on which files.
type Hook struct {
	ID              string            `yaml:"id" json:"id"`
	Name            string            `yaml:"name" json:"name"`
	Entry           string            `yaml:"entry" json:"entry"`
	Language        string            `yaml:"language" json:"language"`
	Files           string            `yaml:"files" json:"files"`
	Exclude         string            `yaml:"exclude" json:"exclude"`
	Stages          []string          `yaml:"stages" json:"stages"`
	Args            []string          `yaml:"args" json:"args"`
	Env             map[string]string `yaml:"env" json:"env"`
	Version         string            `yaml:"version" json:"version"`
	HookType        HookType          `yaml:"hook_type" json:"hook_type"`
	SeparateProcess bool              `yaml:"separate_process" json:"separate_process"`
	AccessMode      AccessMode        `yaml:"access_mode" json:"access_mode"`
}

// Clone returns a deep-enough copy of Hook safe to hand to a concurrent
// scheduler task: slices and maps are copied so no task shares mutable
// state with the Configuration or with any other task.
func (h Hook) Clone() Hook {
	c := h
	if h.Stages != nil {
		c.Stages = append([]string(nil), h.Stages...)
	}
	if h.Args != nil {
		c.Args = append([]string(nil), h.Args...)
	}
	if h.Env != nil {
		c.Env = make(map[string]string, len(h.Env))
		for k, v := range h.Env {
			c.Env[k] = v
		}
	}
	return c
}

// Repo groups an ordered list of hooks under a repo identifier. For native
// configs "repo" is typically a local label; for legacy configs it may be a
// "local" / "meta" marker or a git URL (see LegacyRepoKind).
type Repo struct {
	RepoID string `yaml:"repo" json:"repo"`
	Rev    string `yaml:"rev,omitempty" json:"rev,omitempty"`
	Hooks  []Hook `yaml:"hooks" json:"hooks"`
}

// Configuration is the fully resolved, validated set of repos and hooks a
// run operates over.
type Configuration struct {
	DefaultStages []string `yaml:"default_stages" json:"default_stages"`
	FailFast      bool     `yaml:"fail_fast" json:"fail_fast"`
	Parallelism   int      `yaml:"parallelism" json:"parallelism"`
	Repos         []Repo   `yaml:"repos" json:"repos"`
}

// Clone deep-copies the configuration so it can be captured by async
// scheduler tasks without pinning the resolver's own copy.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	out := &Configuration{
		DefaultStages: append([]string(nil), c.DefaultStages...),
		FailFast:      c.FailFast,
		Parallelism:   c.Parallelism,
		Repos:         make([]Repo, len(c.Repos)),
	}
	for i, r := range c.Repos {
		hooks := make([]Hook, len(r.Hooks))
		for j, h := range r.Hooks {
			hooks[j] = h.Clone()
		}
		out.Repos[i] = Repo{RepoID: r.RepoID, Rev: r.Rev, Hooks: hooks}
	}
	return out
}

// Validate enforces the invariants from the data model: hook ids unique
// within their repo, language known-or-system is left to the resolver (it
// owns the provisioner table), but structural requirements are checked
// here since they don't depend on which provisioners are registered.
func (c *Configuration) Validate() error {
	for _, repo := range c.Repos {
		seen := make(map[string]struct{}, len(repo.Hooks))
		for _, h := range repo.Hooks {
			if h.ID == "" {
				return fmt.Errorf("repo %q: hook with empty id", repo.RepoID)
			}
			if _, dup := seen[h.ID]; dup {
				return fmt.Errorf("repo %q: duplicate hook id %q", repo.RepoID, h.ID)
			}
			seen[h.ID] = struct{}{}
			if h.Name == "" {
				return fmt.Errorf("repo %q hook %q: name is required", repo.RepoID, h.ID)
			}
			if h.Entry == "" {
				return fmt.Errorf("repo %q hook %q: entry is required", repo.RepoID, h.ID)
			}
			if h.Language == "" {
				return fmt.Errorf("repo %q hook %q: language is required", repo.RepoID, h.ID)
			}
		}
	}
	return nil
}

// applyDefaults fills in the schema defaults: stages
// default to default_stages, args/env default to empty, hook_type defaults
// to external, access_mode defaults to read-write.
func (c *Configuration) applyDefaults() {
	if c.DefaultStages == nil {
		c.DefaultStages = []string{"commit"}
	}
	for ri := range c.Repos {
		for hi := range c.Repos[ri].Hooks {
			h := &c.Repos[ri].Hooks[hi]
			if h.Stages == nil {
				h.Stages = append([]string(nil), c.DefaultStages...)
			}
			if h.Args == nil {
				h.Args = []string{}
			}
			if h.Env == nil {
				h.Env = map[string]string{}
			}
			if h.HookType == "" {
				h.HookType = HookExternal
			}
			if h.AccessMode == "" {
				h.AccessMode = AccessReadWrite
			}
		}
	}
}
