package rhconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nativeDocument mirrors the native YAML schema. Absent scalar fields decode
// to their zero value; absent list and map fields stay nil, which is what
// applyDefaults keys on when filling in defaults.
type nativeDocument struct {
	DefaultStages []string     `yaml:"default_stages"`
	FailFast      bool         `yaml:"fail_fast"`
	Parallelism   int          `yaml:"parallelism"`
	Repos         []nativeRepo `yaml:"repos"`
}

type nativeRepo struct {
	Repo  string      `yaml:"repo"`
	Hooks []nativeHook `yaml:"hooks"`
}

type nativeHook struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Entry           string            `yaml:"entry"`
	Language        string            `yaml:"language"`
	Files           string            `yaml:"files"`
	Exclude         string            `yaml:"exclude"`
	Stages          []string          `yaml:"stages"`
	Args            []string          `yaml:"args"`
	Env             map[string]string `yaml:"env"`
	Version         string            `yaml:"version"`
	HookType        string            `yaml:"hook_type"`
	SeparateProcess bool              `yaml:"separate_process"`
	AccessMode      string            `yaml:"access_mode"`
}

// LoadNative parses the native ".rustyhook.yaml" schema from path.
func LoadNative(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseNative(data)
}

// ParseNative parses the native schema from raw YAML bytes, for callers
// that already hold the configuration in memory (tests, LoadNative).
func ParseNative(data []byte) (*Configuration, error) {
	var doc nativeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := &Configuration{
		DefaultStages: doc.DefaultStages,
		FailFast:      doc.FailFast,
		Parallelism:   doc.Parallelism,
		Repos:         make([]Repo, len(doc.Repos)),
	}
	if cfg.DefaultStages == nil {
		cfg.DefaultStages = []string{"commit"}
	}

	for ri, r := range doc.Repos {
		hooks := make([]Hook, len(r.Hooks))
		for hi, h := range r.Hooks {
			hooks[hi] = Hook{
				ID:              h.ID,
				Name:            h.Name,
				Entry:           h.Entry,
				Language:        h.Language,
				Files:           h.Files,
				Exclude:         h.Exclude,
				Stages:          h.Stages,
				Args:            h.Args,
				Env:             h.Env,
				Version:         h.Version,
				HookType:        HookType(h.HookType),
				SeparateProcess: h.SeparateProcess,
				AccessMode:      AccessMode(h.AccessMode),
			}
		}
		cfg.Repos[ri] = Repo{RepoID: r.Repo, Hooks: hooks}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
