package rhconfig

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyhook/rustyhook/gitcache"
	"gopkg.in/yaml.v3"
)

// LegacyRepoKind identifies how a legacy repo entry supplies its hooks.
type LegacyRepoKind string

const (
	LegacyRepoLocal LegacyRepoKind = "local"
	LegacyRepoMeta  LegacyRepoKind = "meta"
	LegacyRepoURL   LegacyRepoKind = "url"
)

// RepoFetcher resolves a legacy URL repo to its local clone directory and
// hook manifest. *gitcache.Cache satisfies this; tests can substitute a
// stub without standing up a real git remote.
type RepoFetcher interface {
	Clone(url, rev string) (string, *gitcache.Manifest, error)
}

// RepoKind classifies a legacy repo string the way pre-commit does.
func RepoKind(repo string) LegacyRepoKind {
	switch repo {
	case "local":
		return LegacyRepoLocal
	case "meta":
		return LegacyRepoMeta
	default:
		return LegacyRepoURL
	}
}

type legacyDocument struct {
	MinimumPreCommitVersion string                 `yaml:"minimum_pre_commit_version"`
	DefaultStages           []string               `yaml:"default_stages"`
	DefaultLanguageVersion  map[string]string      `yaml:"default_language_version"`
	FailFast                bool                   `yaml:"fail_fast"`
	Repos                   []legacyRepo           `yaml:"repos"`
}

type legacyRepo struct {
	Repo  string       `yaml:"repo"`
	Rev   string       `yaml:"rev"`
	Hooks []legacyHook `yaml:"hooks"`
}

type legacyHook struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Entry      string            `yaml:"entry"`
	Language   string            `yaml:"language"`
	Files      string            `yaml:"files"`
	Exclude    string            `yaml:"exclude"`
	Stages     []string          `yaml:"stages"`
	Args       []string          `yaml:"args"`
	Env        map[string]string `yaml:"env"`
	AlwaysRun  bool              `yaml:"always_run"`
}

// LoadLegacy parses a ".pre-commit-config.yaml" file and translates it into
// the native Configuration model. parallelism is not part of the legacy
// schema, so the caller supplies whatever default the CLI wants (0 by
// default, matching "unbounded"). repoCache, if non-nil, is consulted for
// every URL-kind repo so hooks that omit language can be classified from
// the fetched repo's own .pre-commit-hooks.yaml instead of only the
// entry==id heuristic; pass nil to skip cloning entirely (e.g. in tests).
func LoadLegacy(path string, parallelism int, logger *slog.Logger, repoCache RepoFetcher) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy config %s: %w", path, err)
	}
	return ParseLegacy(data, parallelism, logger, repoCache)
}

// ParseLegacy is the byte-slice entry point, mirrored from LoadNative/
// ParseNative so tests don't need a filesystem.
func ParseLegacy(data []byte, parallelism int, logger *slog.Logger, repoCache RepoFetcher) (*Configuration, error) {
	var doc legacyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse legacy config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &Configuration{
		DefaultStages: doc.DefaultStages,
		FailFast:      doc.FailFast,
		Parallelism:   parallelism,
		Repos:         make([]Repo, len(doc.Repos)),
	}
	if cfg.DefaultStages == nil {
		cfg.DefaultStages = []string{"commit"}
	}

	for ri, r := range doc.Repos {
		kind := RepoKind(r.Repo)

		var manifest *gitcache.Manifest
		if kind == LegacyRepoURL && repoCache != nil {
			if _, m, cloneErr := repoCache.Clone(r.Repo, r.Rev); cloneErr != nil {
				logger.Warn("failed to fetch hook-definition repo; falling back to heuristic classification",
					"module", "rhconfig", "repo", r.Repo, "error", cloneErr)
			} else {
				manifest = m
			}
		}

		hooks := make([]Hook, len(r.Hooks))
		for hi, h := range r.Hooks {
			language := h.Language
			entry := h.Entry
			files := h.Files
			version := ""
			hookType := HookExternal

			switch {
			case kind == LegacyRepoMeta:
				// meta hooks are pre-commit's own built-in housekeeping
				// checks; there is no language or entry to resolve, and
				// they always run against the config file itself -- the
				// same default pre-commit's bundled meta package ships.
				language = "system"
				hookType = HookBuiltin
				if files == "" {
					files = `\.pre-commit-config\.yaml$`
				}
				if entry == "" {
					entry = h.ID
				}
			case language != "":
				// explicit language: nothing further to resolve.
			case manifest != nil:
				// prefer manifest-driven classification over the
				// entry==id heuristic whenever the fetched repo provides
				// one.
				if def, ok := manifest.Lookup(h.ID); ok {
					language = def.Language
					if entry == "" {
						entry = def.Entry
					}
					if entry == h.ID {
						hookType = HookBuiltin
					}
				} else {
					language = "system"
				}
			case entry == h.ID:
				// Historical heuristic for when no manifest is available;
				// not ground truth, so it's logged rather than trusted
				// silently.
				hookType = HookBuiltin
				language = "system"
				logger.Warn("classifying hook as built-in via entry==id heuristic; unverified",
					"module", "rhconfig", "repo", r.Repo, "hook", h.ID)
			default:
				language = "system"
			}

			if v, ok := doc.DefaultLanguageVersion[language]; ok {
				version = v
			}

			hooks[hi] = Hook{
				ID:              h.ID,
				Name:            firstNonEmpty(h.Name, h.ID),
				Entry:           entry,
				Language:        language,
				Files:           files,
				Exclude:         h.Exclude,
				Stages:          h.Stages,
				Args:            h.Args,
				Env:             h.Env,
				Version:         version,
				HookType:        hookType,
				SeparateProcess: kind == LegacyRepoURL,
				AccessMode:      AccessReadWrite,
			}
		}
		cfg.Repos[ri] = Repo{RepoID: r.Repo, Rev: r.Rev, Hooks: hooks}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
