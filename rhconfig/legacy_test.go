package rhconfig

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/rustyhook/rustyhook/gitcache"
)

const sampleLegacy = `
fail_fast: false
default_language_version:
  python: "3.11.0"
repos:
  - repo: local
    hooks:
      - id: trailing-whitespace
        name: trailing-whitespace
        entry: trailing-whitespace
        language: python
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: check-yaml
        entry: check-yaml
`

func TestParseLegacyTranslatesRepoKinds(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg, err := ParseLegacy([]byte(sampleLegacy), 2, logger, nil)
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if cfg.Parallelism != 2 {
		t.Errorf("Parallelism = %d, want 2", cfg.Parallelism)
	}
	if len(cfg.Repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(cfg.Repos))
	}

	local := cfg.Repos[0].Hooks[0]
	if local.Version != "3.11.0" {
		t.Errorf("expected default_language_version to populate Version, got %q", local.Version)
	}
	if local.SeparateProcess {
		t.Error("local repo hooks should not be marked separate_process")
	}

	url := cfg.Repos[1].Hooks[0]
	if !url.SeparateProcess {
		t.Error("url repo hooks should be marked separate_process")
	}
	if url.HookType != HookBuiltin {
		t.Errorf("entry==id heuristic should classify check-yaml as built-in, got %q", url.HookType)
	}
	if buf.Len() == 0 {
		t.Error("expected the entry==id heuristic to log a warning")
	}
}

const metaLegacy = `
repos:
  - repo: meta
    hooks:
      - id: check-hooks-apply
      - id: check-useless-excludes
`

func TestParseLegacyClassifiesMetaHooksAsBuiltinRegardlessOfEntry(t *testing.T) {
	cfg, err := ParseLegacy([]byte(metaLegacy), 0, nil, nil)
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	hooks := cfg.Repos[0].Hooks
	for _, h := range hooks {
		if h.HookType != HookBuiltin {
			t.Errorf("hook %q: HookType = %q, want %q", h.ID, h.HookType, HookBuiltin)
		}
		if h.Language != "system" {
			t.Errorf("hook %q: Language = %q, want system", h.ID, h.Language)
		}
		if h.Files == "" {
			t.Errorf("hook %q: expected a default config-matching files pattern", h.ID)
		}
	}
}

const urlLegacyNoLanguage = `
repos:
  - repo: https://example.com/hooks.git
    rev: main
    hooks:
      - id: custom-lint
`

// stubFetcher is a RepoFetcher that returns a fixed manifest without ever
// touching the filesystem or network, so manifest-driven classification can
// be tested independently of gitcache's real cloning.
type stubFetcher struct {
	manifest *gitcache.Manifest
}

func (s stubFetcher) Clone(url, rev string) (string, *gitcache.Manifest, error) {
	return "", s.manifest, nil
}

func TestParseLegacyPrefersManifestOverEntryHeuristic(t *testing.T) {
	fetcher := stubFetcher{manifest: &gitcache.Manifest{
		URL: "https://example.com/hooks.git",
		Rev: "main",
		Hooks: []gitcache.HookDefinition{
			{ID: "custom-lint", Entry: "custom-lint --strict", Language: "node"},
		},
	}}

	cfg, err := ParseLegacy([]byte(urlLegacyNoLanguage), 0, nil, fetcher)
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	hook := cfg.Repos[0].Hooks[0]
	if hook.Language != "node" {
		t.Errorf("Language = %q, want node (from manifest, not the system fallback)", hook.Language)
	}
	if hook.Entry != "custom-lint --strict" {
		t.Errorf("Entry = %q, want the manifest's entry", hook.Entry)
	}
	if hook.HookType != HookExternal {
		t.Errorf("HookType = %q, want external since entry != id", hook.HookType)
	}
}

func TestRepoKindClassification(t *testing.T) {
	cases := map[string]LegacyRepoKind{
		"local": LegacyRepoLocal,
		"meta":  LegacyRepoMeta,
		"https://github.com/pre-commit/pre-commit-hooks": LegacyRepoURL,
	}
	for repo, want := range cases {
		if got := RepoKind(repo); got != want {
			t.Errorf("RepoKind(%q) = %q, want %q", repo, got, want)
		}
	}
}
