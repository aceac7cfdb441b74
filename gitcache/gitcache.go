// Package gitcache specializes the generic cache store for hook-definition
// repositories: legacy-config URL repos are cloned once and reused by
// directory name, rather than re-cloned on every run.
package gitcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-git/v5"
	"gopkg.in/yaml.v3"
)

const (
	manifestName = ".rustyhook-manifest.json"
	hookDefsName = ".pre-commit-hooks.yaml"
)

// HookDefinition is one entry from a cloned repo's own .pre-commit-hooks.yaml
// -- the file a hook-definition repo ships to tell consumers how to run
// each hook id it bundles, independent of whatever a caller's own
// .pre-commit-config.yaml says about that hook.
type HookDefinition struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Entry    string `yaml:"entry" json:"entry"`
	Language string `yaml:"language" json:"language"`
	Files    string `yaml:"files" json:"files"`
}

// hookDefinitionsFile accepts both the documented {hooks: [...]} wrapper and
// a bare top-level sequence: real-world .pre-commit-hooks.yaml files in the
// wild use either shape.
type hookDefinitionsFile struct {
	Hooks []HookDefinition `yaml:"hooks"`
}

// Manifest is the persisted record of one cloned hook-definition repo: the
// url/rev it was cloned from, plus whatever hook id -> (language, entry)
// pairs its own .pre-commit-hooks.yaml enumerated.
type Manifest struct {
	URL   string           `json:"url"`
	Rev   string           `json:"rev"`
	Hooks []HookDefinition `json:"hooks,omitempty"`
}

// Lookup finds the hook definition with the given id, if the manifest's
// repo shipped one.
func (m *Manifest) Lookup(id string) (HookDefinition, bool) {
	if m == nil {
		return HookDefinition{}, false
	}
	for _, h := range m.Hooks {
		if h.ID == id {
			return h, true
		}
	}
	return HookDefinition{}, false
}

// Cache clones and reuses hook-definition repositories under root, one
// subdirectory per URL.
type Cache struct {
	root string
}

// New builds a Cache rooted at root (typically "<cache-root>/repos").
func New(root string) *Cache {
	return &Cache{root: root}
}

// dirFor returns the stable, non-cryptographic hash-named directory for
// url. Collisions are statistically possible and accepted, per the cache
// manager's design.
func (c *Cache) dirFor(url string) string {
	h := xxhash.Sum64String(url)
	return filepath.Join(c.root, fmt.Sprintf("%016x", h))
}

// Clone returns the local directory and hook manifest for url, cloning rev
// if the directory isn't already a complete clone. A partial clone (a
// ".git" directory present but no manifest, meaning a prior attempt died
// mid-way) is purged and retried. The manifest enumerates whatever hook ids
// the cloned repo's own .pre-commit-hooks.yaml names, read once at clone
// time and persisted so a cache hit never re-reads the working tree.
func (c *Cache) Clone(url, rev string) (string, *Manifest, error) {
	dir := c.dirFor(url)

	if c.isComplete(dir) {
		m, err := readManifest(dir)
		if err != nil {
			return "", nil, err
		}
		return dir, m, nil
	}
	if c.isPartial(dir) {
		if err := os.RemoveAll(dir); err != nil {
			return "", nil, fmt.Errorf("failed to purge partial clone of %s: %w", url, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", nil, err
	}

	opts := &git.CloneOptions{URL: url}
	repo, err := git.PlainClone(dir, false, opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}

	if rev != "" {
		wt, err := repo.Worktree()
		if err != nil {
			return "", nil, fmt.Errorf("failed to open worktree for %s: %w", url, err)
		}
		hash, err := resolveRevision(repo, rev)
		if err != nil {
			return "", nil, fmt.Errorf("failed to resolve rev %q for %s: %w", rev, url, err)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: hash}); err != nil {
			return "", nil, fmt.Errorf("failed to checkout rev %q for %s: %w", rev, url, err)
		}
	}

	m := &Manifest{URL: url, Rev: rev, Hooks: readHookDefinitions(dir)}
	if err := writeManifest(dir, m); err != nil {
		return "", nil, err
	}
	return dir, m, nil
}

// readHookDefinitions best-effort parses the cloned repo's own
// .pre-commit-hooks.yaml. A missing or unparseable file yields no hooks
// rather than failing the clone -- plenty of URL repos predate the
// convention, or bundle only hooks this format can't describe.
func readHookDefinitions(dir string) []HookDefinition {
	data, err := os.ReadFile(filepath.Join(dir, hookDefsName))
	if err != nil {
		return nil
	}
	var wrapped hookDefinitionsFile
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Hooks) > 0 {
		return wrapped.Hooks
	}
	var bare []HookDefinition
	if err := yaml.Unmarshal(data, &bare); err == nil {
		return bare
	}
	return nil
}

func (c *Cache) isComplete(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err != nil {
		return false
	}
	return true
}

func (c *Cache) isPartial(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, manifestName))
	return err != nil
}

func writeManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest for %s: %w", m.URL, err)
	}
	return os.WriteFile(filepath.Join(dir, manifestName), data, 0o644)
}

func readManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest in %s: %w", dir, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest in %s: %w", dir, err)
	}
	return &m, nil
}
