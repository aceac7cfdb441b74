// Package resolver implements C5, the Hook Resolver: the component that
// turns a (repo_id, hook_id) pair into a runnable tool.Tool, backed by a
// per-run tool cache so a language+id combination is only ever set up
// once.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/rustyhook/rustyhook/builtin"
	"github.com/rustyhook/rustyhook/hookctx"
	"github.com/rustyhook/rustyhook/matcher"
	"github.com/rustyhook/rustyhook/provision"
	"github.com/rustyhook/rustyhook/rhconfig"
	"github.com/rustyhook/rustyhook/rherrors"
	"github.com/rustyhook/rustyhook/tool"
)

// URLTemplates carries the fixed download-URL templates each provisioner
// variant needs. They're configuration, not hardcoded constants, so tests
// and alternate mirrors can override them.
type URLTemplates struct {
	Python string
	Node   string
	Go     string
}

// DefaultURLTemplates matches the fixed template shape the engine ships
// with: indexed %[n]s placeholders over the arguments each provisioner
// passes, (os, arch, buildSeries, version) for Python and
// (os, arch, version, ext) for Node and Go.
var DefaultURLTemplates = URLTemplates{
	Python: "https://github.com/indygreg/python-build-standalone/releases/download/latest/cpython-%[4]s-%[1]s-%[2]s-standalone.tar.gz",
	Node:   "https://nodejs.org/dist/v%[3]s/node-v%[3]s-%[1]s-%[2]s.%[4]s",
	Go:     "https://go.dev/dl/go%[3]s.%[1]s-%[2]s.%[4]s",
}

// knownLanguages lists every language tag create_tool recognizes,
// reported verbatim in UnsupportedLanguage errors.
var knownLanguages = []string{"python", "node", "go", "ruby", "system", "system-command"}

// Resolver holds the active configuration, the cache root every
// provisioner installs under, a per-run tool cache, and the hook ids to
// skip entirely.
type Resolver struct {
	cfg       *rhconfig.Configuration
	cacheRoot string
	skip      map[string]struct{}
	urls      URLTemplates
	logger    *slog.Logger

	mu    sync.Mutex
	tools map[string]tool.Tool
}

// New builds a Resolver over cfg. skip names hook ids excluded from
// run_all (and reported not-found-free from run_hook — they are simply
// never dispatched).
func New(cfg *rhconfig.Configuration, cacheRoot string, skip []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	skipSet := make(map[string]struct{}, len(skip))
	for _, id := range skip {
		skipSet[id] = struct{}{}
	}
	return &Resolver{
		cfg:       cfg,
		cacheRoot: cacheRoot,
		skip:      skipSet,
		urls:      DefaultURLTemplates,
		logger:    logger,
		tools:     make(map[string]tool.Tool),
	}
}

// Configuration returns the resolver's active, validated configuration.
func (r *Resolver) Configuration() *rhconfig.Configuration { return r.cfg }

// Skip reports whether hookID has been excluded from this run.
func (r *Resolver) Skip(hookID string) bool {
	_, skipped := r.skip[hookID]
	return skipped
}

// Resolve performs a linear search of repos then hooks for exact string
// equality, returning a cloned descriptor so callers can't mutate the
// resolver's own configuration.
func (r *Resolver) Resolve(repoID, hookID string) (rhconfig.Hook, error) {
	for _, repo := range r.cfg.Repos {
		if repo.RepoID != repoID {
			continue
		}
		for _, h := range repo.Hooks {
			if h.ID == hookID {
				return h.Clone(), nil
			}
		}
		return rhconfig.Hook{}, &rherrors.HookNotFound{RepoID: repoID, HookID: hookID, Reason: "hook"}
	}
	return rhconfig.Hook{}, &rherrors.HookNotFound{RepoID: repoID, HookID: hookID, Reason: "repo"}
}

// CreateTool maps hook.Language to a provisioner variant. The tool's name
// is the hook id; the first whitespace-delimited token of entry is the
// primary package, rewritten through the alias table before use.
func (r *Resolver) CreateTool(hook rhconfig.Hook) (tool.Tool, error) {
	if hook.HookType == rhconfig.HookBuiltin {
		if t, ok := builtin.NewTool(hook.ID); ok {
			return t, nil
		}
		return nil, &rherrors.HookNotFound{RepoID: "", HookID: hook.ID, Reason: "hook"}
	}

	switch hook.Language {
	case "python":
		return provision.NewInterpretedTool(hook.ID, "python", hook.Entry, hook.Args,
			[]string{".python-version"}, r.urls.Python, "3.12.1"), nil
	case "node":
		devDeps := false
		return provision.NewNodeTool(hook.ID, hook.Entry, hook.Args, devDeps, r.urls.Node), nil
	case "go":
		return provision.NewGoTool(hook.ID, hook.Entry, hook.Args, r.urls.Go), nil
	case "ruby":
		return provision.NewRubyTool(hook.ID, hook.Entry, hook.Args, hook.Version), nil
	case "system", "system-command", "":
		return provision.NewSystemTool(hook.ID, hook.Entry, hook.Args), nil
	default:
		return nil, &rherrors.UnsupportedLanguage{Language: hook.Language, Known: knownLanguages}
	}
}

// CacheKey returns the tool-cache key for hook: "<language>-<id>".
func CacheKey(hook rhconfig.Hook) string {
	return fmt.Sprintf("%s-%s", hook.Language, hook.ID)
}

// InstallDir returns the install directory SetupTool would use for hook,
// without provisioning anything -- a read-only computation for callers
// like "doctor" that only want to inspect on-disk state.
func (r *Resolver) InstallDir(hook rhconfig.Hook) string {
	return filepath.Join(r.cacheRoot, "venvs", CacheKey(hook))
}

// SetupTool looks up or creates-and-sets-up the Tool for hook, keyed by
// "<language>-<id>" so repeated calls for the same hook within one run
// return the same retained instance instead of re-provisioning.
func (r *Resolver) SetupTool(ctx context.Context, hook rhconfig.Hook) (tool.Tool, error) {
	key := CacheKey(hook)

	r.mu.Lock()
	if t, ok := r.tools[key]; ok {
		r.mu.Unlock()
		return t, nil
	}
	r.mu.Unlock()

	t, err := r.CreateTool(hook)
	if err != nil {
		return nil, err
	}

	version := hook.Version
	if version == "" {
		version = "latest"
	}
	sc := tool.SetupContext{
		InstallDir: filepath.Join(r.cacheRoot, "venvs", key),
		CacheDir:   filepath.Join(r.cacheRoot, "cache", key),
		Force:      false,
		Version:    version,
	}
	if err := t.Setup(ctx, sc); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.tools[key] = t
	r.mu.Unlock()
	return t, nil
}

// RunHook resolves repoID/hookID, builds its Context over the given
// (already-filtered) files, and dispatches in-process or out-of-process
// depending on the hook's declared mode.
func (r *Resolver) RunHook(ctx context.Context, repoID, hookID, workingDir string, files []string) error {
	hook, err := r.Resolve(repoID, hookID)
	if err != nil {
		return err
	}
	hc := hookctx.New(hook, workingDir, files)

	if hc.ShouldRunInSeparateProcess() {
		return hc.Execute(ctx, nil)
	}

	t, err := r.SetupTool(ctx, hook)
	if err != nil {
		return err
	}
	return hc.Execute(ctx, t)
}

// RunAll iterates every non-skipped hook across every repo in declaration
// order, running each serially against files filtered by its own pattern.
// Parallel execution is the scheduler's responsibility, not this method's.
func (r *Resolver) RunAll(ctx context.Context, workingDir string, files []string) error {
	for _, repo := range r.cfg.Repos {
		for _, hook := range repo.Hooks {
			if r.Skip(hook.ID) {
				continue
			}
			m, err := compileMatcher(hook)
			if err != nil {
				return err
			}
			filtered := m.Filter(files)
			if len(filtered) == 0 {
				continue
			}
			if err := r.RunHook(ctx, repo.RepoID, hook.ID, workingDir, filtered); err != nil {
				return fmt.Errorf("repo %s hook %s: %w", repo.RepoID, hook.ID, err)
			}
		}
	}
	return nil
}

// splitEntry returns the raw argv of an entry string without constructing
// a full Context. Nothing in this package calls it at present.
func splitEntry(entry string) ([]string, error) {
	return shellquote.Split(strings.TrimSpace(entry))
}

func compileMatcher(hook rhconfig.Hook) (*matcher.Matcher, error) {
	return matcher.Compile(hook.Files, hook.Exclude)
}
