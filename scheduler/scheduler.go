// Package scheduler implements C6, the Parallel Scheduler: the component
// that turns a resolved hook list and a file set into batches of
// concurrently-dispatched execution units, honoring each hook's declared
// access mode so concurrent writers never touch overlapping files.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rustyhook/rustyhook/matcher"
	"github.com/rustyhook/rustyhook/rhconfig"
	"github.com/rustyhook/rustyhook/resolver"
)

// unit is one (repo, hook) pairing with its already-filtered file list.
// Hooks whose filtered set comes up empty never become a unit.
type unit struct {
	repoID string
	hookID string
	hook   rhconfig.Hook
	files  []string
}

// Scheduler runs every non-skipped hook in a resolver's configuration
// against a file list, read units before write units, write units
// partitioned into non-conflicting groups, every admitted set chunked to
// the configured parallelism cap.
type Scheduler struct {
	resolver    *resolver.Resolver
	workingDir  string
	parallelism int
	failFast    bool
}

// New builds a Scheduler. parallelism <= 0 means unbounded (a single batch
// per admitted set).
func New(r *resolver.Resolver, workingDir string, parallelism int, failFast bool) *Scheduler {
	return &Scheduler{resolver: r, workingDir: workingDir, parallelism: parallelism, failFast: failFast}
}

// Run executes the preparation and scheduling phases against files and
// returns either the first error encountered (fail-fast) or a composite
// aggregating every error across the whole run.
func (s *Scheduler) Run(ctx context.Context, files []string) error {
	units, err := s.prepare(files)
	if err != nil {
		return err
	}

	var reads, writes []unit
	for _, u := range units {
		if u.hook.AccessMode == rhconfig.AccessRead {
			reads = append(reads, u)
		} else {
			writes = append(writes, u)
		}
	}

	var errs []error

	if err := s.runBatches(ctx, [][]unit{reads}, &errs); err != nil {
		return err
	}

	groups := partitionWriteGroups(writes)
	if err := s.runBatches(ctx, groups, &errs); err != nil {
		return err
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// prepare snapshots the resolver's configuration and skip list, filters
// files per hook, and drops hooks whose filtered set is empty.
func (s *Scheduler) prepare(files []string) ([]unit, error) {
	cfg := s.resolver.Configuration()
	var units []unit
	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			if s.resolver.Skip(hook.ID) {
				continue
			}
			m, err := matcher.Compile(hook.Files, hook.Exclude)
			if err != nil {
				return nil, err
			}
			filtered := m.Filter(files)
			if len(filtered) == 0 {
				continue
			}
			units = append(units, unit{repoID: repo.RepoID, hookID: hook.ID, hook: hook, files: filtered})
		}
	}
	return units, nil
}

// partitionWriteGroups applies the greedy first-fit conflict partition: a
// write unit joins the first existing group none of whose members overlap
// it; otherwise a new group opens. Two units overlap when either's files
// pattern is empty or the patterns are string-equal — a deliberately
// conservative approximation since regex intersection is undecidable.
func partitionWriteGroups(writes []unit) [][]unit {
	var groups [][]unit
	for _, w := range writes {
		placed := false
		for gi, group := range groups {
			if !overlapsAny(w, group) {
				groups[gi] = append(groups[gi], w)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []unit{w})
		}
	}
	return groups
}

func overlapsAny(u unit, group []unit) bool {
	for _, member := range group {
		if overlaps(u, member) {
			return true
		}
	}
	return false
}

func overlaps(a, b unit) bool {
	if a.hook.Files == "" || b.hook.Files == "" {
		return true
	}
	return a.hook.Files == b.hook.Files
}

// runBatches executes each admitted set in sequence, chunking every set to
// the parallelism cap first. An empty set is a no-op.
func (s *Scheduler) runBatches(ctx context.Context, sets [][]unit, errs *[]error) error {
	for _, set := range sets {
		if len(set) == 0 {
			continue
		}
		for _, batch := range chunk(set, s.parallelism) {
			if err := s.runBatch(ctx, batch, errs); err != nil {
				return err
			}
		}
	}
	return nil
}

// runBatch dispatches every unit in batch concurrently and waits for all
// of them. When fail-fast is enabled, the first error aborts the whole
// run (after the current batch finishes, per the ordering guarantee);
// otherwise every error is appended to errs and the run continues.
func (s *Scheduler) runBatch(ctx context.Context, batch []unit, errs *[]error) error {
	var wg sync.WaitGroup
	results := make([]error, len(batch))

	for i, u := range batch {
		wg.Add(1)
		go func(i int, u unit) {
			defer wg.Done()
			results[i] = s.resolver.RunHook(ctx, u.repoID, u.hookID, s.workingDir, u.files)
		}(i, u)
	}
	wg.Wait()

	var firstErr error
	for i, err := range results {
		if err == nil {
			continue
		}
		wrapped := fmt.Errorf("repo %s hook %s: %w", batch[i].repoID, batch[i].hookID, err)
		if firstErr == nil {
			firstErr = wrapped
		}
		*errs = append(*errs, wrapped)
	}

	if firstErr != nil && s.failFast {
		return firstErr
	}
	return nil
}

// chunk splits units into batches of at most size; size <= 0 means
// unbounded, i.e. a single batch containing every unit.
func chunk(units []unit, size int) [][]unit {
	if size <= 0 || size >= len(units) {
		return [][]unit{units}
	}
	var out [][]unit
	for i := 0; i < len(units); i += size {
		end := i + size
		if end > len(units) {
			end = len(units)
		}
		out = append(out, units[i:end])
	}
	return out
}
