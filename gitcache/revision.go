package gitcache

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// resolveRevision resolves a rev string (branch, tag, or commit sha) to a
// concrete commit hash, the way go-git's own CLI wrapper examples do it.
func resolveRevision(repo *git.Repository, rev string) (plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *hash, nil
}
