// Package gitrepo wraps go-git with the small surface gitdock needs:
// opening a working tree from any path inside it, reading remote URLs,
// and resolving branch information without touching the network.
package gitrepo

import (
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gitdock/gitdock/internal/errors"
)

// Repository is an open git working tree. The zero value is not usable;
// obtain instances through Open.
type Repository struct {
	root string
	repo *gogit.Repository
}

// Open opens the repository containing path, climbing parent directories
// to find the repository root the way git itself does. Bare repositories
// are rejected: gitdock only tracks working trees.
//
// Errors match errors.ErrNotGitRepository when path is not inside a
// working tree.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewRepositoryError("failed to resolve path", err).WithPath(path)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.NewRepositoryError("path is not inside a git working tree", errors.ErrNotGitRepository).WithPath(abs)
		}
		return nil, errors.NewRepositoryError("failed to open repository", err).WithPath(abs)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, errors.NewRepositoryError("bare repository has no working tree", errors.ErrNotGitRepository).WithPath(abs)
		}
		return nil, errors.NewRepositoryError("failed to resolve working tree", err).WithPath(abs)
	}

	// Symlinked roots resolve to one canonical path so that two opens of
	// the same repository always report the same root.
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	return &Repository{root: root, repo: repo}, nil
}

// Root returns the absolute, symlink-resolved path of the working tree root.
func (r *Repository) Root() string {
	return r.root
}

// RemoteURL returns the first configured URL of the named remote. It
// reports false when the remote does not exist or has no URLs.
func (r *Repository) RemoteURL(name string) (string, bool) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", false
	}
	return urls[0], true
}

// DefaultBranch resolves the repository's default branch from local state
// only. Resolution order:
//
//  1. the branch advertised by the symbolic refs/remotes/<remote>/HEAD
//  2. a local branch named "main"
//  3. a local branch named "master"
//  4. the first local branch in lexical order
//  5. the literal "main" when the repository has no branches at all
func (r *Repository) DefaultBranch(remote string) string {
	if name, ok := r.remoteHeadBranch(remote); ok {
		return name
	}

	branches, err := r.Branches()
	if err != nil || len(branches) == 0 {
		return "main"
	}
	for _, candidate := range []string{"main", "master"} {
		if slices.Contains(branches, candidate) {
			return candidate
		}
	}
	return branches[0]
}

// remoteHeadBranch reads the symbolic refs/remotes/<remote>/HEAD reference
// that git records on clone and returns the short branch name it points at.
func (r *Repository) remoteHeadBranch(remote string) (string, bool) {
	if remote == "" {
		return "", false
	}
	ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, "HEAD"), false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}

	target := ref.Target()
	switch {
	case target.IsRemote():
		// refs/remotes/<remote>/<branch>, where <branch> may itself
		// contain slashes.
		rest := strings.TrimPrefix(target.String(), "refs/remotes/")
		if _, branch, ok := strings.Cut(rest, "/"); ok && branch != "" {
			return branch, true
		}
	case target.IsBranch():
		return target.Short(), true
	}
	return "", false
}

// CurrentBranch returns the short name of the branch HEAD points at. It
// reports false when HEAD is detached. Unborn branches (a fresh repository
// with no commits) still report the branch HEAD is configured to point at.
func (r *Repository) CurrentBranch() (string, bool) {
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", false
	}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		return ref.Target().Short(), true
	}
	return "", false
}

// Branches returns the short names of all local branches in lexical order.
func (r *Repository) Branches() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, errors.NewRepositoryError("failed to list branches", err).WithPath(r.root)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.NewRepositoryError("failed to list branches", err).WithPath(r.root)
	}

	slices.Sort(names)
	return names, nil
}
