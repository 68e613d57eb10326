// Package testutil provides git repository fixtures for tests. All helpers
// build real repositories on disk under t.TempDir so that path resolution
// behaves exactly as it does in production.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Author identity used for all fixture commits.
const (
	TestAuthor = "Test User"
	TestEmail  = "test@example.com"
)

// InitRepo initializes an empty repository in a fresh temp directory and
// returns its path. The repository has no commits and no branches.
func InitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return dir
}

// InitBareRepo initializes a bare repository in a fresh temp directory and
// returns its path.
func InitBareRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, true); err != nil {
		t.Fatalf("failed to init bare repository: %v", err)
	}
	return dir
}

// InitRepoWithCommit initializes a repository with a single commit on the
// named branch and returns its path.
func InitRepoWithCommit(t *testing.T, branch string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	// Point HEAD at the requested branch before the first commit so the
	// commit creates it.
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := repo.Storer.SetReference(head); err != nil {
		t.Fatalf("failed to set HEAD to %s: %v", branch, err)
	}

	WriteFile(t, dir, "README.md", "# fixture\n")
	Commit(t, dir, "README.md", "initial commit")
	return dir
}

// WriteFile writes content to rel under root, creating parent directories
// as needed.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// Commit stages rel and commits it to the repository at root.
func Commit(t *testing.T, root, rel, message string) {
	t.Helper()
	repo := open(t, root)
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := wt.Add(rel); err != nil {
		t.Fatalf("failed to stage %s: %v", rel, err)
	}
	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit %s: %v", rel, err)
	}
}

// AddRemote configures a remote with a single URL on the repository at root.
func AddRemote(t *testing.T, root, name, url string) {
	t.Helper()
	repo := open(t, root)
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		t.Fatalf("failed to add remote %s: %v", name, err)
	}
}

// CreateBranch creates a local branch at the current HEAD commit.
func CreateBranch(t *testing.T, root, name string) {
	t.Helper()
	repo := open(t, root)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("failed to resolve HEAD: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("failed to create branch %s: %v", name, err)
	}
}

// SetRemoteHead records the symbolic refs/remotes/<remote>/HEAD reference
// that a clone would have, advertising branch as the remote's default. A
// matching remote-tracking ref is written at the current HEAD commit when
// one exists.
func SetRemoteHead(t *testing.T, root, remote, branch string) {
	t.Helper()
	repo := open(t, root)

	if head, err := repo.Head(); err == nil {
		tracking := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, branch), head.Hash())
		if err := repo.Storer.SetReference(tracking); err != nil {
			t.Fatalf("failed to set remote tracking ref: %v", err)
		}
	}

	sym := plumbing.NewSymbolicReference(
		plumbing.NewRemoteReferenceName(remote, "HEAD"),
		plumbing.NewRemoteReferenceName(remote, branch),
	)
	if err := repo.Storer.SetReference(sym); err != nil {
		t.Fatalf("failed to set remote HEAD: %v", err)
	}
}

// ResolvePath canonicalizes a fixture path the same way production code
// does, so tests can compare paths on systems where temp directories live
// behind symlinks.
func ResolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}
	return resolved
}

func open(t *testing.T, root string) *gogit.Repository {
	t.Helper()
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		t.Fatalf("failed to open repository at %s: %v", root, err)
	}
	return repo
}
