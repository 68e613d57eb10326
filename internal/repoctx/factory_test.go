package repoctx

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gitdock/gitdock/internal/errors"
	"github.com/gitdock/gitdock/internal/testutil"
)

func TestFactory_CreateLocal(t *testing.T) {
	factory := NewFactory("", nil)

	t.Run("basic repository", func(t *testing.T) {
		dir := testutil.InitRepoWithCommit(t, "main")

		ctx, err := factory.CreateLocal(dir)
		if err != nil {
			t.Fatalf("CreateLocal failed: %v", err)
		}

		root := testutil.ResolvePath(t, dir)
		if ctx.Kind != KindLocal {
			t.Errorf("Expected kind local, got %s", ctx.Kind)
		}
		if ctx.Local == nil || ctx.Local.Path != root {
			t.Errorf("Expected local path %q, got %+v", root, ctx.Local)
		}
		if ctx.Local.Handle == nil {
			t.Error("Expected a live git handle")
		}
		if want := filepath.Base(root); ctx.Name != want {
			t.Errorf("Expected name %q, got %q", want, ctx.Name)
		}
		if ctx.Metadata.DefaultBranch != "main" {
			t.Errorf("Expected default branch main, got %q", ctx.Metadata.DefaultBranch)
		}
		if ctx.Metadata.Provider != ProviderLocal {
			t.Errorf("Expected provider local, got %s", ctx.Metadata.Provider)
		}
		if ctx.Remote != nil {
			t.Errorf("Expected no remote ref, got %+v", ctx.Remote)
		}
		if len(ctx.ID) != 8 {
			t.Errorf("Expected 8-character id, got %q", ctx.ID)
		}
		if time.Since(ctx.LastAccessed) > time.Minute {
			t.Errorf("Expected recent LastAccessed, got %v", ctx.LastAccessed)
		}
	})

	t.Run("github remote detected", func(t *testing.T) {
		dir := testutil.InitRepoWithCommit(t, "main")
		testutil.AddRemote(t, dir, "origin", "git@github.com:gitdock/gitdock.git")

		ctx, err := factory.CreateLocal(dir)
		if err != nil {
			t.Fatalf("CreateLocal failed: %v", err)
		}

		if ctx.Metadata.Provider != ProviderGitHub {
			t.Errorf("Expected provider github, got %s", ctx.Metadata.Provider)
		}
		if ctx.Metadata.RemoteURL != "git@github.com:gitdock/gitdock.git" {
			t.Errorf("Unexpected remote URL %q", ctx.Metadata.RemoteURL)
		}
		if ctx.Remote == nil {
			t.Fatal("Expected a remote ref")
		}
		if ctx.Remote.Owner != "gitdock" || ctx.Remote.Repo != "gitdock" || ctx.Remote.FullName != "gitdock/gitdock" {
			t.Errorf("Unexpected remote ref %+v", ctx.Remote)
		}
	})

	t.Run("unparseable remote keeps url", func(t *testing.T) {
		dir := testutil.InitRepoWithCommit(t, "main")
		testutil.AddRemote(t, dir, "origin", "/srv/git/mirror.git")

		ctx, err := factory.CreateLocal(dir)
		if err != nil {
			t.Fatalf("CreateLocal failed: %v", err)
		}

		if ctx.Metadata.RemoteURL != "/srv/git/mirror.git" {
			t.Errorf("Unexpected remote URL %q", ctx.Metadata.RemoteURL)
		}
		if ctx.Metadata.Provider != ProviderLocal {
			t.Errorf("Expected provider local, got %s", ctx.Metadata.Provider)
		}
		if ctx.Remote != nil {
			t.Errorf("Expected no remote ref, got %+v", ctx.Remote)
		}
	})

	t.Run("subdirectory resolves to root", func(t *testing.T) {
		dir := testutil.InitRepoWithCommit(t, "main")
		testutil.WriteFile(t, dir, "pkg/deep/file.go", "package deep\n")

		ctx, err := factory.CreateLocal(filepath.Join(dir, "pkg", "deep"))
		if err != nil {
			t.Fatalf("CreateLocal failed: %v", err)
		}

		root := testutil.ResolvePath(t, dir)
		if ctx.Local.Path != root {
			t.Errorf("Expected root %q, got %q", root, ctx.Local.Path)
		}
		if want := filepath.Base(root); ctx.Name != want {
			t.Errorf("Expected name %q, got %q", want, ctx.Name)
		}
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := factory.CreateLocal(t.TempDir())
		if err == nil {
			t.Fatal("Expected error for non-repository path")
		}
		if !errors.Is(err, errors.ErrNotGitRepository) {
			t.Errorf("Expected ErrNotGitRepository, got %v", err)
		}
	})

	t.Run("custom remote name", func(t *testing.T) {
		upstream := NewFactory("upstream", nil)
		dir := testutil.InitRepoWithCommit(t, "main")
		testutil.AddRemote(t, dir, "upstream", "https://gitlab.com/group/project.git")

		ctx, err := upstream.CreateLocal(dir)
		if err != nil {
			t.Fatalf("CreateLocal failed: %v", err)
		}

		if ctx.Metadata.Provider != ProviderGitLab {
			t.Errorf("Expected provider gitlab, got %s", ctx.Metadata.Provider)
		}
		if ctx.Remote == nil || ctx.Remote.FullName != "group/project" {
			t.Errorf("Unexpected remote ref %+v", ctx.Remote)
		}
	})
}

func TestFactory_CreateRemote(t *testing.T) {
	factory := NewFactory("", nil)

	t.Run("basic", func(t *testing.T) {
		ctx, err := factory.CreateRemote("gitdock", "gitdock", RemoteInfo{
			DefaultBranch: "develop",
			URL:           "https://github.com/gitdock/gitdock",
		})
		if err != nil {
			t.Fatalf("CreateRemote failed: %v", err)
		}

		if ctx.Kind != KindRemote {
			t.Errorf("Expected kind remote, got %s", ctx.Kind)
		}
		if ctx.Local != nil {
			t.Errorf("Expected no local state, got %+v", ctx.Local)
		}
		if ctx.Name != "gitdock" {
			t.Errorf("Expected name gitdock, got %q", ctx.Name)
		}
		if ctx.Metadata.DefaultBranch != "develop" {
			t.Errorf("Expected default branch develop, got %q", ctx.Metadata.DefaultBranch)
		}
		if ctx.Metadata.Provider != ProviderGitHub {
			t.Errorf("Expected provider github, got %s", ctx.Metadata.Provider)
		}
		if ctx.Remote == nil || ctx.Remote.FullName != "gitdock/gitdock" {
			t.Errorf("Unexpected remote ref %+v", ctx.Remote)
		}
		if ctx.Metadata.LastFetched.IsZero() {
			t.Error("Expected LastFetched to default to now")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		ctx, err := factory.CreateRemote("owner", "repo", RemoteInfo{})
		if err != nil {
			t.Fatalf("CreateRemote failed: %v", err)
		}

		if ctx.Metadata.DefaultBranch != "main" {
			t.Errorf("Expected default branch main, got %q", ctx.Metadata.DefaultBranch)
		}
		if ctx.Metadata.Provider != ProviderLocal {
			t.Errorf("Expected provider local, got %s", ctx.Metadata.Provider)
		}
	})

	t.Run("supplied fetch time preserved", func(t *testing.T) {
		fetched := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		ctx, err := factory.CreateRemote("owner", "repo", RemoteInfo{LastFetched: fetched})
		if err != nil {
			t.Fatalf("CreateRemote failed: %v", err)
		}
		if !ctx.Metadata.LastFetched.Equal(fetched) {
			t.Errorf("Expected LastFetched %v, got %v", fetched, ctx.Metadata.LastFetched)
		}
	})

	t.Run("validation", func(t *testing.T) {
		if _, err := factory.CreateRemote("", "repo", RemoteInfo{}); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for empty owner, got %v", err)
		}
		if _, err := factory.CreateRemote("owner", "  ", RemoteInfo{}); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for empty repo, got %v", err)
		}
	})
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *RemoteRef
	}{
		{
			name:  "shorthand",
			input: "gitdock/gitdock",
			want:  &RemoteRef{Owner: "gitdock", Repo: "gitdock", FullName: "gitdock/gitdock"},
		},
		{
			name:  "shorthand with git suffix",
			input: "owner/repo.git",
			want:  &RemoteRef{Owner: "owner", Repo: "repo", FullName: "owner/repo"},
		},
		{
			name:  "shorthand with dots in repo",
			input: "my-org/my.repo",
			want:  &RemoteRef{Owner: "my-org", Repo: "my.repo", FullName: "my-org/my.repo"},
		},
		{
			name:  "dot-prefixed repo",
			input: "owner/.github",
			want:  &RemoteRef{Owner: "owner", Repo: ".github", FullName: "owner/.github"},
		},
		{
			name:  "single character owner",
			input: "a/b",
			want:  &RemoteRef{Owner: "a", Repo: "b", FullName: "a/b"},
		},
		{
			name:  "https url",
			input: "https://github.com/gitdock/gitdock",
			want:  &RemoteRef{Owner: "gitdock", Repo: "gitdock", FullName: "gitdock/gitdock"},
		},
		{
			name:  "ssh url",
			input: "git@github.com:gitdock/gitdock.git",
			want:  &RemoteRef{Owner: "gitdock", Repo: "gitdock", FullName: "gitdock/gitdock"},
		},
		{
			name:  "nested group url",
			input: "https://gitlab.com/group/subgroup/repo",
			want:  &RemoteRef{Owner: "group/subgroup", Repo: "repo", FullName: "group/subgroup/repo"},
		},
		{name: "empty", input: ""},
		{name: "whitespace", input: "   "},
		{name: "bare word", input: "gitdock"},
		{name: "nested shorthand", input: "a/b/c"},
		{name: "dotted owner", input: "my.org/repo"},
		{name: "leading hyphen owner", input: "-bad/repo"},
		{name: "missing repo", input: "owner/"},
		{name: "missing owner", input: "/repo"},
		{name: "local path", input: "/home/dev/project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIdentifier(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Expected nil for %q, got %+v", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected %+v for %q, got nil", tt.want, tt.input)
			}
			if *got != *tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
