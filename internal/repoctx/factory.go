package repoctx

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gitdock/gitdock/internal/errors"
	"github.com/gitdock/gitdock/internal/gitrepo"
	"github.com/gitdock/gitdock/internal/logging"
)

// DefaultRemoteName is the remote consulted for URL and default-branch
// detection when no other name is configured.
const DefaultRemoteName = "origin"

// Factory builds repository contexts. It is stateless apart from its
// configuration and safe for concurrent use.
type Factory struct {
	remoteName string
	logger     *logging.Logger
}

// NewFactory creates a Factory that consults the named remote during
// local context construction. An empty remoteName falls back to
// DefaultRemoteName; a nil logger disables factory logging.
func NewFactory(remoteName string, logger *logging.Logger) *Factory {
	if remoteName == "" {
		remoteName = DefaultRemoteName
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Factory{
		remoteName: remoteName,
		logger:     logger.WithComponent("factory"),
	}
}

// CreateLocal builds a Local context for the repository containing path.
// The path may point anywhere inside the working tree; the context is
// keyed by the resolved repository root. Remote detection is best-effort:
// a repository without a configured remote is still valid and gets
// provider "local".
//
// Fails with errors.ErrNotGitRepository when path is not inside a git
// working tree.
func (f *Factory) CreateLocal(path string) (*Context, error) {
	repo, err := gitrepo.Open(path)
	if err != nil {
		return nil, err
	}

	root := repo.Root()
	meta := Metadata{
		Name:          filepath.Base(root),
		DefaultBranch: repo.DefaultBranch(f.remoteName),
		Provider:      ProviderLocal,
	}

	var ref *RemoteRef
	if url, ok := repo.RemoteURL(f.remoteName); ok {
		meta.RemoteURL = url
		if parsed, ok := gitrepo.ParseRemoteURL(url); ok {
			meta.Provider = ProviderForHost(parsed.Host)
			ref = &RemoteRef{
				Owner:    parsed.Owner,
				Repo:     parsed.Name,
				FullName: parsed.FullName(),
			}
		}
	}

	ctx := &Context{
		ID:           newContextID(),
		Kind:         KindLocal,
		Name:         meta.Name,
		Metadata:     meta,
		Remote:       ref,
		Local:        &Local{Path: root, Handle: repo},
		LastAccessed: time.Now(),
	}

	f.logger.Debug("created local repository context",
		"repository_id", ctx.ID,
		"path", root,
		"provider", string(meta.Provider),
		"default_branch", meta.DefaultBranch)
	return ctx, nil
}

// RemoteInfo carries the externally fetched metadata needed to build a
// remote-only context.
type RemoteInfo struct {
	// DefaultBranch is the branch advertised by the hosting service.
	// Empty falls back to "main".
	DefaultBranch string
	// URL is the canonical repository URL, used for provider inference.
	URL string
	// LastFetched records when the metadata was retrieved. Zero means
	// "just now".
	LastFetched time.Time
}

// CreateRemote builds a Remote context from externally supplied metadata.
// It never touches the filesystem.
func (f *Factory) CreateRemote(owner, repo string, info RemoteInfo) (*Context, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, errors.NewValidationError("remote context requires owner and repository name")
	}

	branch := info.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	fetched := info.LastFetched
	if fetched.IsZero() {
		fetched = time.Now()
	}
	provider := ProviderLocal
	if parsed, ok := gitrepo.ParseRemoteURL(info.URL); ok {
		provider = ProviderForHost(parsed.Host)
	}

	fullName := owner + "/" + repo
	ctx := &Context{
		ID:   newContextID(),
		Kind: KindRemote,
		Name: repo,
		Metadata: Metadata{
			Name:          repo,
			DefaultBranch: branch,
			RemoteURL:     info.URL,
			Provider:      provider,
			LastFetched:   fetched,
		},
		Remote: &RemoteRef{
			Owner:    owner,
			Repo:     repo,
			FullName: fullName,
		},
		LastAccessed: time.Now(),
	}

	f.logger.Debug("created remote repository context",
		"repository_id", ctx.ID,
		"remote", fullName,
		"provider", string(provider))
	return ctx, nil
}

// shorthandRe matches "owner/repo" with GitHub-style owner rules: the
// owner is alphanumeric with interior hyphens, the repository name allows
// dots, underscores and hyphens.
var shorthandRe = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+?)(?:\.git)?$`)

// ParseIdentifier extracts a remote reference from user-typed input in
// "owner/repo" shorthand, HTTPS URL, or SSH URL form. It returns nil for
// anything it cannot parse; it never fails. Use it to validate input
// before fetching remote metadata and calling CreateRemote.
func ParseIdentifier(input string) *RemoteRef {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if m := shorthandRe.FindStringSubmatch(input); m != nil {
		return &RemoteRef{
			Owner:    m[1],
			Repo:     m[2],
			FullName: m[1] + "/" + m[2],
		}
	}

	if parsed, ok := gitrepo.ParseRemoteURL(input); ok {
		return &RemoteRef{
			Owner:    parsed.Owner,
			Repo:     parsed.Name,
			FullName: parsed.FullName(),
		}
	}
	return nil
}
