// Package repoctx defines the repository context, the unit of tracked
// state for one opened repository, and the factory that builds contexts
// from local paths or externally fetched remote metadata.
//
// A context is either Local (backed by an open working tree handle) or
// Remote (backed only by hosting-service metadata). Identity is assigned
// once at creation and never reused.
package repoctx

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gitdock/gitdock/internal/gitrepo"
)

// Kind discriminates local working trees from remote-only repositories.
type Kind string

const (
	// KindLocal marks a context backed by an on-disk working tree.
	KindLocal Kind = "local"
	// KindRemote marks a context backed only by hosting-service metadata.
	KindRemote Kind = "remote"
)

// Provider identifies the hosting service a repository's remote points at.
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderBitbucket Provider = "bitbucket"
	ProviderAzure     Provider = "azure"
	// ProviderLocal is used when there is no remote or the host is not
	// recognized.
	ProviderLocal Provider = "local"
)

// ProviderForHost maps a remote host name to its hosting service.
func ProviderForHost(host string) Provider {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "github"):
		return ProviderGitHub
	case strings.Contains(host, "gitlab"):
		return ProviderGitLab
	case strings.Contains(host, "bitbucket"):
		return ProviderBitbucket
	case strings.Contains(host, "azure"), strings.Contains(host, "visualstudio"):
		return ProviderAzure
	default:
		return ProviderLocal
	}
}

// Metadata describes a repository independent of where it lives.
type Metadata struct {
	// Name is the repository's display name.
	Name string
	// DefaultBranch is the branch the repository considers primary.
	DefaultBranch string
	// RemoteURL is the configured remote URL, empty when none is known.
	RemoteURL string
	// Provider is the hosting service inferred from RemoteURL.
	Provider Provider
	// LastFetched records when remote metadata was last retrieved. Zero
	// for local contexts that never queried a hosting service.
	LastFetched time.Time
}

// RemoteRef identifies a repository on a hosting service.
type RemoteRef struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	FullName string `json:"full_name"`
}

// Local holds the on-disk state of a local context.
type Local struct {
	// Path is the absolute, symlink-resolved working tree root.
	Path string
	// Handle is the open git binding for issuing commands against the
	// repository. The registry nulls it when the context is closed or
	// evicted; it must not be used afterwards.
	Handle *gitrepo.Repository
}

// Context is one tracked repository. ID and Kind never change after
// creation. LastAccessed and Local.Handle are owned by the registry and
// only mutated under its lock.
type Context struct {
	// ID is process-unique, assigned at creation, never reused.
	ID string
	// Kind selects which of Local and Remote is populated.
	Kind Kind
	// Name is the display name, derived from the path basename or the
	// remote repository name.
	Name string
	// Metadata describes the repository.
	Metadata Metadata
	// Remote identifies the hosting-service repository. Present for all
	// remote contexts and for local contexts with a recognized remote URL.
	Remote *RemoteRef
	// Local is populated for KindLocal contexts only.
	Local *Local
	// LastAccessed is updated on every open of an existing context and
	// on explicit activation.
	LastAccessed time.Time
}

// Path returns the local working tree root, or "" for remote contexts.
func (c *Context) Path() string {
	if c.Local != nil {
		return c.Local.Path
	}
	return ""
}

// IsLocal reports whether the context tracks a local working tree.
func (c *Context) IsLocal() bool {
	return c.Kind == KindLocal
}

// FullName returns the owner/repo form of the context's remote, or ""
// when no remote is known.
func (c *Context) FullName() string {
	if c.Remote != nil {
		return c.Remote.FullName
	}
	return ""
}

// newContextID returns a process-unique 8-character hex identifier.
func newContextID() string {
	b := make([]byte, 4)
	// rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
