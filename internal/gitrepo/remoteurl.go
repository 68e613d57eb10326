package gitrepo

import (
	"net/url"
	"regexp"
	"strings"
)

// RemoteURL holds the identifying parts of a parsed git remote URL.
type RemoteURL struct {
	// Host is the lowercased hostname, without port or user info.
	Host string
	// Owner is the account or organization segment of the path. Nested
	// group paths (GitLab subgroups) keep their internal slashes.
	Owner string
	// Name is the repository name with any ".git" suffix stripped.
	Name string
}

// FullName returns the "owner/name" form used to identify remote
// repositories.
func (u RemoteURL) FullName() string {
	return u.Owner + "/" + u.Name
}

// scpLikeRe matches the scp-style SSH syntax git accepts, such as
// "git@github.com:owner/repo.git". URLs with an explicit scheme never
// reach this pattern.
var scpLikeRe = regexp.MustCompile(`^(?:[^@/:]+@)?([a-zA-Z0-9._-]+):(.+)$`)

// ParseRemoteURL extracts host, owner and repository name from the common
// git remote URL shapes:
//
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	https://github.com/owner/repo
//	git://github.com/owner/repo.git
//
// It reports false for anything that does not parse into at least an
// owner and a repository name.
func ParseRemoteURL(raw string) (RemoteURL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RemoteURL{}, false
	}

	var host, path string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return RemoteURL{}, false
		}
		switch u.Scheme {
		case "http", "https", "ssh", "git":
		default:
			return RemoteURL{}, false
		}
		host = u.Hostname()
		path = u.Path
	default:
		m := scpLikeRe.FindStringSubmatch(raw)
		if m == nil {
			return RemoteURL{}, false
		}
		host = m[1]
		path = m[2]
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return RemoteURL{}, false
	}
	for _, s := range segments {
		if s == "" {
			return RemoteURL{}, false
		}
	}

	return RemoteURL{
		Host:  strings.ToLower(host),
		Owner: strings.Join(segments[:len(segments)-1], "/"),
		Name:  segments[len(segments)-1],
	}, true
}
