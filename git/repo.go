// Package git ingests Markdown documentation from GitHub repositories.
// It shallow-clones a pinned branch with the git binary and walks the
// checked-out tree.
package git

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docvault"
)

// RepoInfo identifies a directory inside one branch of a GitHub repository.
type RepoInfo struct {
	Owner   string
	Repo    string
	Branch  string
	Subpath string
}

// ParseRepoURL parses a tree URL of the form
// https://github.com/owner/repo/tree/branch[/subpath].
func ParseRepoURL(rawURL string) (RepoInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RepoInfo{}, docvault.Errorf(docvault.EINVALID, "invalid repository URL %q", rawURL)
	}
	if u.Host != "github.com" {
		return RepoInfo{}, docvault.Errorf(docvault.EINVALID, "repository URL must be on github.com: %q", rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 4 || segments[2] != "tree" || segments[0] == "" || segments[1] == "" || segments[3] == "" {
		return RepoInfo{}, docvault.Errorf(docvault.EINVALID,
			"invalid repository URL %q: expected https://github.com/owner/repo/tree/branch/path", rawURL)
	}

	return RepoInfo{
		Owner:   segments[0],
		Repo:    segments[1],
		Branch:  segments[3],
		Subpath: strings.Join(segments[4:], "/"),
	}, nil
}

// CloneURL returns the HTTPS clone URL of the repository.
func (r RepoInfo) CloneURL() string {
	return "https://github.com/" + r.Owner + "/" + r.Repo + ".git"
}

// Slug returns the owner/repo pair.
func (r RepoInfo) Slug() string {
	return r.Owner + "/" + r.Repo
}
