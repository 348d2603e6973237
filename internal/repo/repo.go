// Package repo detects the GitHub repository identity (owner and name)
// for a working directory, from the environment or the configured git
// remote. Pure lookup; no state, no network.
package repo

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// EnvRepository overrides detection when set to "owner/name". GitHub
// Actions sets it for every workflow run.
const EnvRepository = "GITHUB_REPOSITORY"

// Detect returns the GitHub owner and repository name for dir. The
// EnvRepository variable wins when set to a valid "owner/name" pair;
// otherwise the git remote of the enclosing repository is parsed.
func Detect(dir string) (owner, name string, err error) {
	if v := os.Getenv(EnvRepository); v != "" {
		parts := strings.Split(v, "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
	}

	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("discover git repository: %w", err)
	}

	url, err := remoteURL(r)
	if err != nil {
		return "", "", err
	}

	owner, name, ok := ParseRemoteURL(url)
	if !ok {
		return "", "", fmt.Errorf("remote %q is not a recognized GitHub URL; set %s or pass --owner/--repo", url, EnvRepository)
	}
	return owner, name, nil
}

// OwnerRepo resolves an explicit owner/name pair: both set wins, one
// set is an error, neither falls back to Detect.
func OwnerRepo(dir, owner, name string) (string, string, error) {
	switch {
	case owner != "" && name != "":
		return owner, name, nil
	case owner != "" || name != "":
		return "", "", fmt.Errorf("both --owner and --repo must be provided together")
	default:
		return Detect(dir)
	}
}

// ParseRemoteURL extracts owner and name from SSH and HTTPS GitHub
// remote URLs. The ".git" suffix is optional.
func ParseRemoteURL(url string) (owner, name string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		rest = strings.TrimPrefix(url, "git@github.com:")
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		rest = strings.TrimPrefix(url, "ssh://git@github.com/")
	case strings.HasPrefix(url, "https://github.com/"):
		rest = strings.TrimPrefix(url, "https://github.com/")
	default:
		return "", "", false
	}
	rest = strings.TrimSuffix(rest, ".git")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// remoteURL returns the fetch URL of the repository's "origin" remote,
// falling back to the first remote when origin is absent.
func remoteURL(r *git.Repository) (string, error) {
	remote, err := r.Remote("origin")
	if err != nil {
		remotes, listErr := r.Remotes()
		if listErr != nil || len(remotes) == 0 {
			return "", fmt.Errorf("no git remote found; set %s", EnvRepository)
		}
		remote = remotes[0]
	}
	cfg := remote.Config()
	if len(cfg.URLs) == 0 {
		return "", fmt.Errorf("remote %q has no URL", cfg.Name)
	}
	return cfg.URLs[0], nil
}
