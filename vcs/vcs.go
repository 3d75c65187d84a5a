// Package vcs locates the enclosing repository and derives identity from
// it: the project root, the VCS flavor in use, the author configured in
// git, and a short commit reference for pinning attestations to a
// revision.
package vcs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/logger"
)

// vcsMarkers maps repository marker entries to VCS names, in probe order.
var vcsMarkers = []struct {
	marker string
	name   string
}{
	{".git", "git"},
	{".hg", "hg"},
	{".jj", "jj"},
	{".pijul", "pijul"},
	{"_FOSSIL_", "fossil"},
	{".svn", "svn"},
}

// FindProjectRoot walks upward from start looking for a
// qualifier.graph.jsonl or a VCS marker. Returns "" when neither is found
// anywhere up the tree.
func FindProjectRoot(start string) string {
	current, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		if _, err := os.Stat(filepath.Join(current, graph.DefaultFileName)); err == nil {
			return current
		}
		for _, m := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(current, m.marker)); err == nil {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// DetectVCS reports which version control system is in use at root, or ""
// when none is detected.
func DetectVCS(root string) string {
	for _, m := range vcsMarkers {
		if _, err := os.Stat(filepath.Join(root, m.marker)); err == nil {
			return m.name
		}
	}
	return ""
}

// DetectAuthor derives the author identity for new attestations:
// the git user from repository or global config, then the mercurial
// username, then $USER@localhost.
func DetectAuthor(root string) string {
	if author := gitAuthor(root); author != "" {
		return author
	}
	if author := hgAuthor(); author != "" {
		return author
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	return user + "@localhost"
}

// gitAuthor reads user.email from the repository config, falling back to
// `git config user.email` which sees the global and system configs too.
func gitAuthor(root string) string {
	if repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		if cfg, err := repo.Config(); err == nil && cfg.User.Email != "" {
			return cfg.User.Email
		}
	}

	out, err := exec.Command("git", "config", "user.email").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func hgAuthor() string {
	out, err := exec.Command("hg", "config", "ui.username").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// RefPin returns a revision reference for the ref field of new
// attestations, "git:<short-hash>" for git repositories. Returns "" when
// the repository has no resolvable HEAD; an unpinned attestation is fine.
func RefPin(root string) string {
	if DetectVCS(root) != "git" {
		return ""
	}
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Debugw("ref pin unavailable", "error", err)
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("git:%s", head.Hash().String()[:7])
}
