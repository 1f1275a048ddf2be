package nextver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/mod/semver"

	"github.com/bcomnes/nextver/internal/logger"
)

// HistoryProvider supplies the commit messages that make up a release.
type HistoryProvider interface {
	// LastReleaseTag returns the most recent release tag, or nil if there is none.
	LastReleaseTag(ctx context.Context) (*ReleaseTag, error)
	// MessagesSince returns the messages of commits at or after since.
	// A nil since includes every reachable commit.
	MessagesSince(ctx context.Context, since *time.Time) ([]string, error)
}

// ReleaseTag is a tag recognized as a release boundary.
type ReleaseTag struct {
	Name    string
	Version Version
	Commit  plumbing.Hash
	// When is the committer time of the tagged commit.
	When time.Time
}

// GitHistory reads release history from a git repository.
type GitHistory struct {
	repo *git.Repository
	// TagPrefix is stripped from tag names before they are parsed as versions.
	// Tags without a prefix are always accepted as well.
	TagPrefix string
}

// OpenGitHistory opens the repository containing path.
func OpenGitHistory(path string) (*GitHistory, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository %q: %w", path, err)
	}
	return &GitHistory{repo: repo, TagPrefix: "v"}, nil
}

// NewGitHistory wraps an already opened repository.
func NewGitHistory(repo *git.Repository, tagPrefix string) *GitHistory {
	return &GitHistory{repo: repo, TagPrefix: tagPrefix}
}

// Repository returns the underlying repository.
func (h *GitHistory) Repository() *git.Repository {
	return h.repo
}

// tagVersion extracts the version from a tag name. ok is false for tags that
// do not name a plain major.minor.patch release.
func (h *GitHistory) tagVersion(name string) (Version, bool) {
	text := name
	if h.TagPrefix != "" {
		text = strings.TrimPrefix(text, h.TagPrefix)
	}
	canonical := "v" + text
	if !semver.IsValid(canonical) || semver.Canonical(canonical) != canonical {
		return Version{}, false
	}
	v, err := Parse(text)
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// LastReleaseTag picks the tag with the highest version among the tags
// reachable from HEAD. When two tags carry the same version, the one on the
// later commit wins. Tags that do not resolve to a commit are skipped.
func (h *GitHistory) LastReleaseTag(ctx context.Context) (*ReleaseTag, error) {
	reachable, err := h.reachableCommits(ctx)
	if err != nil {
		return nil, err
	}
	if len(reachable) == 0 {
		return nil, nil
	}

	iter, err := h.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var best *ReleaseTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		v, ok := h.tagVersion(name)
		if !ok {
			logger.Debugf(ctx, "skipping non-release tag %s", name)
			return nil
		}
		commit, err := h.peel(ref)
		if errors.Is(err, object.ErrUnsupportedObject) || errors.Is(err, plumbing.ErrObjectNotFound) {
			logger.Debugf(ctx, "skipping tag %s: does not point at a commit", name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", name, err)
		}
		if _, ok := reachable[commit.Hash]; !ok {
			logger.Debugf(ctx, "skipping tag %s: not reachable from HEAD", name)
			return nil
		}
		candidate := &ReleaseTag{Name: name, Version: v, Commit: commit.Hash, When: commit.Committer.When}
		if best == nil || laterRelease(candidate, best) {
			best = candidate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if best != nil {
		logger.DebugKV(ctx, "last release tag", "tag", best.Name, "commit", best.Commit.String(), "when", best.When)
	}
	return best, nil
}

// reachableCommits returns the hashes of HEAD and all its ancestors.
// An unborn HEAD yields an empty set.
func (h *GitHistory) reachableCommits(ctx context.Context) (map[plumbing.Hash]struct{}, error) {
	seen := make(map[plumbing.Hash]struct{})
	err := h.walk(ctx, func(c *object.Commit) {
		seen[c.Hash] = struct{}{}
	})
	return seen, err
}

func laterRelease(a, b *ReleaseTag) bool {
	if c := semver.Compare("v"+a.Version.String(), "v"+b.Version.String()); c != 0 {
		return c > 0
	}
	return a.When.After(b.When)
}

// peel resolves lightweight and annotated tags to their commit.
func (h *GitHistory) peel(ref *plumbing.Reference) (*object.Commit, error) {
	tag, err := h.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		return tag.Commit()
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return h.repo.CommitObject(ref.Hash())
	default:
		return nil, err
	}
}

// MessagesSince walks history from HEAD. An unborn HEAD yields no messages.
func (h *GitHistory) MessagesSince(ctx context.Context, since *time.Time) ([]string, error) {
	var messages []string
	err := h.walk(ctx, func(c *object.Commit) {
		if since != nil && c.Committer.When.Before(*since) {
			return
		}
		messages = append(messages, c.Message)
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// walk calls fn for every commit reachable from HEAD.
func (h *GitHistory) walk(ctx context.Context, fn func(*object.Commit)) error {
	head, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			logger.Debugf(ctx, "repository has no commits")
			return nil
		}
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking history: %w", err)
	}
	return nil
}
