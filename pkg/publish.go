package nextver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bcomnes/nextver/internal/logger"
)

// PublishOptions controls how a release is recorded in git.
type PublishOptions struct {
	// Tag creates a lightweight tag named TagPrefix + version on the release commit.
	Tag       bool
	TagPrefix string
	// Author signs the commit. When nil, the repository and user git config are used.
	Author *object.Signature
}

// Publish stages files, commits them with the version (no prefix) as the
// message and optionally tags the commit.
func Publish(ctx context.Context, repo *git.Repository, version string, files []string, opts PublishOptions) error {
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	for _, f := range files {
		rel, err := worktreePath(root, f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("git add %s failed: %w", rel, err)
		}
	}

	hash, err := wt.Commit(version, &git.CommitOptions{Author: opts.Author})
	if err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	logger.DebugKV(ctx, "committed release", "version", version, "commit", hash.String())

	if !opts.Tag {
		return nil
	}
	name := opts.TagPrefix + version
	if _, err := repo.CreateTag(name, hash, nil); err != nil {
		return fmt.Errorf("git tag %s failed: %w", name, err)
	}
	logger.DebugKV(ctx, "tagged release", "tag", name)
	return nil
}

// worktreePath converts path to a slash-separated path relative to root.
func worktreePath(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", root, err)
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
