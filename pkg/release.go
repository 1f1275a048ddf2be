package nextver

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/bcomnes/nextver/internal/logger"
)

// VersionOverflowError is returned when a bump would push a component past
// the largest representable value.
type VersionOverflowError struct {
	Version Version
	Bump    BumpKind
}

func (e *VersionOverflowError) Error() string {
	return fmt.Sprintf("%s bump of %s overflows", e.Bump, e.Version)
}

// ComputeNext applies bump to current:
//
//	major: {major+1, 0, 0}
//	minor: {major, minor+1, 0}
//	patch: {major, minor, patch+1}
func ComputeNext(current Version, bump BumpKind) (Version, error) {
	switch bump {
	case Major:
		if current.Major == math.MaxUint64 {
			return Version{}, &VersionOverflowError{Version: current, Bump: bump}
		}
		return Version{Major: current.Major + 1}, nil
	case Minor:
		if current.Minor == math.MaxUint64 {
			return Version{}, &VersionOverflowError{Version: current, Bump: bump}
		}
		return Version{Major: current.Major, Minor: current.Minor + 1}, nil
	case Patch:
		if current.Patch == math.MaxUint64 {
			return Version{}, &VersionOverflowError{Version: current, Bump: bump}
		}
		return Version{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}, nil
	default:
		return Version{}, fmt.Errorf("%w: %s", ErrUnknownBump, bump)
	}
}

// ReleaseMeta holds metadata about a release computation.
type ReleaseMeta struct {
	OldVersion   string   // The manifest version before bumping.
	NewVersion   string   // The computed next version.
	Bump         BumpKind // The bump kind derived from the commit messages.
	LastTag      string   // The release tag used as boundary, empty if none.
	CommitCount  int      // Number of commits considered.
	Tally        Tally    // Per-severity message counts.
	UpdatedFiles []string // Files written (or that would be written in a dry run).
}

// Plan reads history and the current version, classifies the changes and
// computes the next version. It writes nothing.
func Plan(ctx context.Context, history HistoryProvider, manifest ManifestStore, classifier Classifier) (ReleaseMeta, error) {
	var meta ReleaseMeta

	tag, err := history.LastReleaseTag(ctx)
	if err != nil {
		return meta, err
	}
	var since *time.Time
	if tag != nil {
		meta.LastTag = tag.Name
		since = &tag.When
	} else {
		logger.Warnf(ctx, "no release tag found, classifying every commit")
	}

	messages, err := history.MessagesSince(ctx, since)
	if err != nil {
		return meta, err
	}
	meta.CommitCount = len(messages)
	meta.Tally = classifier.Tally(messages)
	meta.Bump = meta.Tally.Kind()
	logger.DebugKV(ctx, "classified commits",
		"commits", meta.CommitCount,
		"major", meta.Tally.Major,
		"minor", meta.Tally.Minor,
		"patch", meta.Tally.Patch,
		"bump", meta.Bump.String())

	raw, err := manifest.ReadVersion()
	if err != nil {
		return meta, err
	}
	meta.OldVersion = raw

	current, err := Parse(raw)
	if err != nil {
		return meta, err
	}
	next, err := ComputeNext(current, meta.Bump)
	if err != nil {
		return meta, err
	}
	meta.NewVersion = next.String()
	return meta, nil
}

// Options configures Run.
type Options struct {
	// ManifestPath is the JSON manifest holding the version.
	ManifestPath string
	// RepoPath is any path inside the git repository.
	RepoPath string
	// TagPrefix is stripped from release tag names and used for new tags. Defaults to "v".
	TagPrefix string
	// Classifier maps commit messages to bump kinds. Zero value means DefaultClassifier.
	Classifier *Classifier
	// Bump, when set, replaces the bump kind derived from the commit messages.
	Bump *BumpKind
	// BumpFiles are extra files whose main version is replaced by the new version.
	BumpFiles []string
	// UpdateGoMod rewrites the go.mod module path major suffix and self-imports.
	UpdateGoMod bool
	// Commit stages and commits the updated files with the new version as message.
	Commit bool
	// Tag tags the release commit as TagPrefix + version. Requires Commit.
	Tag bool
	// DryRun computes the release and reports the files that would change.
	DryRun bool
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.ManifestPath == "" {
		out.ManifestPath = "package.json"
	}
	if out.RepoPath == "" {
		out.RepoPath = "."
	}
	if out.TagPrefix == "" {
		out.TagPrefix = "v"
	}
	if out.Classifier == nil {
		c := DefaultClassifier()
		out.Classifier = &c
	}
	return out
}

// Run computes the next release for the repository at opts.RepoPath and,
// unless opts.DryRun is set, writes it to the manifest and the other
// configured targets.
func Run(ctx context.Context, opts Options) (ReleaseMeta, error) {
	opts = opts.withDefaults()

	if opts.Tag && !opts.Commit {
		return ReleaseMeta{}, fmt.Errorf("tagging requires committing the release")
	}

	history, err := OpenGitHistory(opts.RepoPath)
	if err != nil {
		return ReleaseMeta{}, err
	}
	history.TagPrefix = opts.TagPrefix
	manifest := NewJSONManifest(opts.ManifestPath)

	meta, err := Plan(ctx, history, manifest, *opts.Classifier)
	if err != nil {
		return meta, err
	}
	if opts.Bump != nil && *opts.Bump != meta.Bump {
		current, err := Parse(meta.OldVersion)
		if err != nil {
			return meta, err
		}
		next, err := ComputeNext(current, *opts.Bump)
		if err != nil {
			return meta, err
		}
		logger.Infof(ctx, "using %s bump instead of %s derived from commits", *opts.Bump, meta.Bump)
		meta.Bump = *opts.Bump
		meta.NewVersion = next.String()
	}
	logger.InfoKV(ctx, "release computed", "old", meta.OldVersion, "new", meta.NewVersion, "bump", meta.Bump.String())

	var modDir string
	if opts.UpdateGoMod && meta.Bump == Major {
		modDir, err = repoRoot(history)
		if err != nil {
			return meta, err
		}
	}

	if opts.DryRun {
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ManifestPath)
		meta.UpdatedFiles = append(meta.UpdatedFiles, opts.BumpFiles...)
		if modDir != "" {
			files, err := ScanGoModule(modDir, meta.NewVersion)
			if err != nil {
				return meta, err
			}
			meta.UpdatedFiles = append(meta.UpdatedFiles, files...)
		}
		return meta, nil
	}

	if err := manifest.WriteVersion(meta.NewVersion); err != nil {
		return meta, err
	}
	meta.UpdatedFiles = append(meta.UpdatedFiles, opts.ManifestPath)
	logger.Debugf(ctx, "wrote version %s to %s", meta.NewVersion, opts.ManifestPath)

	for _, bf := range opts.BumpFiles {
		if err := BumpVersionInFile(bf, meta.NewVersion); err != nil {
			return meta, err
		}
		meta.UpdatedFiles = append(meta.UpdatedFiles, bf)
		logger.Debugf(ctx, "synced version into %s", bf)
	}

	if modDir != "" {
		files, err := UpdateGoModule(modDir, meta.NewVersion)
		if err != nil {
			return meta, err
		}
		meta.UpdatedFiles = append(meta.UpdatedFiles, files...)
	}

	if opts.Commit {
		if err := Publish(ctx, history.Repository(), meta.NewVersion, meta.UpdatedFiles, PublishOptions{
			Tag:       opts.Tag,
			TagPrefix: opts.TagPrefix,
		}); err != nil {
			return meta, err
		}
	}

	return meta, nil
}

// repoRoot returns the worktree root of the repository behind history.
func repoRoot(history *GitHistory) (string, error) {
	wt, err := history.Repository().Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}
	return filepath.Clean(wt.Filesystem.Root()), nil
}
