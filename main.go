// Package main implements a CLI tool that computes the next semantic version
// of a project from its git history and writes it into the project manifest.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bcomnes/nextver/internal/config"
	"github.com/bcomnes/nextver/internal/logger"
	"github.com/bcomnes/nextver/internal/version"
	nextver "github.com/bcomnes/nextver/pkg"
)

// flagValues holds the raw command-line values before they are merged
// over the config file.
type flagValues struct {
	configPath       string
	projectPath      string
	gitPath          string
	tagPrefix        string
	breakingPrefixes []string
	featurePrefixes  []string
	bumpFiles        []string
	updateGoMod      bool
	commit           bool
	tag              bool
	dryRun           bool
	bump             string
	logLevel         string
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "nextver [flags]",
		Short: "Compute the next semantic version from git history.",
		Long: `Computes the next semantic version of a project and writes it to the project manifest.

The current version is read from the "version" field of a JSON manifest (default: ./package.json).
Commits since the last release tag are classified by message prefix:
  BREAKING CHANGE..., type!: ...   major bump
  feat...                          minor bump
  anything else                    patch bump
The most severe change wins. Other manifest fields are kept and rewritten with sorted keys.`,
		Example: `  nextver
  nextver -p web/package.json -g ..
  nextver --dry
  nextver --bump-file README.md --commit --tag`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, &fv)
			if err != nil {
				return err
			}
			lvl, _ := logger.ParseLogLevel(cfg.LogLevel)
			logger.SetLevel(lvl)

			var bump *nextver.BumpKind
			if cmd.Flags().Changed("bump") {
				kind, err := nextver.ParseBumpKind(fv.bump)
				if err != nil {
					return err
				}
				bump = &kind
			}

			ctx := logger.WithKV(cmd.Context(), "manifest", cfg.ProjectPath)
			meta, err := nextver.Run(ctx, nextver.Options{
				ManifestPath: cfg.ProjectPath,
				RepoPath:     cfg.GitPath,
				TagPrefix:    cfg.TagPrefix,
				Classifier: &nextver.Classifier{
					BreakingPrefixes: cfg.BreakingPrefixes,
					FeaturePrefixes:  cfg.FeaturePrefixes,
				},
				Bump:        bump,
				BumpFiles:   cfg.BumpFiles,
				UpdateGoMod: cfg.UpdateGoMod,
				Commit:      cfg.Commit,
				Tag:         cfg.Tag,
				DryRun:      fv.dryRun,
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), meta, fv.dryRun)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&fv.configPath, "config", "c", config.DefaultConfigFilename, "path to YAML configuration file")
	flags.StringVarP(&fv.projectPath, "project-path", "p", config.DefaultProjectPath, "path to the JSON manifest holding the version")
	flags.StringVarP(&fv.gitPath, "git-path", "g", config.DefaultGitPath, "path to the git repository")
	flags.StringVar(&fv.tagPrefix, "tag-prefix", config.DefaultTagPrefix, "prefix of release tags")
	flags.StringSliceVar(&fv.breakingPrefixes, "breaking-prefix", nil, "commit message prefix that forces a major bump (repeatable)")
	flags.StringSliceVar(&fv.featurePrefixes, "feature-prefix", nil, "commit message prefix that forces a minor bump (repeatable)")
	flags.StringArrayVar(&fv.bumpFiles, "bump-file", nil, "additional file in which the version is replaced (repeatable)")
	flags.BoolVar(&fv.updateGoMod, "update-go-mod", false, "rewrite the go.mod major version suffix on major bumps")
	flags.BoolVar(&fv.commit, "commit", false, "commit the updated files with the new version as message")
	flags.BoolVar(&fv.tag, "tag", false, "tag the release commit (requires --commit)")
	flags.StringVar(&fv.bump, "bump", "", "force the bump kind (major, minor or patch) instead of deriving it from commits")
	flags.BoolVar(&fv.dryRun, "dry", false, "compute the next version without modifying any files or the git repository")
	flags.StringVar(&fv.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")

	version.AttachCobraVersionCommand(cmd)

	return cmd
}

// resolveConfig loads the config file and applies explicitly set flags on top.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(fv.configPath, flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("project-path") {
		cfg.ProjectPath = fv.projectPath
	}
	if flags.Changed("git-path") {
		cfg.GitPath = fv.gitPath
	}
	if flags.Changed("tag-prefix") {
		cfg.TagPrefix = fv.tagPrefix
	}
	if flags.Changed("breaking-prefix") {
		cfg.BreakingPrefixes = fv.breakingPrefixes
	}
	if flags.Changed("feature-prefix") {
		cfg.FeaturePrefixes = fv.featurePrefixes
	}
	if flags.Changed("bump-file") {
		cfg.BumpFiles = fv.bumpFiles
	}
	if flags.Changed("update-go-mod") {
		cfg.UpdateGoMod = fv.updateGoMod
	}
	if flags.Changed("commit") {
		cfg.Commit = fv.commit
	}
	if flags.Changed("tag") {
		cfg.Tag = fv.tag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printSummary(w io.Writer, meta nextver.ReleaseMeta, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "Dry run complete, no files were modified.")
	} else {
		fmt.Fprintln(w, "Version bump successful!")
	}
	lastTag := meta.LastTag
	if lastTag == "" {
		lastTag = "none"
	}
	fmt.Fprintf(w, "Old Version: %s\n", meta.OldVersion)
	fmt.Fprintf(w, "New Version: %s\n", meta.NewVersion)
	fmt.Fprintf(w, "Bump Type:   %s\n", meta.Bump)
	fmt.Fprintf(w, "Last Tag:    %s\n", lastTag)
	fmt.Fprintf(w, "Commits:     %d (major %d, minor %d, patch %d)\n",
		meta.CommitCount, meta.Tally.Major, meta.Tally.Minor, meta.Tally.Patch)

	if len(meta.UpdatedFiles) > 0 {
		if dryRun {
			fmt.Fprintln(w, "Files that would be updated:")
		} else {
			fmt.Fprintln(w, "Files updated:")
		}
		for _, f := range meta.UpdatedFiles {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
