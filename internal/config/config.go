package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bcomnes/nextver/internal/logger"
)

// Config holds the settings of a nextver run. Values come from the
// defaults, an optional YAML file and command-line flags, in that order.
type Config struct {
	// ProjectPath is the JSON manifest holding the version.
	ProjectPath string `yaml:"project_path"`
	// GitPath is a path inside the git repository.
	GitPath string `yaml:"git_path"`
	// TagPrefix is stripped from release tags and prepended to new ones.
	TagPrefix string `yaml:"tag_prefix"`
	// BreakingPrefixes mark commit messages that force a major bump.
	BreakingPrefixes []string `yaml:"breaking_prefixes"`
	// FeaturePrefixes mark commit messages that force a minor bump.
	FeaturePrefixes []string `yaml:"feature_prefixes"`
	// BumpFiles are extra files whose version is kept in sync.
	BumpFiles []string `yaml:"bump_files"`
	// UpdateGoMod rewrites the go.mod major version suffix on major bumps.
	UpdateGoMod bool `yaml:"update_go_mod"`
	// Commit records the release as a git commit.
	Commit bool `yaml:"commit"`
	// Tag tags the release commit.
	Tag bool `yaml:"tag"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is looked up in the working directory when no config path is given.
	DefaultConfigFilename = ".nextver.yaml"
	// DefaultProjectPath is the manifest used when none is configured.
	DefaultProjectPath = "package.json"
	// DefaultGitPath is the repository used when none is configured.
	DefaultGitPath = "."
	// DefaultTagPrefix is the prefix of release tags.
	DefaultTagPrefix = "v"
	// DefaultLogLevel keeps diagnostics quiet.
	DefaultLogLevel = "warn"
)

var (
	errProjectPathRequired = errors.New("project path must be provided")
	errTagWithoutCommit    = errors.New("tag requires commit to be enabled")
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProjectPath:      DefaultProjectPath,
		GitPath:          DefaultGitPath,
		TagPrefix:        DefaultTagPrefix,
		BreakingPrefixes: []string{"BREAKING CHANGE", "BREAKING-CHANGE"},
		FeaturePrefixes:  []string{"feat"},
		LogLevel:         DefaultLogLevel,
	}
}

// Load reads the YAML file at path on top of the defaults. When required
// is false a missing file yields the defaults.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and fills in defaults for empty optional ones.
func Validate(cfg *Config) error {
	if cfg.ProjectPath == "" {
		return errProjectPathRequired
	}

	if cfg.GitPath == "" {
		cfg.GitPath = DefaultGitPath
	}

	if cfg.TagPrefix == "" {
		cfg.TagPrefix = DefaultTagPrefix
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	if cfg.Tag && !cfg.Commit {
		return errTagWithoutCommit
	}

	return nil
}
