// Package main implements the nextver CLI tool.
//
// The nextver tool computes the next semantic version of a project. It reads the current
// version from the "version" field of a JSON manifest (default "./package.json"), collects
// the commit messages since the most recent release tag of the git repository, and picks
// the bump the most severe commit requires:
//
//   - a message starting with "BREAKING CHANGE" or a "type!:" header forces a major bump,
//   - a message starting with "feat" forces a minor bump,
//   - anything else is a patch bump.
//
// The new version is written back into the manifest. All other fields are kept, and the
// document is re-serialized with sorted keys and two-space indentation.
//
// Command Usage:
//
//	nextver [flags]
//
// Flags:
//
//	-p, --project-path:  Path to the JSON manifest. (Defaults to "package.json")
//	-g, --git-path:      Path to the git repository. (Defaults to ".")
//	-c, --config:        YAML configuration file. (Defaults to ".nextver.yaml", optional)
//	--dry:               Compute and report without writing anything.
//	--bump:              Force the bump kind (major, minor or patch) instead of
//	                     deriving it from the commit messages.
//	--bump-file:         Additional file whose main version is replaced. A root-level
//	                     JSON "version" field, TOML version key or VERSION assignment
//	                     is preferred; otherwise the first plain X.Y.Z is used.
//	                     This flag may be used multiple times.
//	--update-go-mod:     On major bumps, rewrite the go.mod module path suffix (/v2, /v3, ...)
//	                     and the module's self-imports.
//	--commit:            Commit the updated files with the new version as message.
//	--tag:               Tag the release commit with the tag prefix plus the new version.
//	--tag-prefix:        Prefix of release tags. (Defaults to "v")
//	--breaking-prefix:   Commit prefix forcing a major bump. May be repeated.
//	--feature-prefix:    Commit prefix forcing a minor bump. May be repeated.
//	--log-level:         debug, info, warn or error. (Defaults to "warn")
//	--version:           Displays the version of the nextver CLI tool and exits.
//
// Examples:
//
//	# 2.4.1 with commits "fix: bug", "feat: add widget", "chore: cleanup" becomes 2.5.0
//	nextver
//
//	# Use a manifest and repository elsewhere
//	nextver -p web/package.json -g .
//
//	# Report what would change
//	nextver --dry
//
//	# Sync README.md, then commit and tag the release
//	nextver --bump-file README.md --commit --tag
//
// Configuration File:
//
//	project_path: package.json
//	git_path: .
//	tag_prefix: v
//	breaking_prefixes: ["BREAKING CHANGE", "BREAKING-CHANGE"]
//	feature_prefixes: ["feat"]
//	bump_files: [README.md]
//	update_go_mod: false
//	commit: false
//	tag: false
//	log_level: warn
//
// Flags set on the command line override values from the file.
//
// For more detailed API documentation, please see the documentation in the "pkg" package
// or visit [PkgGoDev](https://pkg.go.dev/github.com/bcomnes/nextver).
package main
