// Package nextver computes the next semantic version of a project from its git history.
//
// It provides functionalities for:
//   - Parsing and formatting strict major.minor.patch version triples.
//   - Classifying commit messages into a major, minor or patch bump (the most severe change wins).
//   - Computing the next version from the current one and a bump kind, failing on overflow instead of wrapping.
//   - Reading commit history since the last release tag of a git repository.
//   - Reading and rewriting the "version" field of a JSON project manifest such as package.json.
//   - Optionally syncing the version into extra files, rewriting go.mod for v2+ majors,
//     and committing and tagging the release.
//
// The library backs the nextver command-line tool (in the module root) and can also be used
// programmatically.
//
// Usage Example:
//
//	import (
//	    "context"
//	    "log"
//
//	    nextver "github.com/bcomnes/nextver/pkg"
//	)
//
//	func main() {
//	    meta, err := nextver.Run(context.Background(), nextver.Options{
//	        ManifestPath: "./package.json",
//	        RepoPath:     ".",
//	    })
//	    if err != nil {
//	        log.Fatalf("release computation failed: %v", err)
//	    }
//	    log.Printf("%s -> %s (%s)", meta.OldVersion, meta.NewVersion, meta.Bump)
//	}
//
// For additional details and API documentation, see https://pkg.go.dev/github.com/bcomnes/nextver.
package nextver
