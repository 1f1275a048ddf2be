package nextver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoVersionInFile is returned when a bump file contains no version triple.
var ErrNoVersionInFile = errors.New("no version found in file")

// versionPattern locates a version declaration. The version triple is
// always capture group 1.
type versionPattern struct {
	re   *regexp.Regexp
	name string
}

// mainVersionPatterns match declarations that are most likely the
// project's own version rather than a dependency's.
var mainVersionPatterns = []versionPattern{
	{regexp.MustCompile(`^\s{0,2}"version"\s*:\s*"v?(\d+\.\d+\.\d+)"`), "root JSON version field"},
	{regexp.MustCompile(`^version\s*=\s*"v?(\d+\.\d+\.\d+)"`), "root TOML version field"},
	{regexp.MustCompile(`(?i)^\s*(?:const\s+|var\s+)?VERSION\s*[:=]+\s*["']?v?(\d+\.\d+\.\d+)["']?`), "root VERSION assignment"},
}

// anyVersion is the fallback: the first bare triple in the file that is
// not part of a longer dotted number and has no pre-release or build suffix.
// A trailing sentence period is allowed.
var anyVersion = regexp.MustCompile(`(?:^|[^\d.])v?(\d+\.\d+\.\d+)(?:$|[^\d.\-+]|\.$|\.[^\d])`)

// VersionMatch is a version occurrence in a file.
type VersionMatch struct {
	Line    int    // 1-based line number.
	Start   int    // Byte offset of the version within the line.
	End     int    // Byte offset just past the version.
	Version string // The version text, without any "v" prefix.
	Pattern string // Name of the pattern that matched.
}

// FindMainVersion returns the most likely project version in content.
// Root-level declarations win over the first bare version in the text.
func FindMainVersion(content string) (*VersionMatch, bool) {
	lines := strings.Split(content, "\n")
	for _, p := range mainVersionPatterns {
		for i, line := range lines {
			if m := p.re.FindStringSubmatchIndex(line); m != nil {
				return &VersionMatch{Line: i + 1, Start: m[2], End: m[3], Version: line[m[2]:m[3]], Pattern: p.name}, true
			}
		}
	}
	for i, line := range lines {
		if m := anyVersion.FindStringSubmatchIndex(line); m != nil {
			return &VersionMatch{Line: i + 1, Start: m[2], End: m[3], Version: line[m[2]:m[3]], Pattern: "first version"}, true
		}
	}
	return nil, false
}

// BumpVersionInFile replaces the main version in the file at path with
// newVersion, keeping everything around it (including a "v" prefix) intact.
func BumpVersionInFile(path, newVersion string) error {
	if _, err := Parse(newVersion); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading file %s: %w", path, err)
	}
	content := string(data)

	match, ok := FindMainVersion(content)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoVersionInFile)
	}

	lines := strings.Split(content, "\n")
	line := lines[match.Line-1]
	lines[match.Line-1] = line[:match.Start] + newVersion + line[match.End:]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(filepath.Clean(path), []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
