package nextver

import (
	"errors"
	"fmt"
	"strings"
)

// BumpKind is the category of version increment required by a change set.
// Values are ordered by severity.
type BumpKind int

const (
	Patch BumpKind = iota
	Minor
	Major
)

// ErrUnknownBump is returned for bump kinds outside Major, Minor and Patch.
var ErrUnknownBump = errors.New("unknown bump kind")

func (k BumpKind) String() string {
	switch k {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return fmt.Sprintf("BumpKind(%d)", int(k))
	}
}

// ParseBumpKind converts "major", "minor" or "patch" (case-insensitive) to a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return Patch, fmt.Errorf("%w: %q", ErrUnknownBump, s)
	}
}

// Classifier maps commit messages to bump kinds by prefix.
type Classifier struct {
	// BreakingPrefixes mark incompatible changes (Major).
	BreakingPrefixes []string
	// FeaturePrefixes mark backward-compatible additions (Minor).
	FeaturePrefixes []string
}

// DefaultClassifier recognizes "BREAKING CHANGE"/"BREAKING-CHANGE" and
// "type!:" headers as breaking, and "feat" as a feature.
func DefaultClassifier() Classifier {
	return Classifier{
		BreakingPrefixes: []string{"BREAKING CHANGE", "BREAKING-CHANGE"},
		FeaturePrefixes:  []string{"feat"},
	}
}

// Tally holds the number of messages counted at each severity.
type Tally struct {
	Major int
	Minor int
	Patch int
}

// Kind resolves the tally to a bump kind. The most severe non-empty
// counter wins; an empty tally is a Patch.
func (t Tally) Kind() BumpKind {
	switch {
	case t.Major > 0:
		return Major
	case t.Minor > 0:
		return Minor
	default:
		return Patch
	}
}

// Total is the number of messages counted.
func (t Tally) Total() int {
	return t.Major + t.Minor + t.Patch
}

// Tally counts every message once, at the highest severity it matches.
// Messages without a recognized prefix count as Patch.
func (c Classifier) Tally(messages []string) Tally {
	var t Tally
	for _, msg := range messages {
		switch c.kindOf(msg) {
		case Major:
			t.Major++
		case Minor:
			t.Minor++
		default:
			t.Patch++
		}
	}
	return t
}

// Classify returns the minimal bump kind required by messages.
func (c Classifier) Classify(messages []string) BumpKind {
	return c.Tally(messages).Kind()
}

// Classify classifies messages with DefaultClassifier.
func Classify(messages []string) BumpKind {
	return DefaultClassifier().Classify(messages)
}

func (c Classifier) kindOf(msg string) BumpKind {
	if hasAnyPrefix(msg, c.BreakingPrefixes) || hasBreakingMarker(msg) {
		return Major
	}
	if hasAnyPrefix(msg, c.FeaturePrefixes) {
		return Minor
	}
	return Patch
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// hasBreakingMarker reports whether msg starts with a conventional commit
// header such as "feat!:" or "fix(api)!:".
func hasBreakingMarker(msg string) bool {
	header, _, found := strings.Cut(msg, ":")
	if !found || !strings.HasSuffix(header, "!") {
		return false
	}
	typ := strings.TrimSuffix(header, "!")
	if open := strings.IndexByte(typ, '('); open >= 0 {
		if !strings.HasSuffix(typ, ")") {
			return false
		}
		typ = typ[:open]
	}
	if typ == "" {
		return false
	}
	for _, c := range typ {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}
