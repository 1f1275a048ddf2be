// Package config loads nextver settings from an optional YAML file.
//
// The file replaces the environment-derived defaults of earlier tooling with
// explicit values: the manifest path, the repository path, the commit message
// prefixes used for classification and the publishing switches.
package config
