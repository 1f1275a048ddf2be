package nextver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// ManifestStore supplies and persists the project's current version.
type ManifestStore interface {
	ReadVersion() (string, error)
	WriteVersion(version string) error
}

var (
	// ErrVersionFieldMissing is returned when the manifest has no "version" field.
	ErrVersionFieldMissing = errors.New(`manifest has no "version" field`)
	// ErrVersionFieldType is returned when the "version" field is not a string.
	ErrVersionFieldType = errors.New(`manifest "version" field is not a string`)
)

// manifestJSON keeps numbers verbatim and sorts keys so rewrites are stable.
// HTML escaping is off so script fields like "a && b" survive untouched.
var manifestJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

const manifestIndent = "  "

// JSONManifest is a JSON document with a top-level "version" field,
// such as package.json.
type JSONManifest struct {
	Path string
}

// NewJSONManifest returns a manifest store for the file at path.
func NewJSONManifest(path string) *JSONManifest {
	return &JSONManifest{Path: path}
}

func (m *JSONManifest) load() (map[string]any, error) {
	data, err := os.ReadFile(filepath.Clean(m.Path))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var doc map[string]any
	if err := manifestJSON.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", m.Path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parsing manifest %s: top level is not an object", m.Path)
	}
	return doc, nil
}

// ReadVersion returns the raw "version" string. It is not validated here.
func (m *JSONManifest) ReadVersion() (string, error) {
	doc, err := m.load()
	if err != nil {
		return "", err
	}
	raw, ok := doc["version"]
	if !ok {
		return "", fmt.Errorf("%s: %w", m.Path, ErrVersionFieldMissing)
	}
	version, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w", m.Path, ErrVersionFieldType)
	}
	return version, nil
}

// WriteVersion sets "version" and rewrites the document with sorted keys,
// two-space indentation and a trailing newline. Other fields keep their values,
// with one exception: an escaped lone UTF-16 surrogate such as "\ud800" has no
// string representation and is rewritten as U+FFFD.
func (m *JSONManifest) WriteVersion(version string) error {
	doc, err := m.load()
	if err != nil {
		return err
	}
	doc["version"] = version

	compact, err := manifestJSON.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	// jsoniter's sorted map encoder does not honor indentation, so the
	// compact output is re-indented.
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", manifestIndent); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	out.WriteByte('\n')

	mode := os.FileMode(0o644)
	if info, err := os.Stat(m.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(filepath.Clean(m.Path), out.Bytes(), mode); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
