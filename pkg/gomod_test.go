package nextver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"
)

func TestMajorModulePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, version, expected string
	}{
		{"example.com/widget", "1.4.0", "example.com/widget"},
		{"example.com/widget", "0.2.0", "example.com/widget"},
		{"example.com/widget", "2.0.0", "example.com/widget/v2"},
		{"example.com/widget/v2", "3.0.0", "example.com/widget/v3"},
		{"example.com/widget/v3", "1.0.0", "example.com/widget"},
	}
	for _, tc := range tests {
		got, err := majorModulePath(tc.path, tc.version)
		require.NoError(t, err, tc.path)
		require.Equal(t, tc.expected, got, tc.path)
	}

	_, err := majorModulePath("gopkg.in/yaml.v3", "4.0.0")
	require.Error(t, err)
}

// writeModule lays out a small module with a self-import, a foreign import
// and an import of a module that merely shares the path prefix.
func writeModule(t *testing.T, modulePath string) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module " + modulePath + "\n\ngo 1.24.1\n",
		"main.go": `package main

import (
	"fmt"

	"` + modulePath + `/internal/util"
	"` + modulePath + `extra/other"
)

// main prints.
func main() {
	fmt.Println(util.Name, other.Name)
}
`,
		"internal/util/util.go": "package util\n\n// Name is exported.\nconst Name = \"util\"\n",
		"vendor/x/x.go":         "package x\n\nimport _ \"" + modulePath + "/internal/util\"\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// TestUpdateGoModule rewrites go.mod and self-imports for a v2 bump.
func TestUpdateGoModule(t *testing.T) {
	t.Parallel()

	dir := writeModule(t, "example.com/widget")

	planned, err := ScanGoModule(dir, "2.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "go.mod"), filepath.Join(dir, "main.go")}, planned)

	// Scanning writes nothing.
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	require.Contains(t, string(data), "module example.com/widget\n")

	written, err := UpdateGoModule(dir, "2.0.0")
	require.NoError(t, err)
	require.Equal(t, planned, written)

	data, err = os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	f, err := modfile.Parse("go.mod", data, nil)
	require.NoError(t, err)
	require.Equal(t, "example.com/widget/v2", f.Module.Mod.Path)

	mainSrc, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	require.Contains(t, string(mainSrc), `"example.com/widget/v2/internal/util"`)
	require.Contains(t, string(mainSrc), `"example.com/widgetextra/other"`)
	require.Contains(t, string(mainSrc), "// main prints.")

	vendored, err := os.ReadFile(filepath.Join(dir, "vendor/x/x.go"))
	require.NoError(t, err)
	require.Contains(t, string(vendored), `"example.com/widget/internal/util"`)
}

// TestUpdateGoModuleNoop leaves modules alone when the path already matches or go.mod is absent.
func TestUpdateGoModuleNoop(t *testing.T) {
	t.Parallel()

	dir := writeModule(t, "example.com/widget/v2")
	files, err := UpdateGoModule(dir, "2.1.0")
	require.NoError(t, err)
	require.Empty(t, files)

	files, err = UpdateGoModule(t.TempDir(), "2.0.0")
	require.NoError(t, err)
	require.Empty(t, files)
}
