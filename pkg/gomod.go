package nextver

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// readModulePath returns the module path declared in modDir/go.mod.
func readModulePath(modDir string) (*modfile.File, error) {
	modPath := filepath.Join(modDir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("module directive not found in %s", modPath)
	}
	return f, nil
}

// majorModulePath returns the module path that matches newVersion's major:
// no suffix for v0 and v1, "/vN" otherwise.
func majorModulePath(oldPath, newVersion string) (string, error) {
	base, _, ok := module.SplitPathVersion(oldPath)
	if !ok {
		return "", fmt.Errorf("invalid module path %q", oldPath)
	}
	if strings.HasPrefix(base, "gopkg.in/") {
		return "", fmt.Errorf("module %q uses gopkg.in versioning and cannot be rewritten", oldPath)
	}
	maj := semver.Major("v" + newVersion)
	if maj == "" {
		return "", fmt.Errorf("invalid version %q", newVersion)
	}
	if maj == "v0" || maj == "v1" {
		return base, nil
	}
	return base + "/" + maj, nil
}

// ScanGoModule reports the files UpdateGoModule would modify. It returns
// nil when modDir has no go.mod or the module path already matches.
func ScanGoModule(modDir, newVersion string) ([]string, error) {
	return goModule(modDir, newVersion, false)
}

// UpdateGoModule rewrites the module path in modDir/go.mod for newVersion's
// major and updates the self-imports of every .go file in the module.
// It returns the files written.
func UpdateGoModule(modDir, newVersion string) ([]string, error) {
	return goModule(modDir, newVersion, true)
}

func goModule(modDir, newVersion string, write bool) ([]string, error) {
	modPath := filepath.Join(modDir, "go.mod")
	if _, err := os.Stat(modPath); os.IsNotExist(err) {
		return nil, nil
	}
	f, err := readModulePath(modDir)
	if err != nil {
		return nil, err
	}
	oldMod := f.Module.Mod.Path
	newMod, err := majorModulePath(oldMod, newVersion)
	if err != nil {
		return nil, err
	}
	if newMod == oldMod {
		return nil, nil
	}

	if write {
		if err := f.AddModuleStmt(newMod); err != nil {
			return nil, fmt.Errorf("updating module path: %w", err)
		}
		out, err := f.Format()
		if err != nil {
			return nil, fmt.Errorf("formatting go.mod: %w", err)
		}
		if err := os.WriteFile(modPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("writing go.mod: %w", err)
		}
	}

	files, err := rewriteSelfImports(modDir, oldMod, newMod, write)
	if err != nil {
		return nil, err
	}
	return append([]string{modPath}, files...), nil
}

// importsModule reports whether importPath is mod or one of its packages.
func importsModule(importPath, mod string) bool {
	return importPath == mod || strings.HasPrefix(importPath, mod+"/")
}

// rewriteSelfImports walks the .go files of the module rooted at modDir,
// skipping vendor, hidden directories and nested modules, and rewrites
// imports of oldMod to newMod when write is set.
func rewriteSelfImports(modDir, oldMod, newMod string, write bool) ([]string, error) {
	var touched []string
	err := filepath.WalkDir(modDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == modDir {
				return nil
			}
			name := d.Name()
			if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		fset := token.NewFileSet()
		mode := parser.ImportsOnly
		if write {
			mode = parser.ParseComments
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		changed := false
		for _, imp := range file.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !importsModule(p, oldMod) {
				continue
			}
			imp.Path.Value = strconv.Quote(newMod + strings.TrimPrefix(p, oldMod))
			changed = true
		}
		if !changed {
			return nil
		}

		if write {
			var buf bytes.Buffer
			if err := format.Node(&buf, fset, file); err != nil {
				return fmt.Errorf("formatting %s: %w", path, err)
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		touched = append(touched, path)
		return nil
	})
	return touched, err
}
