package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// cppExtensions are the file extensions treated as C++ sources.
var cppExtensions = map[string]bool{
	".cpp": true, ".h": true, ".hpp": true, ".cc": true, ".cxx": true,
	".hxx": true, ".hh": true, ".ixx": true, ".cppm": true, ".ccm": true,
}

// ignoreDirs are directory names skipped during discovery.
var ignoreDirs = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true, ".svn": true,
	".tmp": true, ".vs": true, ".vscode": true, "bin": true, "build": true,
	"cmake-build-debug": true, "cmake-build-release": true, "dist": true,
	"node_modules": true, "obj": true, "out": true, "target": true,
	"temp": true, "third_party": true, "tmp": true, "vendor": true,
}

// FileInfo is one discovered source file.
type FileInfo struct {
	Path    string // absolute path
	RelPath string // relative to the walked root, slash-separated
}

// Sources resolves the configured inputs to the ordered file list of the run:
// explicit files first, then discovered paths. The order is deterministic so
// re-running over unchanged input assigns the same node identities.
func (c *Config) Sources(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo
	for _, f := range c.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		files = append(files, FileInfo{Path: abs, RelPath: filepath.ToSlash(f)})
	}
	for _, root := range c.Paths {
		discovered, err := discover(ctx, root, c.Ignore)
		if err != nil {
			return nil, err
		}
		files = append(files, discovered...)
	}
	return files, nil
}

func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if ignoreDirs[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// discover walks one root and returns its C++ sources in sorted order.
func discover(ctx context.Context, root string, extraIgnore []string) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(root, path)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		if cppExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(rel),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}
