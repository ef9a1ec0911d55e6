package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/tsgate/domain"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Project markers and the tool's own state directory.
const (
	MarkerPackageJSON = "package.json"
	MarkerTSConfig    = "tsconfig.json"
	StateDirName      = ".tsgate"
)

// Directories never worth scanning for module configurations.
var skipDirNames = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"coverage":     true,
}

// LocateRoot walks ancestor directories of startDir, including startDir
// itself, and returns the nearest one containing a project marker. It
// fails when no marker exists before the filesystem root.
func LocateRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", domain.NewNoProjectRootError(startDir)
	}

	for {
		if hasMarker(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", domain.NewNoProjectRootError(startDir)
		}
		dir = parent
	}
}

func hasMarker(dir string) bool {
	for _, marker := range []string{MarkerPackageJSON, MarkerTSConfig} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// DiscoverConfigs enumerates every tsconfig.json directory under root as
// a root-relative ref ("." for the root module), skipping dependency
// caches, build outputs, hidden directories, the tool state directory,
// and anything the root .gitignore excludes. The result is sorted for
// determinism and never empty: a tree without any tsconfig falls back to
// the root module.
func DiscoverConfigs(root string) []string {
	ignore := loadGitignore(root)

	var refs []string
	_ = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal to discovery
		}
		if info.IsDir() {
			if p == root {
				return nil
			}
			name := filepath.Base(p)
			if skipDirNames[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if ignore != nil {
				if rel, relErr := filepath.Rel(root, p); relErr == nil {
					// Directory patterns like "generated/" only match a
					// path that carries the trailing separator itself.
					rel = filepath.ToSlash(rel)
					if ignore.MatchesPath(rel) || ignore.MatchesPath(rel+"/") {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}
		if info.Name() == MarkerTSConfig {
			if rel, relErr := filepath.Rel(root, filepath.Dir(p)); relErr == nil {
				refs = append(refs, filepath.ToSlash(rel))
			}
		}
		return nil
	})

	sort.Strings(refs)
	if len(refs) == 0 {
		return []string{"."}
	}
	return refs
}

func loadGitignore(root string) *gitignore.GitIgnore {
	ign, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ign
}
