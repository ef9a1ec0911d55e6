package service

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/internal/project"
)

// sourceExtensions are the file extensions recognized for analysis.
var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
}

// IsSourceFile reports whether path has a recognized source extension.
func IsSourceFile(p string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(p))]
}

// FileSet is the concrete scope of one engine pass.
type FileSet struct {
	// Configs are the module-configuration refs for the pass.
	Configs []string

	// Includes are the files handed to the engine, relative to the
	// module configuration (root-relative when Module is ".").
	Includes []string

	// Module is the configuration ref the includes are relative to.
	// Engine result paths get this prefix back (see RewriteResultPaths).
	Module string

	// Empty marks a diff-mode run with nothing to analyze. The engine
	// must not be invoked; the run succeeds with an empty result.
	Empty bool
}

// FileSetResolver turns a request's paths into the file set to analyze
// and decides which module configuration applies.
type FileSetResolver struct {
	root    string
	configs []string
	changes domain.ChangeLister
}

// NewFileSetResolver creates a resolver over the given project root and
// configured module refs
func NewFileSetResolver(root string, configs []string, changes domain.ChangeLister) *FileSetResolver {
	return &FileSetResolver{root: root, configs: configs, changes: changes}
}

// Resolve picks diff mode when no explicit paths are given, path mode
// otherwise.
func (r *FileSetResolver) Resolve(ctx context.Context, paths []string) (*FileSet, error) {
	if len(paths) == 0 {
		return r.resolveDiffMode(ctx)
	}
	return r.resolvePathMode(paths)
}

// resolveDiffMode sources candidates from version control and analyzes
// them in a single pass against all configured module refs. One engine
// invocation instead of per-file module detection is deliberate.
func (r *FileSetResolver) resolveDiffMode(ctx context.Context) (*FileSet, error) {
	changed, err := r.changes.ChangedFiles(ctx, r.root)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range changed {
		if IsSourceFile(f) {
			files = append(files, filepath.ToSlash(f))
		}
	}
	if len(files) == 0 {
		// No changed source files is a normal outcome, not an error.
		return &FileSet{Module: ".", Empty: true}, nil
	}
	return &FileSet{Configs: r.configs, Includes: files, Module: "."}, nil
}

// resolvePathMode analyzes the explicit path list under the module
// configuration nearest to the FIRST path. Every path in the list is
// treated as belonging to that module; mixed-module path lists are not
// supported per-path.
func (r *FileSetResolver) resolvePathMode(paths []string) (*FileSet, error) {
	module, err := r.DetectNearestConfig(paths[0])
	if err != nil {
		return nil, err
	}

	includes := make([]string, 0, len(paths))
	for _, p := range paths {
		rootRel, err := r.rootRelative(p)
		if err != nil {
			return nil, err
		}
		includes = append(includes, moduleRelative(rootRel, module))
	}

	return &FileSet{Configs: []string{module}, Includes: includes, Module: module}, nil
}

// DetectNearestConfig resolves path against the project root and walks
// ancestors toward the root (inclusive), returning the first directory
// holding a tsconfig.json as a root-relative ref. Absence of a nearby
// config is not an error: the root module "." is the fallback. A path
// that does not exist on disk is fatal.
func (r *FileSetResolver) DetectNearestConfig(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", domain.NewPathNotFoundError(p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", domain.NewPathNotFoundError(p, err)
	}

	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, project.MarkerTSConfig)); err == nil {
			rel, relErr := filepath.Rel(r.root, dir)
			if relErr != nil {
				break
			}
			return filepath.ToSlash(rel), nil
		}
		if dir == r.root {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ".", nil
}

// rootRelative resolves an explicit path and expresses it relative to
// the project root, failing when it does not exist on disk.
func (r *FileSetResolver) rootRelative(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", domain.NewPathNotFoundError(p, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", domain.NewPathNotFoundError(p, err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", domain.NewPathNotFoundError(p, err)
	}
	return filepath.ToSlash(rel), nil
}

// moduleRelative strips the module-directory prefix from a root-relative
// path because the engine expects paths relative to the module
// configuration it is given. The module directory itself maps to ".".
func moduleRelative(rootRel, module string) string {
	if module == "." {
		return rootRel
	}
	if rootRel == module {
		return "."
	}
	if strings.HasPrefix(rootRel, module+"/") {
		return strings.TrimPrefix(rootRel, module+"/")
	}
	// Outside the detected module: left root-relative. Metrics for such
	// paths may be missing or wrong; see the path-mode limitation.
	return rootRel
}

// RewriteResultPaths repairs the engine's module-relative file paths
// into project-relative form by prefixing the module directory, so all
// output is uniformly root-relative.
func RewriteResultPaths(metrics []domain.FileMetrics, module string) {
	for i := range metrics {
		metrics[i].FilePath = filepath.ToSlash(metrics[i].FilePath)
		if module != "." {
			metrics[i].FilePath = path.Join(module, metrics[i].FilePath)
		}
	}
}
