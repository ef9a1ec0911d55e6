package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/tsgate/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChangeLister struct {
	files []string
	err   error
	calls int
}

func (s *stubChangeLister) ChangedFiles(_ context.Context, _ string) ([]string, error) {
	s.calls++
	return s.files, s.err
}

func mkProject(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	}
	return root
}

func TestResolve_DiffMode(t *testing.T) {
	root := mkProject(t, "tsconfig.json")
	changes := &stubChangeLister{files: []string{"src/a.ts", "README.md", "src/b.tsx", "img/logo.png"}}
	r := NewFileSetResolver(root, []string{".", "shared"}, changes)

	fs, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, fs.Empty)
	assert.Equal(t, []string{".", "shared"}, fs.Configs, "diff mode analyzes against all configured modules in one pass")
	assert.Equal(t, []string{"src/a.ts", "src/b.tsx"}, fs.Includes, "non-source files are filtered out")
	assert.Equal(t, ".", fs.Module)
}

func TestResolve_DiffModeEmptyIsNormal(t *testing.T) {
	root := mkProject(t, "tsconfig.json")
	changes := &stubChangeLister{files: []string{"README.md", "docs/notes.txt"}}
	r := NewFileSetResolver(root, []string{"."}, changes)

	fs, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, fs.Empty)
	assert.Empty(t, fs.Includes)
}

func TestResolve_PathModeRootModule(t *testing.T) {
	root := mkProject(t, "tsconfig.json", "src/deep/file.ts")
	r := NewFileSetResolver(root, []string{"."}, &stubChangeLister{})

	fs, err := r.Resolve(context.Background(), []string{filepath.Join(root, "src", "deep", "file.ts")})
	require.NoError(t, err)

	assert.Equal(t, ".", fs.Module)
	assert.Equal(t, []string{"."}, fs.Configs)
	assert.Equal(t, []string{"src/deep/file.ts"}, fs.Includes)
}

func TestResolve_PathModeNestedModule(t *testing.T) {
	root := mkProject(t, "tsconfig.json", "shared/tsconfig.json", "shared/x.ts")
	r := NewFileSetResolver(root, []string{".", "shared"}, &stubChangeLister{})

	fs, err := r.Resolve(context.Background(), []string{filepath.Join(root, "shared", "x.ts")})
	require.NoError(t, err)

	assert.Equal(t, "shared", fs.Module)
	assert.Equal(t, []string{"shared"}, fs.Configs, "only the detected module is handed to the engine")
	assert.Equal(t, []string{"x.ts"}, fs.Includes, "includes are rewritten relative to the module")
}

func TestResolve_PathModeModuleDirItself(t *testing.T) {
	root := mkProject(t, "tsconfig.json", "shared/tsconfig.json")
	r := NewFileSetResolver(root, []string{".", "shared"}, &stubChangeLister{})

	fs, err := r.Resolve(context.Background(), []string{filepath.Join(root, "shared")})
	require.NoError(t, err)

	assert.Equal(t, "shared", fs.Module)
	assert.Equal(t, []string{"."}, fs.Includes, "the module directory maps to '.'")
}

func TestResolve_PathModeFirstPathDeterminesModule(t *testing.T) {
	root := mkProject(t, "tsconfig.json", "shared/tsconfig.json", "shared/x.ts", "src/y.ts")
	r := NewFileSetResolver(root, []string{".", "shared"}, &stubChangeLister{})

	fs, err := r.Resolve(context.Background(), []string{
		filepath.Join(root, "shared", "x.ts"),
		filepath.Join(root, "src", "y.ts"),
	})
	require.NoError(t, err)

	// Known limitation: every path is analyzed under the first path's
	// module, even when it lives outside that module.
	assert.Equal(t, "shared", fs.Module)
	assert.Equal(t, []string{"x.ts", "src/y.ts"}, fs.Includes)
}

func TestResolve_PathModeMissingPathIsFatal(t *testing.T) {
	root := mkProject(t, "tsconfig.json")
	r := NewFileSetResolver(root, []string{"."}, &stubChangeLister{})

	_, err := r.Resolve(context.Background(), []string{filepath.Join(root, "nope.ts")})
	require.Error(t, err)

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodePathNotFound, domainErr.Code)
}

func TestDetectNearestConfig_FallsBackToRoot(t *testing.T) {
	root := mkProject(t, "tsconfig.json", "src/deep/file.ts")
	r := NewFileSetResolver(root, []string{"."}, &stubChangeLister{})

	ref, err := r.DetectNearestConfig(filepath.Join(root, "src", "deep", "file.ts"))
	require.NoError(t, err)
	assert.Equal(t, ".", ref)
}

func TestDetectNearestConfig_NoConfigAnywhere(t *testing.T) {
	root := mkProject(t, "package.json", "src/file.ts")
	r := NewFileSetResolver(root, []string{"."}, &stubChangeLister{})

	ref, err := r.DetectNearestConfig(filepath.Join(root, "src", "file.ts"))
	require.NoError(t, err, "absence of a nearby config is not an error")
	assert.Equal(t, ".", ref)
}

func TestRewriteResultPaths(t *testing.T) {
	metrics := []domain.FileMetrics{{FilePath: "x.ts"}, {FilePath: "sub/y.ts"}}

	RewriteResultPaths(metrics, "shared")
	assert.Equal(t, "shared/x.ts", metrics[0].FilePath)
	assert.Equal(t, "shared/sub/y.ts", metrics[1].FilePath)

	unchanged := []domain.FileMetrics{{FilePath: "x.ts"}}
	RewriteResultPaths(unchanged, ".")
	assert.Equal(t, "x.ts", unchanged[0].FilePath)
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("a.ts"))
	assert.True(t, IsSourceFile("a.TSX"))
	assert.True(t, IsSourceFile("a.mjs"))
	assert.False(t, IsSourceFile("a.md"))
	assert.False(t, IsSourceFile("a"))
}
