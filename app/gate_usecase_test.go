package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns canned results per invocation so tests never shell
// out to the real analyzer.
type fakeEngine struct {
	available   error
	results     []*domain.EngineResult
	calls       int
	lastConfigs []string
}

func (f *fakeEngine) Available() error { return f.available }

func (f *fakeEngine) Compute(_ context.Context, _ string, configs, _ []string) (*domain.EngineResult, error) {
	f.lastConfigs = configs
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], nil
}

type fakeChanges struct {
	files []string
	calls int
}

func (f *fakeChanges) ChangedFiles(_ context.Context, _ string) ([]string, error) {
	f.calls++
	return f.files, nil
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newProject(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		writeProjectFile(t, root, f, "{}")
	}
	// Keep the user-level rc out of the picture.
	t.Setenv("HOME", t.TempDir())
	return root
}

func newUseCase(root string, engine domain.MetricsEngine, changes domain.ChangeLister) *GateUseCase {
	return NewGateUseCase(engine, changes, &service.NoOpProgressManager{}).WithWorkDir(root)
}

func TestExecute_EngineMissingFailsBeforeDiscovery(t *testing.T) {
	root := newProject(t, "package.json")
	engine := &fakeEngine{available: domain.NewEngineMissingError("tsmetrics")}
	changes := &fakeChanges{files: []string{"a.ts"}}

	_, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.Error(t, err)
	assert.Zero(t, engine.calls)
	assert.Zero(t, changes.calls, "change detection must not run when the dependency is absent")
}

func TestExecute_EmptyDiffSkipsEngine(t *testing.T) {
	root := newProject(t, "package.json")
	engine := &fakeEngine{results: []*domain.EngineResult{{}}}
	changes := &fakeChanges{files: []string{"README.md"}}

	report, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.NoError(t, err)

	assert.Zero(t, engine.calls, "the engine must never be invoked for an empty diff")
	assert.Empty(t, report.Metrics)
	assert.Equal(t, domain.ExitOK, report.Status)
}

func TestExecute_DiffModeClassifiesAndDerivesStatus(t *testing.T) {
	root := newProject(t, "package.json", "tsconfig.json")
	engine := &fakeEngine{results: []*domain.EngineResult{{
		Metrics: []domain.FileMetrics{
			{FilePath: "src/ok.ts", MaintainabilityIndex: 67.45, CyclomaticComplexity: 5, CognitiveComplexity: 3},
			{FilePath: "src/bad.ts", MaintainabilityIndex: 22.77, CyclomaticComplexity: 33, CognitiveComplexity: 54},
		},
	}}}
	changes := &fakeChanges{files: []string{"src/ok.ts", "src/bad.ts"}}

	report, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.NoError(t, err)

	require.Len(t, report.Metrics, 2)
	assert.Equal(t, domain.ZoneGreen, report.Metrics[0].Zone)
	assert.Equal(t, domain.ZoneRed, report.Metrics[1].Zone)
	assert.Equal(t, domain.ExitRedZone, report.Status)
	assert.Equal(t, []string{"."}, engine.lastConfigs, "auto-discovery supplies the root module")
}

func TestExecute_StatusIndependentOfDisplayFlags(t *testing.T) {
	for _, req := range []domain.GateRequest{
		{},
		{ShowAll: true},
		{RedOnly: true},
	} {
		root := newProject(t, "package.json", "tsconfig.json")
		engine := &fakeEngine{results: []*domain.EngineResult{{
			Metrics: []domain.FileMetrics{
				{FilePath: "bad.ts", MaintainabilityIndex: 10, CyclomaticComplexity: 1, CognitiveComplexity: 1},
			},
		}}}
		changes := &fakeChanges{files: []string{"bad.ts"}}

		report, err := newUseCase(root, engine, changes).Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.ExitRedZone, report.Status)
	}
}

func TestExecute_PathModeRewritesResultPaths(t *testing.T) {
	root := newProject(t, "package.json", "shared/tsconfig.json", "shared/x.ts")
	engine := &fakeEngine{results: []*domain.EngineResult{{
		Metrics: []domain.FileMetrics{
			{FilePath: "x.ts", MaintainabilityIndex: 80, CyclomaticComplexity: 1, CognitiveComplexity: 1},
		},
	}}}

	req := domain.GateRequest{Paths: []string{filepath.Join(root, "shared", "x.ts")}}
	report, err := newUseCase(root, engine, &fakeChanges{}).Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, report.Metrics, 1)
	assert.Equal(t, "shared/x.ts", report.Metrics[0].FilePath, "engine paths are repaired to root-relative form")
	assert.Equal(t, []string{"shared"}, engine.lastConfigs)
}

func TestExecute_RetriesOnceWithValidConfigs(t *testing.T) {
	root := newProject(t, "package.json", "tsconfig.json", "packages/lib/tsconfig.json")
	engine := &fakeEngine{results: []*domain.EngineResult{
		{MissingConfigs: []string{"packages/lib"}},
		{Metrics: []domain.FileMetrics{
			{FilePath: "a.ts", MaintainabilityIndex: 80, CyclomaticComplexity: 1, CognitiveComplexity: 1},
		}},
	}}
	changes := &fakeChanges{files: []string{"a.ts"}}

	report, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, engine.calls, "exactly one retry")
	assert.Equal(t, []string{"."}, engine.lastConfigs, "retry runs against the remaining valid configs")
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, domain.ExitOK, report.Status)
}

func TestExecute_NoValidConfigRemaining(t *testing.T) {
	root := newProject(t, "package.json", "tsconfig.json")
	engine := &fakeEngine{results: []*domain.EngineResult{
		{MissingConfigs: []string{"."}},
	}}
	changes := &fakeChanges{files: []string{"a.ts"}}

	_, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, engine.calls, "no retry when nothing valid remains")
}

func TestExecute_ThresholdsFromProjectRC(t *testing.T) {
	root := newProject(t, "package.json", "tsconfig.json")
	// Strict MI bound turns an otherwise green file yellow.
	writeProjectFile(t, root, ".tsgaterc",
		"MI_YELLOW_MAX=70\nMI_RED_MAX=20\nCC_YELLOW_MIN=11\nCC_RED_MIN=21\nCOC_YELLOW_MIN=11\nCOC_RED_MIN=21\n")

	engine := &fakeEngine{results: []*domain.EngineResult{{
		Metrics: []domain.FileMetrics{
			{FilePath: "a.ts", MaintainabilityIndex: 67.45, CyclomaticComplexity: 5, CognitiveComplexity: 3},
		},
	}}}
	changes := &fakeChanges{files: []string{"a.ts"}}

	report, err := newUseCase(root, engine, changes).Execute(context.Background(), domain.GateRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneYellow, report.Metrics[0].Zone)
}
