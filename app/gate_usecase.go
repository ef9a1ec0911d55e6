package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/internal/config"
	"github.com/ludo-technologies/tsgate/internal/project"
	"github.com/ludo-technologies/tsgate/service"
)

// GateUseCase orchestrates one gate run: engine availability, root and
// configuration resolution, file-set resolution, the engine invocation,
// and classification. Data flows strictly forward; the configuration is
// resolved once and passed by value.
type GateUseCase struct {
	engine   domain.MetricsEngine
	changes  domain.ChangeLister
	progress domain.ProgressManager
	logger   *log.Logger
	workDir  string
}

// NewGateUseCase creates a new gate use case
func NewGateUseCase(engine domain.MetricsEngine, changes domain.ChangeLister, progress domain.ProgressManager) *GateUseCase {
	return &GateUseCase{
		engine:   engine,
		changes:  changes,
		progress: progress,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: false,
		}),
	}
}

// WithWorkDir overrides the starting directory for root location.
// Intended for tests; the default is the process working directory.
func (uc *GateUseCase) WithWorkDir(dir string) *GateUseCase {
	uc.workDir = dir
	return uc
}

// Execute runs the full pipeline and returns the classified report. All
// fatal conditions surface as errors; a RED-zone file is not an error
// but a status on the report.
func (uc *GateUseCase) Execute(ctx context.Context, req domain.GateRequest) (*domain.GateReport, error) {
	// The engine dependency is checked before any discovery work.
	if err := uc.engine.Available(); err != nil {
		return nil, err
	}

	startDir := uc.workDir
	if startDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, domain.NewInvalidInputError("cannot determine working directory", err)
		}
		startDir = cwd
	}

	root, err := project.LocateRoot(startDir)
	if err != nil {
		return nil, err
	}

	home, _ := os.UserHomeDir()
	cfg, err := config.Resolve(root, startDir, home)
	if err != nil {
		return nil, err
	}

	resolver := service.NewFileSetResolver(root, cfg.TSConfigs, uc.changes)
	fileSet, err := resolver.Resolve(ctx, uc.relativizePaths(req.Paths))
	if err != nil {
		return nil, err
	}
	if fileSet.Empty {
		return &domain.GateReport{Metrics: []domain.FileMetrics{}, Status: domain.ExitOK}, nil
	}

	result, err := uc.runEngine(ctx, root, fileSet.Configs, fileSet.Includes)
	if err != nil {
		return nil, err
	}

	service.RewriteResultPaths(result.Metrics, fileSet.Module)
	for i := range result.Metrics {
		m := &result.Metrics[i]
		m.Zone = cfg.Thresholds.Classify(m.MaintainabilityIndex, m.CyclomaticComplexity, m.CognitiveComplexity)
	}

	return &domain.GateReport{
		Metrics: result.Metrics,
		Status:  domain.DeriveExitStatus(result.Metrics),
	}, nil
}

// runEngine invokes the external engine with a spinner. When the engine
// reports missing module configurations, each is logged as a warning and
// the invocation is retried exactly once against the refs that remain.
func (uc *GateUseCase) runEngine(ctx context.Context, root string, configs, includes []string) (*domain.EngineResult, error) {
	task := uc.progress.StartTask("Analyzing", -1)
	defer task.Complete()

	result, err := uc.engine.Compute(ctx, root, configs, includes)
	if err != nil {
		return nil, err
	}
	if len(result.MissingConfigs) == 0 {
		return result, nil
	}

	valid := configs[:0:0]
	missing := make(map[string]bool, len(result.MissingConfigs))
	for _, ref := range result.MissingConfigs {
		missing[ref] = true
		uc.logger.Warn("tsconfig not found, skipping", "tsconfig", ref)
	}
	for _, ref := range configs {
		if !missing[ref] {
			valid = append(valid, ref)
		}
	}
	if len(valid) == 0 {
		return nil, domain.NewConfigError("no valid tsconfig remains after skipping missing ones", nil)
	}

	result, err = uc.engine.Compute(ctx, root, valid, includes)
	if err != nil {
		return nil, err
	}
	if len(result.MissingConfigs) > 0 {
		return nil, domain.NewEngineError(
			fmt.Sprintf("engine still reports missing tsconfigs after retry: %s",
				strings.Join(result.MissingConfigs, ", ")), nil)
	}
	return result, nil
}

// relativizePaths leaves request paths untouched except for trivial
// cleanup; resolution against the project root happens in the file set
// resolver, which owns the existence checks.
func (uc *GateUseCase) relativizePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}
	return cleaned
}
