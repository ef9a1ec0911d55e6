package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path"
	"sort"
	"strings"

	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/internal/project"
)

// EngineBinary is the external analyzer tsgate depends on.
const EngineBinary = "tsmetrics"

// TSMetricsEngine implements domain.MetricsEngine by invoking the
// tsmetrics CLI. The engine computes the metric triple per file; tsgate
// never computes metrics itself.
type TSMetricsEngine struct {
	binary string
}

// NewTSMetricsEngine creates the subprocess-backed engine
func NewTSMetricsEngine() *TSMetricsEngine {
	return &TSMetricsEngine{binary: EngineBinary}
}

// Available reports whether the engine binary is on PATH.
func (e *TSMetricsEngine) Available() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return domain.NewEngineMissingError(e.binary)
	}
	return nil
}

// engineDocument is the engine's stdout shape: the structured metrics
// document without the zone field, which tsgate adds after classification.
type engineDocument struct {
	Metrics []domain.FileMetrics `json:"metrics"`
}

// Compute runs the engine in root against the given module-configuration
// refs and includes. Missing-tsconfig diagnostics are detected from the
// engine's text output here, behind this boundary, so an engine with a
// structured error channel can replace the pattern check without touching
// the core.
func (e *TSMetricsEngine) Compute(ctx context.Context, root string, configs []string, includes []string) (*domain.EngineResult, error) {
	args := []string{"--json"}
	for _, ref := range configs {
		args = append(args, "-p", tsconfigPath(ref))
	}
	args = append(args, includes...)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if missing := missingConfigsFromOutput(stderr.String(), configs); len(missing) > 0 {
		return &domain.EngineResult{MissingConfigs: missing}, nil
	}
	if runErr != nil {
		return nil, domain.NewEngineError(engineFailureMessage(stderr.String()), runErr)
	}

	var doc engineDocument
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		return nil, domain.NewEngineError("malformed engine output", err)
	}
	return &domain.EngineResult{Metrics: doc.Metrics}, nil
}

// tsconfigPath maps a module-configuration ref to the tsconfig file path
// handed to the engine.
func tsconfigPath(ref string) string {
	if ref == "." {
		return project.MarkerTSConfig
	}
	return path.Join(ref, project.MarkerTSConfig)
}

// missingConfigsFromOutput scans engine diagnostics for missing-tsconfig
// lines and maps each back to the ref that produced it. Longer paths are
// tried first so "shared/tsconfig.json" never matches the root ref.
func missingConfigsFromOutput(output string, configs []string) []string {
	ordered := make([]string, len(configs))
	copy(ordered, configs)
	sort.Slice(ordered, func(i, j int) bool {
		return len(tsconfigPath(ordered[i])) > len(tsconfigPath(ordered[j]))
	})

	var missing []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "cannot find tsconfig") &&
			!strings.Contains(lower, "no such tsconfig") {
			continue
		}
		for _, ref := range ordered {
			if strings.Contains(line, tsconfigPath(ref)) {
				if !seen[ref] {
					seen[ref] = true
					missing = append(missing, ref)
				}
				break
			}
		}
	}
	return missing
}

func engineFailureMessage(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return fmt.Sprintf("%s failed: %s", EngineBinary, trimmed)
		}
	}
	return fmt.Sprintf("%s failed", EngineBinary)
}
