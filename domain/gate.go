package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// FileMetrics holds the metric triple for one analyzed file plus the
// derived zone. The metric values come exclusively from the external
// engine; the gate only normalizes the path and appends the zone.
type FileMetrics struct {
	FilePath             string  `json:"filePath" yaml:"filePath"`
	MaintainabilityIndex float64 `json:"maintainabilityIndex" yaml:"maintainabilityIndex"`
	CyclomaticComplexity int     `json:"cyclomaticComplexity" yaml:"cyclomaticComplexity"`
	CognitiveComplexity  int     `json:"cognitiveComplexity" yaml:"cognitiveComplexity"`
	Zone                 Zone    `json:"zone" yaml:"zone"`
}

// GateRequest represents one gate invocation.
type GateRequest struct {
	// Paths are the explicit paths to analyze; empty means diff mode.
	Paths []string

	// Display options
	ShowAll bool
	RedOnly bool

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
}

// GateReport is the classified result of a run. Metrics is the full,
// unfiltered set; display filtering happens in the formatter.
type GateReport struct {
	Metrics []FileMetrics
	Status  ExitStatus
}

// ExitStatus is the process-level outcome of a run.
type ExitStatus int

const (
	// ExitOK means no RED-zone file exists in the full result.
	ExitOK ExitStatus = 0

	// ExitFatal covers environment, configuration, and argument errors.
	ExitFatal ExitStatus = 1

	// ExitRedZone means at least one RED-zone file exists in the full
	// result, regardless of what was displayed.
	ExitRedZone ExitStatus = 2
)

// DeriveExitStatus computes the run status over the full unfiltered
// metrics set. It is independent of the display predicate.
func DeriveExitStatus(metrics []FileMetrics) ExitStatus {
	for _, m := range metrics {
		if m.Zone == ZoneRed {
			return ExitRedZone
		}
	}
	return ExitOK
}

// Predicate decides whether a classified file is displayed.
type Predicate func(FileMetrics) bool

// SelectPredicate builds the display predicate for a request. ShowAll
// takes precedence over RedOnly; the default hides GREEN files.
func SelectPredicate(req GateRequest) Predicate {
	switch {
	case req.ShowAll:
		return func(FileMetrics) bool { return true }
	case req.RedOnly:
		return func(m FileMetrics) bool { return m.Zone == ZoneRed }
	default:
		return func(m FileMetrics) bool { return m.Zone != ZoneGreen }
	}
}

// EngineResult is what one external-engine invocation produced. When the
// engine reports module configurations it could not find, MissingConfigs
// carries their refs and Metrics is empty; the caller decides whether to
// retry with a reduced configuration set.
type EngineResult struct {
	Metrics        []FileMetrics
	MissingConfigs []string
}

// MetricsEngine is the collaborator boundary to the external analyzer.
// Implementations are substitutable in tests with fakes returning canned
// results.
type MetricsEngine interface {
	// Available reports whether the engine dependency is installed.
	Available() error

	// Compute invokes the engine in root against the given module
	// configuration refs and file includes. Includes are relative to the
	// module configuration the engine is given, not to the project root.
	Compute(ctx context.Context, root string, configs []string, includes []string) (*EngineResult, error)
}

// ChangeLister supplies the candidate file list for diff mode.
type ChangeLister interface {
	// ChangedFiles returns paths changed relative to version control,
	// including untracked files, relative to root.
	ChangedFiles(ctx context.Context, root string) ([]string, error)
}

// ProgressManager manages progress display during long operations
type ProgressManager interface {
	// StartTask creates a new progress task. A negative total renders an
	// indeterminate spinner.
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress display is enabled
	IsInteractive() bool

	// Close cleans up all progress display
	Close()
}

// TaskProgress tracks one task's progress
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
