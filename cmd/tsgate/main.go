package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/tsgate/app"
	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/internal/version"
	"github.com/ludo-technologies/tsgate/service"
	"github.com/spf13/cobra"
)

// GateExitError carries a process exit code through cobra. Exit code 2
// (RED zone present) is a quality signal, not an error: the output has
// already been printed when it is returned.
type GateExitError struct {
	Code    int
	Message string
}

func (e *GateExitError) Error() string {
	return e.Message
}

var (
	gateShowAll bool
	gateJSON    bool
	gateYAML    bool
	gateRedOnly bool
	gateInit    bool
	gateForce   bool
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*GateExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tsgate [path...]",
		Short: "tsgate - health-zone quality gate for TypeScript projects",
		Long: `tsgate classifies source files into GREEN/YELLOW/RED health zones from
maintainability index, cyclomatic complexity, and cognitive complexity,
computed by the external tsmetrics analyzer.

With no paths, files changed relative to version control are analyzed
(diff mode). With explicit paths, the module configuration nearest to
the first path applies to the whole list.

Exit codes:
  0 - No RED-zone file in the full result
  1 - Fatal error (missing dependency, bad path, invalid configuration)
  2 - At least one RED-zone file exists, regardless of display filters`,
		Version:       version.Version,
		RunE:          runGate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&gateShowAll, "all", false,
		"Display every analyzed file, including GREEN (overrides --red)")
	cmd.Flags().BoolVar(&gateJSON, "json", false,
		"Output the structured metrics document as JSON")
	cmd.Flags().BoolVar(&gateYAML, "yaml", false,
		"Output the structured metrics document as YAML")
	cmd.Flags().BoolVar(&gateRedOnly, "red", false,
		"Display RED-zone files only")
	cmd.Flags().BoolVar(&gateInit, "init", false,
		"Create a .tsgaterc configuration file and exit")
	cmd.Flags().BoolVar(&gateForce, "force", false,
		"Overwrite an existing .tsgaterc (with --init)")

	cmd.AddCommand(versionCmd())
	return cmd
}

func runGate(cmd *cobra.Command, args []string) error {
	if gateInit {
		return runInit(cmd)
	}

	format := domain.OutputFormatText
	switch {
	case gateJSON:
		format = domain.OutputFormatJSON
	case gateYAML:
		format = domain.OutputFormatYAML
	}

	// Progress display would corrupt machine-readable output.
	pm := service.NewProgressManager(format == domain.OutputFormatText)
	defer pm.Close()

	uc := app.NewGateUseCase(service.NewTSMetricsEngine(), service.NewGitChangeLister(), pm)
	req := domain.GateRequest{
		Paths:        args,
		ShowAll:      gateShowAll,
		RedOnly:      gateRedOnly,
		OutputFormat: format,
		OutputWriter: os.Stdout,
	}

	report, err := uc.Execute(context.Background(), req)
	if err != nil {
		return &GateExitError{Code: 1, Message: err.Error()}
	}

	formatter := service.NewGateFormatter()
	if err := formatter.Write(report.Metrics, domain.SelectPredicate(req), format, req.OutputWriter); err != nil {
		return &GateExitError{Code: 1, Message: err.Error()}
	}

	if report.Status == domain.ExitRedZone {
		return &GateExitError{Code: 2}
	}
	return nil
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("tsgate version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
