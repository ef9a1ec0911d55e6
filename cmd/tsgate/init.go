package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/tsgate/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// runInit handles --init: a guided rc-file bootstrap that bypasses the
// main pipeline entirely.
func runInit(cmd *cobra.Command) error {
	strictness, outputPath, err := runInitWizard()
	if err != nil {
		return err
	}

	if !gateForce {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", outputPath)
		}
	}

	content := config.GetRCTemplate(strictness)
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := outputPath
	if absPath, err := filepath.Abs(outputPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'tsgate' to analyze your changed files.")
	return nil
}

func runInitWizard() (config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("tsgate Configuration Setup")
	fmt.Println("==========================")
	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced thresholds for most projects", config.StrictnessStandard},
		{"Relaxed", "Looser thresholds, fewer warnings", config.StrictnessRelaxed},
		{"Strict", "Tighter thresholds, CI/CD enforcement", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the gate be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: config.RCFileName,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = config.RCFileName
	}

	return strictnessLevels[strictnessIdx].Value, outputPath, nil
}
