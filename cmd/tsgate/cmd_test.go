package main

import (
	"testing"
)

func TestGateExitError(t *testing.T) {
	err := &GateExitError{Code: 2}
	if err.Error() != "" {
		t.Errorf("Expected empty message for a status-only exit, got %q", err.Error())
	}

	err = &GateExitError{Code: 1, Message: "engine not found"}
	if err.Error() != "engine not found" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestNewRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"all", "json", "yaml", "red", "init", "force"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s to be registered", name)
		}
	}
}

func TestNewRootCmd_AcceptsPositionalPaths(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Args != nil {
		if err := cmd.Args(cmd, []string{"src/a.ts", "src/b.ts"}); err != nil {
			t.Errorf("Positional paths should be accepted: %v", err)
		}
	}

	if cmd.Use != "tsgate [path...]" {
		t.Errorf("Unexpected Use line: %q", cmd.Use)
	}
}
