package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ludo-technologies/tsgate/domain"
	"github.com/ludo-technologies/tsgate/internal/project"
	"github.com/spf13/viper"
)

// RCFileName is the persisted configuration file recognized at the
// project and user level.
const RCFileName = ".tsgaterc"

// Built-in thresholds, applied only when no rc file is found anywhere.
const (
	DefaultMIYellowMax  = 40.0
	DefaultMIRedMax     = 20.0
	DefaultCCYellowMin  = 11
	DefaultCCRedMin     = 21
	DefaultCogYellowMin = 11
	DefaultCogRedMin    = 21
)

// thresholdKeys are the six required keys of a found rc file.
var thresholdKeys = []string{
	"MI_YELLOW_MAX",
	"MI_RED_MAX",
	"CC_YELLOW_MIN",
	"CC_RED_MIN",
	"COC_YELLOW_MIN",
	"COC_RED_MIN",
}

// Config is the effective per-run configuration. It is constructed once
// by Resolve and treated as read-only afterwards.
type Config struct {
	Thresholds domain.Thresholds

	// TSConfigs are the module-configuration refs (directories relative
	// to the project root, "." for the root module). Never empty.
	TSConfigs []string

	// Source is the rc file the thresholds came from, empty when the
	// built-in defaults apply.
	Source string
}

// DefaultThresholds returns the built-in six bounds.
func DefaultThresholds() domain.Thresholds {
	return domain.Thresholds{
		MIYellowMax:  DefaultMIYellowMax,
		MIRedMax:     DefaultMIRedMax,
		CCYellowMin:  DefaultCCYellowMin,
		CCRedMin:     DefaultCCRedMin,
		CogYellowMin: DefaultCogYellowMin,
		CogRedMin:    DefaultCogRedMin,
	}
}

// Resolve loads the effective configuration. The first rc file found
// walking up from startDir to root (inclusive) wins; then userHome is
// checked; with no file anywhere the built-in defaults apply. A found
// file must define all six thresholds itself: nothing is backfilled
// from the defaults, so a partial file is a hard error rather than an
// unpredictable mix of user intent and defaults. An empty or absent
// TSCONFIGS list is filled by auto-discovery under root.
func Resolve(root, startDir, userHome string) (*Config, error) {
	rcPath := findRCFile(root, startDir, userHome)
	if rcPath == "" {
		return &Config{
			Thresholds: DefaultThresholds(),
			TSConfigs:  project.DiscoverConfigs(root),
		}, nil
	}

	cfg, err := loadRCFile(rcPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.TSConfigs) == 0 {
		cfg.TSConfigs = project.DiscoverConfigs(root)
	}
	return cfg, nil
}

// findRCFile returns the nearest rc file walking up from startDir to
// root (inclusive), falling back to userHome, or "" when none exists.
func findRCFile(root, startDir, userHome string) string {
	dir, err := filepath.Abs(startDir)
	if err == nil {
		for {
			candidate := filepath.Join(dir, RCFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			if dir == root {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if userHome != "" {
		candidate := filepath.Join(userHome, RCFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// loadRCFile parses one rc file. Unknown keys are ignored.
func loadRCFile(path string) (*Config, error) {
	// A new viper instance per load avoids shared state across runs.
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	floats := make(map[string]float64, 2)
	ints := make(map[string]int, 4)
	for _, key := range thresholdKeys {
		if !v.IsSet(key) {
			return nil, domain.NewConfigError(
				fmt.Sprintf("%s: missing required key %s", path, key), nil)
		}
		raw := strings.TrimSpace(v.GetString(key))
		// The maintainability bounds are real-valued; the complexity
		// bounds are counts and a fractional value is rejected rather
		// than silently truncated.
		if strings.HasPrefix(key, "MI_") {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, domain.NewConfigError(
					fmt.Sprintf("%s: %s must be numeric, got %q", path, key, raw), nil)
			}
			floats[key] = parsed
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, domain.NewConfigError(
				fmt.Sprintf("%s: %s must be an integer, got %q", path, key, raw), nil)
		}
		ints[key] = parsed
	}

	return &Config{
		Thresholds: domain.Thresholds{
			MIYellowMax:  floats["MI_YELLOW_MAX"],
			MIRedMax:     floats["MI_RED_MAX"],
			CCYellowMin:  ints["CC_YELLOW_MIN"],
			CCRedMin:     ints["CC_RED_MIN"],
			CogYellowMin: ints["COC_YELLOW_MIN"],
			CogRedMin:    ints["COC_RED_MIN"],
		},
		TSConfigs: parseTSConfigs(v.GetString("TSCONFIGS")),
		Source:    path,
	}, nil
}

// parseTSConfigs splits a comma-separated TSCONFIGS value into cleaned,
// deduplicated refs. Order is preserved; semantics do not depend on it.
func parseTSConfigs(raw string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		ref := filepath.ToSlash(filepath.Clean(trimmed))
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}
