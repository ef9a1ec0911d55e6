package config

import "fmt"

// Strictness controls the threshold preset written by init.
type Strictness string

const (
	StrictnessStandard Strictness = "standard"
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStrict   Strictness = "strict"
)

// presetThresholds maps each strictness level to its six bounds.
var presetThresholds = map[Strictness]struct {
	miYellow, miRed   float64
	ccYellow, ccRed   int
	cogYellow, cogRed int
}{
	StrictnessStandard: {DefaultMIYellowMax, DefaultMIRedMax, DefaultCCYellowMin, DefaultCCRedMin, DefaultCogYellowMin, DefaultCogRedMin},
	StrictnessRelaxed:  {30, 15, 16, 31, 16, 31},
	StrictnessStrict:   {50, 25, 8, 15, 8, 15},
}

// GetRCTemplate renders a documented rc file for the given strictness.
// Unknown strictness falls back to the standard preset.
func GetRCTemplate(s Strictness) string {
	p, ok := presetThresholds[s]
	if !ok {
		p = presetThresholds[StrictnessStandard]
	}
	return fmt.Sprintf(`# tsgate configuration (%s preset)
#
# Maintainability index: a file is YELLOW at or below MI_YELLOW_MAX and
# RED at or below MI_RED_MAX. Complexity counts work the other way:
# YELLOW at or above the yellow minimum, RED at or above the red minimum.
# All six values are required; tsgate refuses a partial file.
MI_YELLOW_MAX=%v
MI_RED_MAX=%v
CC_YELLOW_MIN=%d
CC_RED_MIN=%d
COC_YELLOW_MIN=%d
COC_RED_MIN=%d

# Comma-separated tsconfig directories relative to the project root.
# Leave empty to auto-discover every tsconfig.json in the project.
# TSCONFIGS=., packages/shared
TSCONFIGS=
`, s, p.miYellow, p.miRed, p.ccYellow, p.ccRed, p.cogYellow, p.cogRed)
}
