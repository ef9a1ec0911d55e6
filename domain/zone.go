package domain

import (
	"encoding/json"
	"fmt"
)

// Zone is the tri-state health classification of a single file.
type Zone int

const (
	ZoneGreen Zone = iota
	ZoneYellow
	ZoneRed
)

// zoneNames are the wire names used in JSON/YAML documents.
var zoneNames = map[Zone]string{
	ZoneGreen:  "GRN",
	ZoneYellow: "YLW",
	ZoneRed:    "RED",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// MarshalJSON encodes the zone as its wire name.
func (z Zone) MarshalJSON() ([]byte, error) {
	name, ok := zoneNames[z]
	if !ok {
		return nil, fmt.Errorf("unknown zone: %d", int(z))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a zone from its wire name.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for zone, n := range zoneNames {
		if n == name {
			*z = zone
			return nil
		}
	}
	return fmt.Errorf("unknown zone: %q", name)
}

// MarshalYAML encodes the zone as its wire name.
func (z Zone) MarshalYAML() (interface{}, error) {
	name, ok := zoneNames[z]
	if !ok {
		return nil, fmt.Errorf("unknown zone: %d", int(z))
	}
	return name, nil
}

// Thresholds holds the six classification bounds. Maintainability index
// uses "at or below" comparisons; cyclomatic and cognitive complexity use
// "at or above". Red bounds are assumed at least as strict as yellow ones.
type Thresholds struct {
	MIYellowMax  float64
	MIRedMax     float64
	CCYellowMin  int
	CCRedMin     int
	CogYellowMin int
	CogRedMin    int
}

// Classify maps a metric triple to a zone. Red conditions are checked
// before yellow, and any single metric in its red range forces RED
// regardless of the other two. Boundary values are inclusive.
func (t Thresholds) Classify(mi float64, cc, cog int) Zone {
	switch {
	case mi <= t.MIRedMax || cc >= t.CCRedMin || cog >= t.CogRedMin:
		return ZoneRed
	case mi <= t.MIYellowMax || cc >= t.CCYellowMin || cog >= t.CogYellowMin:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}
