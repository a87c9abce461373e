// Package config loads planner tuning overrides for the command-line
// tools. The JSON schema uses pointer fields so partial files are safe:
// omitted fields keep their compiled-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/plan"
)

// Tuning is the root configuration for planner parameters. Overrides are
// injected into the planner at construction: PlanParams feeds
// plan.NewWithParams and BorderDwell feeds the fire-model derivation.
type Tuning struct {
	// Utility model
	RedundantObsDist       *float64 `json:"redundant_obs_dist,omitempty"`
	MaxInformativeDistance *float64 `json:"max_informative_distance,omitempty"`
	UtilityIncrement       *float64 `json:"utility_increment,omitempty"`

	// Fire model
	BorderDwell *float64 `json:"border_dwell,omitempty"`

	// Trajectory post-processing
	SmoothingRatio *float64 `json:"smoothing_ratio,omitempty"`
	SamplingStep   *float64 `json:"sampling_step,omitempty"`

	// Search loop
	MaxSegments   *int     `json:"max_segments,omitempty"`
	SegmentLength *float64 `json:"segment_length,omitempty"`
}

// Defaults returns a Tuning populated from the planner design constants
// and the CLI search defaults.
func Defaults() *Tuning {
	return &Tuning{
		RedundantObsDist:       ptrFloat64(plan.RedundantObsDist),
		MaxInformativeDistance: ptrFloat64(plan.MaxInformativeDistance),
		UtilityIncrement:       ptrFloat64(plan.UtilityIncrement),
		BorderDwell:            ptrFloat64(firedata.BorderDwell),
		SmoothingRatio:         ptrFloat64(plan.SmoothingRatio),
		SamplingStep:           ptrFloat64(plan.SamplingStep),
		MaxSegments:            ptrInt(20),
		SegmentLength:          ptrFloat64(100),
	}
}

// Load reads a Tuning from a JSON file and merges it over the defaults.
func Load(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var overrides Tuning
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %w", err)
	}

	t := Defaults()
	t.Merge(&overrides)
	return t, nil
}

// Merge copies every non-nil field of other into t.
func (t *Tuning) Merge(other *Tuning) {
	if other.RedundantObsDist != nil {
		t.RedundantObsDist = other.RedundantObsDist
	}
	if other.MaxInformativeDistance != nil {
		t.MaxInformativeDistance = other.MaxInformativeDistance
	}
	if other.UtilityIncrement != nil {
		t.UtilityIncrement = other.UtilityIncrement
	}
	if other.BorderDwell != nil {
		t.BorderDwell = other.BorderDwell
	}
	if other.SmoothingRatio != nil {
		t.SmoothingRatio = other.SmoothingRatio
	}
	if other.SamplingStep != nil {
		t.SamplingStep = other.SamplingStep
	}
	if other.MaxSegments != nil {
		t.MaxSegments = other.MaxSegments
	}
	if other.SegmentLength != nil {
		t.SegmentLength = other.SegmentLength
	}
}

// PlanParams converts the tuning into planner parameters for
// plan.NewWithParams.
func (t *Tuning) PlanParams() plan.Params {
	return plan.Params{
		RedundantObsDist:       *t.RedundantObsDist,
		MaxInformativeDistance: *t.MaxInformativeDistance,
		UtilityIncrement:       *t.UtilityIncrement,
		SmoothingRatio:         *t.SmoothingRatio,
		SamplingStep:           *t.SamplingStep,
	}
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
