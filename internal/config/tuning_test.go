package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/plan"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NotNil(t, d.RedundantObsDist)
	assert.Equal(t, plan.RedundantObsDist, *d.RedundantObsDist)
	assert.Equal(t, plan.MaxInformativeDistance, *d.MaxInformativeDistance)
	assert.Equal(t, firedata.BorderDwell, *d.BorderDwell)
	assert.Equal(t, plan.SmoothingRatio, *d.SmoothingRatio)
	assert.Equal(t, plan.SamplingStep, *d.SamplingStep)

	// With no overrides the tuning reproduces the planner defaults.
	assert.Equal(t, plan.DefaultParams(), d.PlanParams())
}

func TestPlanParamsReflectsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"smoothing_ratio": 5, "redundant_obs_dist": 120, "border_dwell": 60}`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)

	params := got.PlanParams()
	assert.Equal(t, 5.0, params.SmoothingRatio)
	assert.Equal(t, 120.0, params.RedundantObsDist)
	assert.Equal(t, 60.0, *got.BorderDwell)
	// Untouched fields keep their defaults.
	assert.Equal(t, plan.MaxInformativeDistance, params.MaxInformativeDistance)
	assert.Equal(t, plan.SamplingStep, params.SamplingStep)
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_segments": 7}`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, *got.MaxSegments)
	// Omitted fields keep their defaults.
	assert.Equal(t, plan.RedundantObsDist, *got.RedundantObsDist)
}

func TestLoadRejectsNonJSON(t *testing.T) {
	_, err := Load("tuning.yaml")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
