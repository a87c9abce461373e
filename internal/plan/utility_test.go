package plan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/raster"
)

func TestUtilityMapNaNOutsidePossibleObservations(t *testing.T) {
	t.Parallel()

	fire := slopeFire()
	p, err := New(
		[]TrajectoryConfig{{Name: "t0", UAV: testUAV(), StartTime: 30}},
		fire,
		// Only columns 2..4 ignite inside the window.
		geom.TimeWindow{Start: 20, End: 45},
		nil,
	)
	require.NoError(t, err)

	u := p.UtilityMap()
	assert.True(t, math.IsNaN(u.At(0, 0)))
	assert.True(t, math.IsNaN(u.At(9, 9)))
	assert.False(t, math.IsNaN(u.At(3, 3)))
}

func TestUtilityBoundsWithObservations(t *testing.T) {
	t.Parallel()

	p := newTestPlan(t, slopeFire(), 50, nil)
	require.NoError(t, p.InsertSegment(0, frontSegment(p, 50), 0, false))

	u := p.UtilityMap()
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			v := u.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, MinUtility)
			assert.LessOrEqual(t, v, MaxUtility)
		}
	}

	// A cell inside the observed footprint is fully redundant.
	observed := u.Get(raster.Cell{X: 5, Y: 5})
	assert.InDelta(t, MinUtility, observed, 1e-9)
}

func TestUtilityPropagationUnobservedStaysMax(t *testing.T) {
	t.Parallel()

	p := newTestPlan(t, slopeFire(), 50, nil)
	u := p.UtilityMapPropagation()
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			assert.Equal(t, MaxUtility, u.At(x, y))
		}
	}
}

func TestUtilityPropagationDegradesAlongFront(t *testing.T) {
	t.Parallel()

	p := newTestPlan(t, slopeFire(), 50, nil)
	require.NoError(t, p.InsertSegment(0, frontSegment(p, 50), 0, false))

	u := p.UtilityMapPropagation()

	// Observed cells are worth nothing.
	assert.Equal(t, MinUtility, u.Get(raster.Cell{X: 5, Y: 5}))

	// Utility climbs by UtilityIncrement per cell moving to younger
	// columns, and older columns are never degraded.
	assert.InDelta(t, 3*UtilityIncrement, u.Get(raster.Cell{X: 9, Y: 5}), 1e-9)
	assert.Equal(t, MaxUtility, u.Get(raster.Cell{X: 0, Y: 5}))
}

func TestParamsOverrideChangesUtility(t *testing.T) {
	t.Parallel()

	fire := slopeFire()
	confs := []TrajectoryConfig{{Name: "t0", UAV: testUAV(), StartTime: 50}}
	tw := geom.TimeWindow{Start: 0, End: math.Inf(1)}

	standard, err := New(confs, fire, tw, nil)
	require.NoError(t, err)

	// A wider redundancy radius scores cells near an observation as
	// already covered, so the same flight is worth strictly more (lower
	// utility) than under the defaults.
	wide := DefaultParams()
	wide.RedundantObsDist = 200
	tuned, err := NewWithParams(confs, fire, tw, nil, wide)
	require.NoError(t, err)
	assert.Equal(t, wide, tuned.Params())

	seg := frontSegment(standard, 50)
	require.NoError(t, standard.InsertSegment(0, seg, 0, false))
	require.NoError(t, tuned.InsertSegment(0, seg, 0, false))

	assert.Less(t, tuned.Utility(), standard.Utility())
}

func TestParamsOverrideRelaxesSmoothing(t *testing.T) {
	t.Parallel()

	// Same tight-loop scenario as the smoothing test, but with a ratio
	// high enough that post-processing keeps both maneuvers.
	ign := raster.New(10, 10, 0, 0, 25)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			ign.Set(raster.Cell{X: x, Y: y}, float64(x)*100)
		}
	}
	relaxed := DefaultParams()
	relaxed.SmoothingRatio = 1000
	p, err := NewWithParams(
		[]TrajectoryConfig{{Name: "t0", UAV: testUAV(), StartTime: 500}},
		firedata.New(ign),
		geom.TimeWindow{Start: 0, End: math.Inf(1)},
		nil,
		relaxed,
	)
	require.NoError(t, err)
	u := p.Trajectories().Trajectory(0).Conf().UAV

	a := u.ObservationSegment(125, 125, math.Pi/2, 100)
	b := u.ObservationSegment(125, 100, 3*math.Pi/2, 100)
	require.NoError(t, p.InsertSegment(0, a, 0, false))
	require.NoError(t, p.InsertSegment(0, b, 1, false))

	p.PostProcess()
	assert.Equal(t, 2, p.NumSegments())
}
