package uav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/dubins"
	"github.com/banshee-data/firewatch/internal/geom"
)

func testUAV() *UAV {
	return &UAV{
		Name:               "test",
		MaxAirSpeed:        10,
		MaxAngularVelocity: 0.4,
		MaxPitchAngle:      0.1,
		NominalAltitude:    300,
		ViewWidth:          100,
		ViewDepth:          100,
	}
}

func TestMinTurnRadius(t *testing.T) {
	t.Parallel()

	u := testUAV()
	assert.InDelta(t, 25, u.MinTurnRadius(), 1e-12)

	x8 := X8("06")
	assert.Equal(t, "x8-06", x8.Name)
	assert.InDelta(t, 150, x8.MinTurnRadius(), 1e-9)
}

func TestTravelDistanceMatchesDubins(t *testing.T) {
	t.Parallel()

	u := testUAV()
	from := geom.Waypoint3D{X: 0, Y: 0, Z: 0, Dir: 0}
	to := geom.Waypoint3D{X: 100, Y: 50, Z: 20, Dir: math.Pi / 2}

	got, err := u.TravelDistance(from, to)
	require.NoError(t, err)

	want, err := dubins.ShortestPath3D(from, to, u.MinTurnRadius(), u.MaxPitchAngle)
	require.NoError(t, err)
	assert.Equal(t, want.L, got)

	tt, err := u.TravelTime(from, to)
	require.NoError(t, err)
	assert.InDelta(t, got/u.MaxAirSpeed, tt, 1e-12)
}

func TestObservationSegmentCentersVisibility(t *testing.T) {
	t.Parallel()

	u := testUAV()
	for _, dir := range []float64{0, math.Pi / 4, math.Pi, 5.5} {
		seg := u.ObservationSegment(250, 120, dir, 80)
		center := u.VisibilityCenter(seg)
		assert.InDelta(t, 250, center.X, 1e-9)
		assert.InDelta(t, 120, center.Y, 1e-9)
		assert.InDelta(t, u.NominalAltitude, center.Z, 1e-9)
		assert.Equal(t, 80.0, seg.Length)
		assert.InDelta(t, geom.NormalizeHeading(dir), seg.Start.Dir, 1e-12)
	}
}

func TestZeroLengthObservationSegment(t *testing.T) {
	t.Parallel()

	u := testUAV()
	seg := u.ObservationSegment(10, 20, 0, 0)
	assert.Equal(t, seg.Start, seg.End)
	center := u.VisibilityCenter(seg)
	assert.Equal(t, 10.0, center.X)
	assert.Equal(t, 20.0, center.Y)
}
