package plan

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/uav"
)

func testUAV() *uav.UAV {
	return &uav.UAV{
		Name:               "test",
		MaxAirSpeed:        10,
		MaxAngularVelocity: 0.4,
		MaxPitchAngle:      0.1,
		NominalAltitude:    300,
		ViewWidth:          100,
		ViewDepth:          100,
	}
}

func segAlongX(x, y float64, length float64) geom.Segment3D {
	return geom.NewSegment3D(geom.Waypoint3D{X: x, Y: y, Z: 0, Dir: 0}, length)
}

func TestTimesAccumulateAlongStraightLine(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0})
	require.NoError(t, err)

	// Two collinear maneuvers: 100 m segment, 100 m straight transition,
	// 50 m segment, all at 10 m/s.
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))
	require.NoError(t, tr.InsertSegment(segAlongX(200, 0, 50), 1))

	assert.Equal(t, 2, tr.Size())
	assert.InDelta(t, 0, tr.StartTime(0), 1e-9)
	assert.InDelta(t, 10, tr.EndTime(0), 1e-9)
	assert.InDelta(t, 20, tr.StartTime(1), 1e-9)
	assert.InDelta(t, 25, tr.EndTime(1), 1e-9)
	assert.InDelta(t, 25, tr.Duration(), 1e-9)
}

func TestStartTimesStrictlyIncrease(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 100})
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))
	require.NoError(t, tr.InsertSegment(segAlongX(500, 100, 50), 1))
	require.NoError(t, tr.InsertSegment(segAlongX(200, 300, 80), 1))

	for i := 1; i < tr.Size(); i++ {
		assert.Greater(t, tr.StartTime(i), tr.StartTime(i-1))
	}
}

func TestInsertRespectsFlightTimeBudget(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0, MaxFlightTime: 15})
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))

	// A second segment needs transition plus flight time well over the
	// 15 s budget; the trajectory must be left untouched.
	err = tr.InsertSegment(segAlongX(500, 0, 100), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTrajectoryInfeasible))
	assert.Equal(t, 1, tr.Size())
	assert.InDelta(t, 10, tr.Duration(), 1e-9)
}

func TestFixedSlotsAreImmutable(t *testing.T) {
	t.Parallel()

	prefix := geom.PointSegment3D(geom.Waypoint3D{X: 0, Y: 0, Z: 0, Dir: 0})
	suffix := geom.PointSegment3D(geom.Waypoint3D{X: 1000, Y: 0, Z: 0, Dir: 0})
	tr, err := NewTrajectory(TrajectoryConfig{
		Name: "t", UAV: testUAV(), StartTime: 0,
		FixedPrefix: &prefix, FixedSuffix: &suffix,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tr.Size())
	assert.Equal(t, 1, tr.FirstModifiableManeuver())
	assert.Equal(t, 0, tr.LastModifiableManeuver())

	// Head and tail reject every mutation.
	assert.ErrorIs(t, tr.InsertSegment(segAlongX(100, 0, 50), 0), ErrTrajectoryInfeasible)
	assert.ErrorIs(t, tr.EraseSegment(0), ErrTrajectoryInfeasible)
	assert.ErrorIs(t, tr.EraseSegment(1), ErrTrajectoryInfeasible)
	assert.ErrorIs(t, tr.ReplaceSegment(1, segAlongX(100, 0, 50)), ErrTrajectoryInfeasible)

	// The only legal insertion point is between them.
	require.NoError(t, tr.InsertSegment(segAlongX(400, 0, 50), 1))
	assert.Equal(t, 3, tr.Size())
	assert.Equal(t, 1, tr.FirstModifiableManeuver())
	assert.Equal(t, 1, tr.LastModifiableManeuver())

	// Times flow from the prefix through the inserted maneuver.
	assert.Greater(t, tr.StartTime(1), tr.StartTime(0))
	assert.Greater(t, tr.StartTime(2), tr.StartTime(1))
}

func TestEraseAndReplace(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0})
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))
	require.NoError(t, tr.InsertSegment(segAlongX(200, 0, 50), 1))

	require.NoError(t, tr.ReplaceSegment(1, segAlongX(300, 0, 20)))
	assert.Equal(t, 2, tr.Size())
	assert.Equal(t, 20.0, tr.Segment(1).Length)

	require.NoError(t, tr.EraseSegment(0))
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, 20.0, tr.Segment(0).Length)
	assert.InDelta(t, 0, tr.StartTime(0), 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0})
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))

	c := tr.Clone()
	require.NoError(t, c.EraseSegment(0))
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, 0, c.Size())
}

func TestSampledWithTime(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0})
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))

	wps, times := tr.SampledWithTime(50)
	require.Len(t, wps, 3)
	require.Len(t, times, 3)
	assert.Equal(t, 0.0, wps[0].X)
	assert.Equal(t, 50.0, wps[1].X)
	assert.Equal(t, 100.0, wps[2].X)
	assert.InDelta(t, 0, times[0], 1e-9)
	assert.InDelta(t, 5, times[1], 1e-9)
	assert.InDelta(t, 10, times[2], 1e-9)

	// With a second maneuver the transition is sampled too, with strictly
	// increasing times.
	require.NoError(t, tr.InsertSegment(segAlongX(300, 0, 50), 1))
	wps, times = tr.SampledWithTime(50)
	assert.Greater(t, len(wps), 5)
	for i := 1; i < len(times); i++ {
		assert.Greater(t, times[i], times[i-1])
	}
}

func TestUnboundedFlightTime(t *testing.T) {
	t.Parallel()

	tr, err := NewTrajectory(TrajectoryConfig{Name: "t", UAV: testUAV(), StartTime: 0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(tr.conf.maxFlightTime(), 1))
}
