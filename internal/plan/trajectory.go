package plan

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/firewatch/internal/dubins"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/uav"
)

// ErrTrajectoryInfeasible is returned when a mutation would exceed the
// trajectory's flight-time budget or touch a fixed takeoff/landing slot.
// The trajectory is left unchanged.
var ErrTrajectoryInfeasible = errors.New("trajectory infeasible")

// TrajectoryConfig binds a trajectory to an aircraft and its mission
// envelope.
type TrajectoryConfig struct {
	Name      string
	UAV       *uav.UAV
	StartTime float64
	// MaxFlightTime bounds the trajectory duration in seconds. Zero means
	// unbounded.
	MaxFlightTime float64
	// FixedPrefix and FixedSuffix pin non-modifiable takeoff and landing
	// maneuvers at the head and tail of the trajectory.
	FixedPrefix *geom.Segment3D
	FixedSuffix *geom.Segment3D
}

func (c TrajectoryConfig) maxFlightTime() float64 {
	if c.MaxFlightTime <= 0 {
		return math.Inf(1)
	}
	return c.MaxFlightTime
}

type maneuver struct {
	seg       geom.Segment3D
	startTime float64
}

// Trajectory is a time-ordered sequence of observation maneuvers flown by
// one aircraft. Start times are always consistent: consecutive maneuvers
// are linked by a Dubins-airplane transition flown at cruise speed.
type Trajectory struct {
	conf      TrajectoryConfig
	maneuvers []maneuver
}

// NewTrajectory builds an empty trajectory, seeding the fixed prefix and
// suffix maneuvers when configured.
func NewTrajectory(conf TrajectoryConfig) (*Trajectory, error) {
	t := &Trajectory{conf: conf}
	if conf.FixedPrefix != nil {
		t.maneuvers = append(t.maneuvers, maneuver{seg: *conf.FixedPrefix})
	}
	if conf.FixedSuffix != nil {
		t.maneuvers = append(t.maneuvers, maneuver{seg: *conf.FixedSuffix})
	}
	if err := t.recomputeTimes(); err != nil {
		return nil, err
	}
	if t.Duration() > conf.maxFlightTime() {
		return nil, fmt.Errorf("%w: fixed maneuvers alone exceed the flight time budget", ErrTrajectoryInfeasible)
	}
	return t, nil
}

// Conf returns the binding configuration.
func (t *Trajectory) Conf() TrajectoryConfig {
	return t.conf
}

// Size is the number of maneuvers, fixed slots included.
func (t *Trajectory) Size() int {
	return len(t.maneuvers)
}

// Segment returns maneuver i.
func (t *Trajectory) Segment(i int) geom.Segment3D {
	return t.maneuvers[i].seg
}

// StartTime returns the time at which maneuver i starts.
func (t *Trajectory) StartTime(i int) float64 {
	return t.maneuvers[i].startTime
}

// EndTime returns the time at which maneuver i ends.
func (t *Trajectory) EndTime(i int) float64 {
	m := t.maneuvers[i]
	return m.startTime + m.seg.Length/t.conf.UAV.MaxAirSpeed
}

// Duration is the total flight time from the start of the first maneuver
// to the end of the last, zero for an empty trajectory.
func (t *Trajectory) Duration() float64 {
	if len(t.maneuvers) == 0 {
		return 0
	}
	return t.EndTime(len(t.maneuvers)-1) - t.StartTime(0)
}

// FirstModifiableManeuver is the lowest index a mutation may touch.
func (t *Trajectory) FirstModifiableManeuver() int {
	if t.conf.FixedPrefix != nil {
		return 1
	}
	return 0
}

// LastModifiableManeuver is the highest index a mutation may touch. It is
// FirstModifiableManeuver()-1 when only fixed maneuvers remain.
func (t *Trajectory) LastModifiableManeuver() int {
	if t.conf.FixedSuffix != nil {
		return len(t.maneuvers) - 2
	}
	return len(t.maneuvers) - 1
}

// InsertSegment inserts seg so that it becomes maneuver at. The insertion
// point must lie in the modifiable range and the resulting duration must
// fit the flight-time budget, else ErrTrajectoryInfeasible.
func (t *Trajectory) InsertSegment(seg geom.Segment3D, at int) error {
	if at < t.FirstModifiableManeuver() || at > t.LastModifiableManeuver()+1 {
		return fmt.Errorf("%w: insert position %d outside modifiable range", ErrTrajectoryInfeasible, at)
	}
	return t.apply(func() {
		t.maneuvers = append(t.maneuvers, maneuver{})
		copy(t.maneuvers[at+1:], t.maneuvers[at:])
		t.maneuvers[at] = maneuver{seg: seg}
	})
}

// EraseSegment removes maneuver at. Fixed slots cannot be erased.
func (t *Trajectory) EraseSegment(at int) error {
	if at < t.FirstModifiableManeuver() || at > t.LastModifiableManeuver() {
		return fmt.Errorf("%w: erase position %d outside modifiable range", ErrTrajectoryInfeasible, at)
	}
	return t.apply(func() {
		t.eraseAt(at)
	})
}

// ReplaceSegment substitutes maneuver at with seg.
func (t *Trajectory) ReplaceSegment(at int, seg geom.Segment3D) error {
	if at < t.FirstModifiableManeuver() || at > t.LastModifiableManeuver() {
		return fmt.Errorf("%w: replace position %d outside modifiable range", ErrTrajectoryInfeasible, at)
	}
	return t.apply(func() {
		t.maneuvers[at].seg = seg
	})
}

// apply runs a structural edit, recomputes start times and rolls back if
// the result is infeasible.
func (t *Trajectory) apply(edit func()) error {
	saved := make([]maneuver, len(t.maneuvers))
	copy(saved, t.maneuvers)

	edit()
	if err := t.recomputeTimes(); err != nil {
		t.maneuvers = saved
		return fmt.Errorf("%w: %v", ErrTrajectoryInfeasible, err)
	}
	if t.Duration() > t.conf.maxFlightTime() {
		t.maneuvers = saved
		// Restore consistent times for the rolled-back state.
		if err := t.recomputeTimes(); err != nil {
			panic(fmt.Sprintf("plan: rollback of a previously valid trajectory failed: %v", err))
		}
		return fmt.Errorf("%w: duration exceeds flight time budget", ErrTrajectoryInfeasible)
	}
	return nil
}

// eraseAt removes a maneuver without feasibility checks. Used by plan
// post-processing, which absorbs infeasibility by dropping segments.
func (t *Trajectory) eraseAt(at int) {
	t.maneuvers = append(t.maneuvers[:at], t.maneuvers[at+1:]...)
}

// forceEraseSegment removes maneuver at and re-times the trajectory,
// ignoring the duration budget.
func (t *Trajectory) forceEraseSegment(at int) {
	t.eraseAt(at)
	if err := t.recomputeTimes(); err != nil {
		panic(fmt.Sprintf("plan: re-timing after erase failed: %v", err))
	}
}

// recomputeTimes rebuilds all start times from the configured trajectory
// start, accumulating transition and maneuver durations.
func (t *Trajectory) recomputeTimes() error {
	speed := t.conf.UAV.MaxAirSpeed
	now := t.conf.StartTime
	for i := range t.maneuvers {
		if i > 0 {
			prev := t.maneuvers[i-1]
			transit, err := t.conf.UAV.TravelTime(prev.seg.End, t.maneuvers[i].seg.Start)
			if err != nil {
				return err
			}
			now = prev.startTime + prev.seg.Length/speed + transit
		}
		t.maneuvers[i].startTime = now
	}
	return nil
}

// Clone deep-copies the trajectory. The UAV configuration is shared; it is
// immutable.
func (t *Trajectory) Clone() *Trajectory {
	c := &Trajectory{conf: t.conf, maneuvers: make([]maneuver, len(t.maneuvers))}
	copy(c.maneuvers, t.maneuvers)
	return c
}

// SampledWithTime samples the continuous flight path every step metres:
// along each maneuver, and along the planar Dubins transitions between
// them, with altitude interpolated linearly over each transition. Both
// slices have equal length.
func (t *Trajectory) SampledWithTime(step float64) ([]geom.Waypoint3D, []float64) {
	if step <= 0 {
		panic(fmt.Sprintf("plan: non-positive sampling step %g", step))
	}
	speed := t.conf.UAV.MaxAirSpeed
	var wps []geom.Waypoint3D
	var times []float64

	for i, m := range t.maneuvers {
		// Sample the maneuver itself, including its start pose.
		for s := 0.0; s <= m.seg.Length; s += step {
			wps = append(wps, geom.Waypoint3D{
				X:   m.seg.Start.X + s*math.Cos(m.seg.Start.Dir),
				Y:   m.seg.Start.Y + s*math.Sin(m.seg.Start.Dir),
				Z:   m.seg.Start.Z,
				Dir: m.seg.Start.Dir,
			})
			times = append(times, m.startTime+s/speed)
			if m.seg.Length == 0 {
				break
			}
		}

		if i+1 >= len(t.maneuvers) {
			break
		}
		next := t.maneuvers[i+1]
		wps, times = t.sampleTransition(m, next, step, wps, times)
	}
	return wps, times
}

// sampleTransition samples the ground track of the planar Dubins
// configuration between two maneuvers.
func (t *Trajectory) sampleTransition(from, to maneuver, step float64, wps []geom.Waypoint3D, times []float64) ([]geom.Waypoint3D, []float64) {
	u := t.conf.UAV
	path, err := dubinsGround(from.seg.End, to.seg.Start, u)
	if err != nil {
		// Unsampleable transition: fall back to its endpoints, which the
		// surrounding maneuvers already contribute.
		return wps, times
	}
	total := path.Length()
	if total <= 0 {
		return wps, times
	}
	departure := from.startTime + from.seg.Length/u.MaxAirSpeed
	dz := to.seg.Start.Z - from.seg.End.Z
	for s := step; s < total; s += step {
		wp2 := path.Sample(s)
		frac := s / total
		wps = append(wps, geom.Waypoint3D{
			X:   wp2.X,
			Y:   wp2.Y,
			Z:   from.seg.End.Z + frac*dz,
			Dir: wp2.Dir,
		})
		times = append(times, departure+s/u.MaxAirSpeed)
	}
	return wps, times
}

// dubinsGround returns the planar configuration of the Dubins-airplane
// transition between two waypoints.
func dubinsGround(from, to geom.Waypoint3D, u *uav.UAV) (dubins.Path2D, error) {
	p, err := dubins.ShortestPath3D(from, to, u.MinTurnRadius(), u.MaxPitchAngle)
	if err != nil {
		return dubins.Path2D{}, err
	}
	return p.Configuration2D, nil
}
