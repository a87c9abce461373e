// Package plan holds the multi-trajectory observation plan, its utility
// model and the segment-level mutation operators driven by an outer search.
package plan

import (
	"fmt"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/firemap"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/raster"
)

// Plan couples a set of trajectories to a fire model and a time window.
// A plan exclusively owns its trajectories; the fire data is shared
// read-only, possibly across many plans and goroutines.
type Plan struct {
	TimeWindow geom.TimeWindow

	trajs *Trajectories
	fire  *firedata.FireData

	// PossibleObservations are the cells worth observing: eventually
	// ignited, igniting inside the time window and not already covered by
	// a previous flight. Computed once at construction.
	PossibleObservations []geom.PointTimeWindow
	// ObservedPreviously snapshots observations from earlier flights.
	ObservedPreviously []geom.PositionTime

	// One ghost-fire mapper per plan; rebuilding it for every utility
	// evaluation is measurably wasteful.
	mapper *firemap.GhostFireMapper

	params Params
}

// New builds a plan over the given fire model with the default parameters.
// Every trajectory start time must lie inside the time window.
func New(confs []TrajectoryConfig, fire *firedata.FireData, tw geom.TimeWindow, observedPreviously []geom.PositionTime) (*Plan, error) {
	return NewWithParams(confs, fire, tw, observedPreviously, DefaultParams())
}

// NewWithParams is New with explicit planner parameters.
func NewWithParams(confs []TrajectoryConfig, fire *firedata.FireData, tw geom.TimeWindow, observedPreviously []geom.PositionTime, params Params) (*Plan, error) {
	for _, conf := range confs {
		if !tw.ContainsTime(conf.StartTime) {
			return nil, fmt.Errorf("trajectory %q starts at %g, outside the plan window [%g, %g]",
				conf.Name, conf.StartTime, tw.Start, tw.End)
		}
	}
	trajs, err := NewTrajectories(confs)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		TimeWindow:         tw,
		trajs:              trajs,
		fire:               fire,
		ObservedPreviously: append([]geom.PositionTime(nil), observedPreviously...),
		mapper:             firemap.NewGhostFireMapper(fire),
		params:             params,
	}
	p.computePossibleObservations()
	return p, nil
}

func (p *Plan) computePossibleObservations() {
	ign := p.fire.Ignitions

	prev := make(map[raster.Cell]struct{}, len(p.ObservedPreviously))
	for _, pt := range p.ObservedPreviously {
		prev[ign.CellOf(pt.Pt)] = struct{}{}
	}

	for x := 0; x < ign.XWidth; x++ {
		for y := 0; y < ign.YHeight; y++ {
			c := raster.Cell{X: x, Y: y}
			t := ign.Get(c)
			if !p.fire.EventuallyIgnited(c) || !p.TimeWindow.ContainsTime(t) {
				continue
			}
			if _, seen := prev[c]; seen {
				continue
			}
			p.PossibleObservations = append(p.PossibleObservations, geom.PointTimeWindow{
				Pt: ign.PositionOf(c),
				TW: geom.TimeWindow{Start: t, End: p.fire.TraversalEnd.Get(c)},
			})
		}
	}
}

// Fire returns the shared fire model.
func (p *Plan) Fire() *firedata.FireData {
	return p.fire
}

// Trajectories returns the owned trajectory collection.
func (p *Plan) Trajectories() *Trajectories {
	return p.trajs
}

// Params returns the planner parameters the plan was built with.
func (p *Plan) Params() Params {
	return p.params
}

// IsValid reports whether all trajectories match their configuration.
func (p *Plan) IsValid() bool {
	return p.trajs.IsValid()
}

// Duration is the summed duration of all trajectories.
func (p *Plan) Duration() float64 {
	return p.trajs.Duration()
}

// NumSegments is the summed maneuver count.
func (p *Plan) NumSegments() int {
	return p.trajs.NumSegments()
}

// Clone deep-copies the trajectories and shares the fire data. Clones are
// the unit of parallelism for an outer search driver.
func (p *Plan) Clone() *Plan {
	return &Plan{
		TimeWindow:           p.TimeWindow,
		trajs:                p.trajs.Clone(),
		fire:                 p.fire,
		PossibleObservations: append([]geom.PointTimeWindow(nil), p.PossibleObservations...),
		ObservedPreviously:   append([]geom.PositionTime(nil), p.ObservedPreviously...),
		mapper:               p.mapper,
		params:               p.params,
	}
}

// Observations returns the observations of the whole plan.
func (p *Plan) Observations() []geom.PositionTime {
	return p.ObservationsFull()
}

// ObservationsFull samples the continuous flight paths and asks the
// ghost-fire mapper which burning cells the camera saw, assuming the
// camera observes at all times, not only during maneuvers.
func (p *Plan) ObservationsFull() []geom.PositionTime {
	var result []geom.PositionTime
	for _, tr := range p.trajs.trajs {
		wps, times := tr.SampledWithTime(p.params.SamplingStep)
		result = append(result, p.mapper.ObservedFireLocations(wps, times, tr.conf.UAV)...)
	}
	return result
}

// ObservationsIn is the conservative variant: only maneuvers fully inside
// tw contribute, via their camera swath, and only cells whose traversal
// interval contains the maneuver start. Seeded with the previous flights'
// observations.
func (p *Plan) ObservationsIn(tw geom.TimeWindow) []geom.PositionTime {
	obs := append([]geom.PositionTime(nil), p.ObservedPreviously...)
	for _, tr := range p.trajs.trajs {
		drone := tr.conf.UAV
		for i := 0; i < tr.Size(); i++ {
			segTW := geom.TimeWindow{Start: tr.StartTime(i), End: tr.EndTime(i)}
			if !tw.Contains(segTW) {
				continue
			}
			cells, ok := firemap.SegmentTrace(tr.Segment(i), drone.ViewWidth, drone.ViewDepth, p.fire.Ignitions)
			if !ok {
				continue
			}
			for _, c := range cells {
				if p.fire.Ignitions.Get(c) <= segTW.Start && segTW.Start <= p.fire.TraversalEnd.Get(c) {
					obs = append(obs, geom.PositionTime{Pt: p.fire.Ignitions.PositionOf(c), Time: segTW.Start})
				}
			}
		}
	}
	return obs
}

// ViewTrace returns every cell swept by a camera during maneuvers inside
// tw, burning or not.
func (p *Plan) ViewTrace(tw geom.TimeWindow) []geom.PositionTime {
	var obs []geom.PositionTime
	for _, tr := range p.trajs.trajs {
		drone := tr.conf.UAV
		for i := 0; i < tr.Size(); i++ {
			segTW := geom.TimeWindow{Start: tr.StartTime(i), End: tr.EndTime(i)}
			if !tw.Contains(segTW) {
				continue
			}
			cells, ok := firemap.SegmentTrace(tr.Segment(i), drone.ViewWidth, drone.ViewDepth, p.fire.Ignitions)
			if !ok {
				continue
			}
			for _, c := range cells {
				obs = append(obs, geom.PositionTime{Pt: p.fire.Ignitions.PositionOf(c), Time: segTW.Start})
			}
		}
	}
	return obs
}

// ViewTraceFull is ViewTrace over the plan's own time window.
func (p *Plan) ViewTraceFull() []geom.PositionTime {
	return p.ViewTrace(p.TimeWindow)
}

// InsertSegment inserts seg as maneuver at of trajectory trajID, then runs
// post-processing unless post is false.
func (p *Plan) InsertSegment(trajID int, seg geom.Segment3D, at int, post bool) error {
	if err := p.trajs.Trajectory(trajID).InsertSegment(seg, at); err != nil {
		return err
	}
	if post {
		p.PostProcess()
	}
	return nil
}

// EraseSegment removes maneuver at of trajectory trajID, then runs
// post-processing unless post is false.
func (p *Plan) EraseSegment(trajID, at int, post bool) error {
	if err := p.trajs.Trajectory(trajID).EraseSegment(at); err != nil {
		return err
	}
	if post {
		p.PostProcess()
	}
	return nil
}

// ReplaceSegment erases n maneuvers starting at index at of trajectory
// trajID and inserts segs in order at the same position, then always runs
// post-processing.
func (p *Plan) ReplaceSegment(trajID, at, n int, segs []geom.Segment3D) error {
	if n <= 0 {
		return fmt.Errorf("%w: replace count must be positive", ErrTrajectoryInfeasible)
	}
	tr := p.trajs.Trajectory(trajID)
	if at+n-1 > tr.LastModifiableManeuver() {
		return fmt.Errorf("%w: replace range [%d, %d) outside modifiable range", ErrTrajectoryInfeasible, at, at+n)
	}
	saved := tr.Clone()
	restore := func() { p.trajs.trajs[trajID] = saved }
	for i := 0; i < n; i++ {
		if err := tr.EraseSegment(at); err != nil {
			restore()
			return err
		}
	}
	for i, seg := range segs {
		if err := tr.InsertSegment(seg, at+i); err != nil {
			restore()
			return err
		}
	}
	p.PostProcess()
	return nil
}

// PostProcess repairs the plan after a mutation: segments are projected
// onto the fire front at their start time, then tight loops are smoothed
// away. It always runs to completion; segments that cannot be repaired are
// erased.
func (p *Plan) PostProcess() {
	p.projectOnFireFront()
	p.smoothTrajectory()
}

// projectOnFireFront makes sure every modifiable maneuver observes the
// fire: each is projected onto the front at its own start time. Segments
// without a projection are erased.
func (p *Plan) projectOnFireFront() {
	for _, tr := range p.trajs.trajs {
		i := tr.FirstModifiableManeuver()
		for i <= tr.LastModifiableManeuver() {
			seg := tr.Segment(i)
			t := tr.StartTime(i)
			projected, ok := p.fire.ProjectSegmentOnFireFront(seg, tr.conf.UAV, t)
			if !ok {
				tr.forceEraseSegment(i)
				continue
			}
			if projected == seg {
				i++
				continue
			}
			if err := tr.ReplaceSegment(i, projected); err != nil {
				// Projection made the trajectory infeasible; drop the
				// segment instead.
				tr.forceEraseSegment(i)
				continue
			}
			i++
		}
	}
}

// smoothTrajectory erases segments causing very tight loops: a transition
// whose Dubins length exceeds the smoothing ratio times the straight-line
// distance. Each round either advances the index or shrinks the
// trajectory, so the walk terminates.
func (p *Plan) smoothTrajectory() {
	for _, tr := range p.trajs.trajs {
		i := tr.FirstModifiableManeuver()
		for i < tr.LastModifiableManeuver() {
			cur := tr.Segment(i)
			next := tr.Segment(i + 1)

			euclidean := cur.End.Point().Dist(next.Start.Point())
			dubinsDist, err := tr.conf.UAV.TravelDistance(cur.End, next.Start)
			if err != nil || dubinsDist/euclidean > p.params.SmoothingRatio {
				tr.forceEraseSegment(i + 1)
			} else {
				i++
			}
		}
	}
}
