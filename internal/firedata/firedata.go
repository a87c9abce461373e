// Package firedata derives the fire-front geometry the planner observes
// from a precomputed ignition raster: when the front leaves each cell, and
// which way it travels through it.
package firedata

import (
	"math"

	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/raster"
	"github.com/banshee-data/firewatch/internal/uav"
)

// Unreached marks cells the fire never ignites. Any ignition value of at
// least Unreached/2 is treated as never ignited.
const Unreached = math.MaxFloat64

// BorderDwell is the assumed traversal time, in seconds, for cells on the
// propagation border where no later-burning neighbor exists.
const BorderDwell = 180.0

// FireData owns the ignition raster and the two rasters derived from it.
// It is immutable after construction and safe to share read-only between
// plans and across goroutines.
type FireData struct {
	// Ignitions is the time at which the front reaches each cell, or
	// Unreached.
	Ignitions *raster.Raster
	// TraversalEnd is the time at which the front has entirely traversed
	// each cell.
	TraversalEnd *raster.Raster
	// PropagationDirections is the local propagation heading of each
	// ignited cell, in [-π, π].
	PropagationDirections *raster.Raster
}

// New derives traversal-end times and propagation directions from the
// ignition raster, using the default BorderDwell. The raster is
// referenced, not copied; the caller must not mutate it afterwards.
func New(ignitions *raster.Raster) *FireData {
	return NewWithDwell(ignitions, BorderDwell)
}

// NewWithDwell is New with an explicit traversal time, in seconds, for
// cells on the propagation border.
func NewWithDwell(ignitions *raster.Raster, borderDwell float64) *FireData {
	return &FireData{
		Ignitions:             ignitions,
		TraversalEnd:          computeTraversalEnds(ignitions, borderDwell),
		PropagationDirections: computePropagationDirections(ignitions),
	}
}

func ignited(v float64) bool {
	return v < Unreached/2
}

// EventuallyIgnited reports whether the fire ever reaches the cell.
func (f *FireData) EventuallyIgnited(c raster.Cell) bool {
	return ignited(f.Ignitions.Get(c))
}

// ProjectOnFireFront walks along (or against) the local propagation
// direction until it finds a cell whose traversal interval contains t. The
// second return value is false when the walk leaves the grid, reaches an
// unignited cell, or the ignition gradient reverses before a match.
func (f *FireData) ProjectOnFireFront(cell raster.Cell, t float64) (raster.Cell, bool) {
	// The walk is monotone in ignition time, so it visits a cell at most
	// once; the cap guards against plateaus of equal ignition times.
	for steps := f.Ignitions.XWidth * f.Ignitions.YHeight; steps > 0; steps-- {
		ign := f.Ignitions.Get(cell)
		if ign <= t && t <= f.TraversalEnd.Get(cell) {
			return cell, true
		}

		dir := geom.NormalizeHeading(f.PropagationDirections.Get(cell))
		// Quantize to the 8-neighborhood: N*π/4 for 0 <= N < 8.
		discrete := int(math.Round(dir/(math.Pi/4))) % 8

		dx := 0
		switch discrete {
		case 0, 1, 7:
			dx = 1
		case 3, 4, 5:
			dx = -1
		}
		dy := 0
		switch discrete {
		case 1, 2, 3:
			dy = 1
		case 5, 6, 7:
			dy = -1
		}

		var next raster.Cell
		if t > f.TraversalEnd.Get(cell) {
			// The front has already left: move with the propagation
			// direction toward later ignitions.
			next = raster.Cell{X: cell.X + dx, Y: cell.Y + dy}
			if !f.Ignitions.In(next) || ign > f.Ignitions.Get(next) {
				// Ignition times stopped growing: local maximum.
				return raster.Cell{}, false
			}
		} else {
			// The front has not arrived yet: move against the propagation
			// direction toward earlier ignitions.
			next = raster.Cell{X: cell.X - dx, Y: cell.Y - dy}
			if !f.Ignitions.In(next) || ign < f.Ignitions.Get(next) {
				// Ignition times stopped decreasing: local minimum.
				return raster.Cell{}, false
			}
		}
		if !f.EventuallyIgnited(next) {
			return raster.Cell{}, false
		}
		cell = next
	}
	return raster.Cell{}, false
}

// ProjectSegmentOnFireFront moves an observation segment so that its
// visibility centre lies on the fire front at time t, preserving heading
// and length; the result is flown at the aircraft's nominal observation
// altitude like every observation segment. Returns false when no
// projection exists.
func (f *FireData) ProjectSegmentOnFireFront(seg geom.Segment3D, u *uav.UAV, t float64) (geom.Segment3D, bool) {
	center := u.VisibilityCenter(seg)
	if !f.Ignitions.Contains(center.Point()) {
		return geom.Segment3D{}, false
	}
	cell := f.Ignitions.CellOf(center.Point())
	projected, ok := f.ProjectOnFireFront(cell, t)
	if !ok {
		return geom.Segment3D{}, false
	}
	pos := f.Ignitions.PositionOf(projected)
	return u.ObservationSegment(pos.X, pos.Y, seg.Start.Dir, seg.Length), true
}

// computeTraversalEnds builds the raster of times at which the front leaves
// each cell: the latest ignition among ignited 8-neighbors, or ignition
// plus the border dwell on the propagation border.
func computeTraversalEnds(ignitions *raster.Raster, borderDwell float64) *raster.Raster {
	te := raster.New(ignitions.XWidth, ignitions.YHeight, ignitions.XOffset, ignitions.YOffset, ignitions.CellWidth)

	for x := 0; x < ignitions.XWidth; x++ {
		for y := 0; y < ignitions.YHeight; y++ {
			c := raster.Cell{X: x, Y: y}
			ign := ignitions.Get(c)
			if !ignited(ign) {
				te.Set(c, ign)
				continue
			}
			maxNeighbor := 0.0
			for _, n := range ignitions.NeighborCells(c) {
				if v := ignitions.Get(n); ignited(v) && v > maxNeighbor {
					maxNeighbor = v
				}
			}
			if maxNeighbor <= ign {
				te.Set(c, ign+borderDwell)
			} else {
				te.Set(c, maxNeighbor)
			}
		}
	}
	return te
}

// computePropagationDirections treats the ignition raster as an elevation
// field and takes a Sobel gradient. Out-of-range or unignited neighbors
// default to the centre value.
func computePropagationDirections(ignitions *raster.Raster) *raster.Raster {
	pd := raster.New(ignitions.XWidth, ignitions.YHeight, ignitions.XOffset, ignitions.YOffset, ignitions.CellWidth)

	for x := 0; x < ignitions.XWidth; x++ {
		for y := 0; y < ignitions.YHeight; y++ {
			c := raster.Cell{X: x, Y: y}
			center := ignitions.Get(c)
			if !ignited(center) {
				pd.Set(c, 0)
				continue
			}
			ign := func(dx, dy int) float64 {
				n := raster.Cell{X: x + dx, Y: y + dy}
				if !ignitions.In(n) {
					return center
				}
				if v := ignitions.Get(n); ignited(v) {
					return v
				}
				return center
			}
			gradX := ign(1, -1) + 2*ign(1, 0) + ign(1, 1) -
				ign(-1, -1) - 2*ign(-1, 0) - ign(-1, 1)
			gradY := ign(1, 1) + 2*ign(0, 1) + ign(-1, 1) -
				ign(1, -1) - 2*ign(0, -1) - ign(-1, -1)
			pd.Set(c, math.Atan2(gradY, gradX))
		}
	}
	return pd
}
