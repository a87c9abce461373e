// Package firemap maps flight paths to the fire cells they observe. The
// Mapper interface is the seam for injecting alternative camera models; the
// ghost-fire mapper is the production implementation, tracing the camera
// footprint over the ignition raster.
package firemap

import (
	"math"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/raster"
	"github.com/banshee-data/firewatch/internal/uav"
)

// Mapper extracts the fire cells observed along a sampled flight path.
type Mapper interface {
	ObservedFireLocations(waypoints []geom.Waypoint3D, times []float64, u *uav.UAV) []geom.PositionTime
}

// GhostFireMapper replays a hypothetical flight over the fire model and
// records which burning cells the camera sees.
type GhostFireMapper struct {
	fire *firedata.FireData
}

// NewGhostFireMapper builds a mapper over the given fire model.
func NewGhostFireMapper(fire *firedata.FireData) *GhostFireMapper {
	return &GhostFireMapper{fire: fire}
}

// ObservedFireLocations returns the cells whose traversal interval contains
// the time at which the camera footprint covered them. waypoints and times
// must have equal length. Each cell is reported once, at the first time it
// was seen burning.
func (g *GhostFireMapper) ObservedFireLocations(waypoints []geom.Waypoint3D, times []float64, u *uav.UAV) []geom.PositionTime {
	seen := make(map[raster.Cell]struct{})
	var out []geom.PositionTime
	for i, wp := range waypoints {
		t := times[i]
		for _, c := range footprintCells(wp, u.ViewWidth, u.ViewDepth, g.fire.Ignitions) {
			if _, dup := seen[c]; dup {
				continue
			}
			if g.fire.Ignitions.Get(c) <= t && t <= g.fire.TraversalEnd.Get(c) {
				seen[c] = struct{}{}
				out = append(out, geom.PositionTime{Pt: g.fire.Ignitions.PositionOf(c), Time: t})
			}
		}
	}
	return out
}

// footprintCells returns the in-bounds cells under the camera footprint at
// one pose: a viewDepth x viewWidth rectangle centred on the waypoint and
// aligned with its heading.
func footprintCells(wp geom.Waypoint3D, viewWidth, viewDepth float64, r *raster.Raster) []raster.Cell {
	return coveredCells(wp.Point(), wp.Dir, viewDepth, viewWidth, r)
}

// SegmentTrace returns the cells covered by the camera while flying the
// segment: the swath rectangle extends the segment by viewDepth
// longitudinally and spans viewWidth laterally. The second return value is
// false when the swath lies entirely outside the raster.
func SegmentTrace(seg geom.Segment3D, viewWidth, viewDepth float64, r *raster.Raster) ([]raster.Cell, bool) {
	center := geom.Point{
		X: (seg.Start.X + seg.End.X) / 2,
		Y: (seg.Start.Y + seg.End.Y) / 2,
	}
	cells := coveredCells(center, seg.Start.Dir, seg.Length+viewDepth, viewWidth, r)
	if len(cells) == 0 {
		return nil, false
	}
	return cells, true
}

// coveredCells enumerates in-bounds cells whose centre falls inside the
// rectangle of the given longitudinal extent (along dir) and lateral extent
// centred at center.
func coveredCells(center geom.Point, dir, longExtent, latExtent float64, r *raster.Raster) []raster.Cell {
	sin, cos := math.Sincos(dir)
	halfLong := longExtent / 2
	halfLat := latExtent / 2

	// Bounding box over the rotated rectangle.
	reach := math.Abs(cos)*halfLong + math.Abs(sin)*halfLat
	reachY := math.Abs(sin)*halfLong + math.Abs(cos)*halfLat
	lo := r.CellOf(geom.Point{X: center.X - reach, Y: center.Y - reachY})
	hi := r.CellOf(geom.Point{X: center.X + reach, Y: center.Y + reachY})

	var out []raster.Cell
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			c := raster.Cell{X: x, Y: y}
			if !r.In(c) {
				continue
			}
			p := r.PositionOf(c)
			dx := p.X - center.X
			dy := p.Y - center.Y
			along := dx*cos + dy*sin
			across := -dx*sin + dy*cos
			if math.Abs(along) <= halfLong && math.Abs(across) <= halfLat {
				out = append(out, c)
			}
		}
	}
	return out
}
