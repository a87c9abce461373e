// Package uav models the kinematic envelope and camera footprint of a
// fixed-wing observation aircraft. A UAV value is pure configuration; all
// methods are stateless geometry.
package uav

import (
	"math"

	"github.com/banshee-data/firewatch/internal/dubins"
	"github.com/banshee-data/firewatch/internal/geom"
)

// UAV describes one aircraft model.
type UAV struct {
	Name string `json:"name"`

	// MaxAirSpeed is the cruise speed in m/s.
	MaxAirSpeed float64 `json:"max_air_speed"`
	// MaxAngularVelocity is the turn rate in rad/s; together with the
	// airspeed it fixes the minimum turning radius.
	MaxAngularVelocity float64 `json:"max_angular_velocity"`
	// MaxPitchAngle is the climb/descent slope bound in radians.
	MaxPitchAngle float64 `json:"max_pitch_angle"`

	// NominalAltitude is the observation altitude in metres. Observation
	// segments are flown at this altitude; the camera footprint dimensions
	// below assume it.
	NominalAltitude float64 `json:"nominal_altitude"`

	// ViewWidth and ViewDepth are the camera footprint dimensions on the
	// ground at the nominal altitude, in metres. Width is perpendicular to
	// the flight direction.
	ViewWidth float64 `json:"view_width"`
	ViewDepth float64 `json:"view_depth"`
}

// X8 returns the Skywalker X8 flying-wing configuration flown in the field
// campaigns, tagged with a tail number.
func X8(tailNumber string) *UAV {
	return &UAV{
		Name:               "x8-" + tailNumber,
		MaxAirSpeed:        18.0,
		MaxAngularVelocity: 0.12,
		MaxPitchAngle:      0.1,
		NominalAltitude:    300.0,
		ViewWidth:          100.0,
		ViewDepth:          100.0,
	}
}

// MinTurnRadius is the smallest turn radius flyable at cruise speed.
func (u *UAV) MinTurnRadius() float64 {
	return u.MaxAirSpeed / u.MaxAngularVelocity
}

// TravelDistance is the Dubins-airplane path length between two oriented
// waypoints at this aircraft's turn and climb limits.
func (u *UAV) TravelDistance(from, to geom.Waypoint3D) (float64, error) {
	path, err := dubins.ShortestPath3D(from, to, u.MinTurnRadius(), u.MaxPitchAngle)
	if err != nil {
		return 0, err
	}
	return path.L, nil
}

// TravelTime is the travel distance flown at cruise speed.
func (u *UAV) TravelTime(from, to geom.Waypoint3D) (float64, error) {
	d, err := u.TravelDistance(from, to)
	if err != nil {
		return 0, err
	}
	return d / u.MaxAirSpeed, nil
}

// VisibilityCenter returns the centre of the ground swath observed while
// flying the segment.
func (u *UAV) VisibilityCenter(seg geom.Segment3D) geom.Waypoint3D {
	half := seg.Length / 2
	return geom.Waypoint3D{
		X:   seg.Start.X + half*math.Cos(seg.Start.Dir),
		Y:   seg.Start.Y + half*math.Sin(seg.Start.Dir),
		Z:   seg.Start.Z,
		Dir: seg.Start.Dir,
	}
}

// ObservationSegment builds a segment with the given heading and length
// whose visibility centre falls at (x, y), flown at the aircraft's
// nominal observation altitude.
func (u *UAV) ObservationSegment(x, y, dir, length float64) geom.Segment3D {
	dir = geom.NormalizeHeading(dir)
	half := length / 2
	start := geom.Waypoint3D{
		X:   x - half*math.Cos(dir),
		Y:   y - half*math.Sin(dir),
		Z:   u.NominalAltitude,
		Dir: dir,
	}
	return geom.NewSegment3D(start, length)
}
