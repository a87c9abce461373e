package dubins

import (
	"fmt"
	"math"

	"github.com/banshee-data/firewatch/internal/geom"
)

// AltitudeCase classifies which Dubins-airplane regime produced a path.
type AltitudeCase int

const (
	// CaseLow: the planar path at rMin is long enough to absorb the climb
	// within the slope bound.
	CaseLow AltitudeCase = iota
	// CaseMedium: the turn radius is widened until the planar path matches
	// the climb flown at the maximum slope. No full helix turns.
	CaseMedium
	// CaseHigh: one or more full helix turns are inserted, radius widened
	// so the total ground length matches the climb at the maximum slope.
	CaseHigh
)

func (c AltitudeCase) String() string {
	switch c {
	case CaseLow:
		return "low"
	case CaseMedium:
		return "medium"
	case CaseHigh:
		return "high"
	}
	return fmt.Sprintf("AltitudeCase(%d)", int(c))
}

// Path3D is a Dubins-airplane path between oriented 3-D waypoints.
type Path3D struct {
	Start geom.Waypoint3D
	End   geom.Waypoint3D

	// L is the 3-D path length, L2D its ground projection.
	L   float64
	L2D float64
	// R is the effective turn/helix radius, always >= the aircraft minimum.
	R float64
	// Gamma is the flown climb angle, |Gamma| <= the aircraft maximum.
	Gamma float64
	// HelixTurns is the number of full circles inserted (high altitude
	// only).
	HelixTurns int
	// Configuration2D is the planar word computed at radius R.
	Configuration2D Path2D

	Case AltitudeCase
}

const (
	// radiusSolveTol is the bracket width at which the radius bisection
	// stops.
	radiusSolveTol = 1e-7
	// radiusSolveMaxIter bounds the bisection. 64 halvings shrink any
	// realistic bracket below radiusSolveTol.
	radiusSolveMaxIter = 200
)

// ShortestPath3D computes the Dubins-airplane shortest path for minimum
// turning radius rMin > 0 and maximum climb angle gammaMax > 0 (radians).
func ShortestPath3D(start, end geom.Waypoint3D, rMin, gammaMax float64) (Path3D, error) {
	if rMin <= 0 {
		panic(fmt.Sprintf("dubins: non-positive turning radius %g", rMin))
	}
	if gammaMax <= 0 {
		panic(fmt.Sprintf("dubins: non-positive climb angle %g", gammaMax))
	}

	deltaZ := end.Z - start.Z
	absDeltaZ := math.Abs(deltaZ)
	tanGamma := math.Tan(gammaMax)

	flat := ShortestPath2D(start.Ground(), end.Ground(), rMin)
	l2d := flat.Length()

	path := Path3D{Start: start, End: end}

	if absDeltaZ <= l2d*tanGamma {
		// Low altitude: fly the planar path with a shallow climb.
		gamma := 0.0
		if l2d > 0 {
			gamma = math.Atan2(deltaZ, l2d)
		}
		path.Case = CaseLow
		path.R = rMin
		path.Gamma = gamma
		path.L2D = l2d
		path.L = math.Hypot(l2d, deltaZ)
		path.Configuration2D = flat
		return path, nil
	}

	// The climb at full slope needs this much ground distance.
	targetL2D := absDeltaZ / tanGamma
	helixTurns := int((targetL2D - l2d) / (2 * math.Pi * rMin))

	gamma := math.Copysign(gammaMax, deltaZ)

	if helixTurns == 0 {
		// Medium altitude: widen the radius until the planar path alone
		// provides the required ground distance.
		r, cfg, err := solveRadius(start.Ground(), end.Ground(), rMin, 0, targetL2D)
		if err != nil {
			return Path3D{}, err
		}
		path.Case = CaseMedium
		path.R = r
		path.Gamma = gamma
		path.L2D = targetL2D
		path.L = absDeltaZ / math.Sin(gammaMax)
		path.Configuration2D = cfg
		return path, nil
	}

	// High altitude: insert full helix turns, widening the radius so the
	// planar path plus the turns exactly consume the climb.
	r, cfg, err := solveRadius(start.Ground(), end.Ground(), rMin, helixTurns, targetL2D)
	if err != nil {
		return Path3D{}, err
	}
	path.Case = CaseHigh
	path.R = r
	path.Gamma = gamma
	path.HelixTurns = helixTurns
	path.L2D = targetL2D
	path.L = absDeltaZ / math.Sin(gammaMax)
	path.Configuration2D = cfg
	return path, nil
}

// solveRadius finds r >= rMin such that the planar Dubins length at radius
// r plus turns full circles of radius r equals target. The ground length is
// nondecreasing in r, so bisection applies; the lower bound undershoots by
// construction and the upper bound is derived by holding the planar part at
// its minimum-radius length.
func solveRadius(start, end geom.Waypoint2D, rMin float64, turns int, target float64) (float64, Path2D, error) {
	groundLen := func(r float64) (float64, Path2D) {
		cfg := ShortestPath2D(start, end, r)
		return cfg.Length() + 2*math.Pi*float64(turns)*r, cfg
	}

	lo := rMin
	fLo, cfgLo := groundLen(lo)
	if fLo >= target {
		// Already long enough at the minimum radius.
		return lo, cfgLo, nil
	}

	var hi float64
	if turns > 0 {
		hi = (target - cfgLo.Length()) / (2 * math.Pi * float64(turns))
	} else {
		// No helix: grow the bracket geometrically until the planar
		// length overshoots.
		hi = 2 * rMin
		for i := 0; ; i++ {
			if f, _ := groundLen(hi); f >= target {
				break
			}
			hi *= 2
			if i >= radiusSolveMaxIter {
				return 0, Path2D{}, fmt.Errorf("%w: no bracket for radius in [%g, %g]", ErrSolverFailed, rMin, hi)
			}
		}
	}
	if fHi, _ := groundLen(hi); fHi < target {
		// Cannot happen for a well-posed problem; surface it rather than
		// bisecting a bad bracket.
		return 0, Path2D{}, fmt.Errorf("%w: bracket [%g, %g] does not contain the target ground length", ErrSolverFailed, lo, hi)
	}

	for i := 0; i < radiusSolveMaxIter && hi-lo > radiusSolveTol; i++ {
		mid := 0.5 * (lo + hi)
		if f, _ := groundLen(mid); f < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi-lo > radiusSolveTol*math.Max(1, rMin) {
		return 0, Path2D{}, fmt.Errorf("%w: radius bisection did not converge", ErrSolverFailed)
	}
	r := hi
	_, cfg := groundLen(r)
	return r, cfg, nil
}
