// Package dubins computes shortest paths for fixed-wing aircraft: the six
// planar Dubins words for a bounded turning radius, and the Dubins-airplane
// extension with a bounded climb angle.
package dubins

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/firewatch/internal/geom"
)

// ErrSolverFailed is returned when the medium- or high-altitude radius
// search does not converge.
var ErrSolverFailed = errors.New("dubins solver failed")

// PathType identifies one of the six planar Dubins words. The order is
// canonical and used for tie-breaking.
type PathType int

const (
	LSL PathType = iota
	RSR
	LSR
	RSL
	RLR
	LRL
)

func (t PathType) String() string {
	switch t {
	case LSL:
		return "LSL"
	case RSR:
		return "RSR"
	case LSR:
		return "LSR"
	case RSL:
		return "RSL"
	case RLR:
		return "RLR"
	case LRL:
		return "LRL"
	}
	return fmt.Sprintf("PathType(%d)", int(t))
}

type segmentKind int

const (
	segLeft segmentKind = iota
	segStraight
	segRight
)

// wordSegments maps each word to its three maneuver primitives.
var wordSegments = [6][3]segmentKind{
	LSL: {segLeft, segStraight, segLeft},
	RSR: {segRight, segStraight, segRight},
	LSR: {segLeft, segStraight, segRight},
	RSL: {segRight, segStraight, segLeft},
	RLR: {segRight, segLeft, segRight},
	LRL: {segLeft, segRight, segLeft},
}

// Path2D is a planar Dubins path. T, P and Q are the normalised parameters
// of the three maneuvers (arc angles, or straight length divided by Rho);
// the metric length is (T+P+Q)*Rho.
type Path2D struct {
	Start geom.Waypoint2D
	End   geom.Waypoint2D
	Rho   float64
	Type  PathType
	T     float64
	P     float64
	Q     float64
}

// Length returns the metric path length.
func (p Path2D) Length() float64 {
	return (p.T + p.P + p.Q) * p.Rho
}

func mod2pi(x float64) float64 {
	return geom.NormalizeHeading(x)
}

// word solvers operate on the normalised problem: start at the origin with
// heading alpha, target at distance d on the x axis with heading beta.

func lsl(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	pSq := 2 + d*d - 2*math.Cos(alpha-beta) + 2*d*(sa-sb)
	if pSq < 0 {
		return 0, 0, 0, false
	}
	tmp := math.Atan2(cb-ca, d+sa-sb)
	return mod2pi(tmp - alpha), math.Sqrt(pSq), mod2pi(beta - tmp), true
}

func rsr(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	pSq := 2 + d*d - 2*math.Cos(alpha-beta) + 2*d*(sb-sa)
	if pSq < 0 {
		return 0, 0, 0, false
	}
	tmp := math.Atan2(ca-cb, d-sa+sb)
	return mod2pi(alpha - tmp), math.Sqrt(pSq), mod2pi(tmp - beta), true
}

func lsr(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	pSq := -2 + d*d + 2*math.Cos(alpha-beta) + 2*d*(sa+sb)
	if pSq < 0 {
		return 0, 0, 0, false
	}
	p = math.Sqrt(pSq)
	tmp := math.Atan2(-ca-cb, d+sa+sb) - math.Atan2(-2, p)
	return mod2pi(tmp - alpha), p, mod2pi(tmp - mod2pi(beta)), true
}

func rsl(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	pSq := d*d - 2 + 2*math.Cos(alpha-beta) - 2*d*(sa+sb)
	if pSq < 0 {
		return 0, 0, 0, false
	}
	p = math.Sqrt(pSq)
	tmp := math.Atan2(ca+cb, d-sa-sb) - math.Atan2(2, p)
	return mod2pi(alpha - tmp), p, mod2pi(beta - tmp), true
}

func rlr(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	tmp := (6 - d*d + 2*math.Cos(alpha-beta) + 2*d*(sa-sb)) / 8
	if math.Abs(tmp) > 1 {
		return 0, 0, 0, false
	}
	phi := math.Atan2(ca-cb, d-sa+sb)
	p = mod2pi(2*math.Pi - math.Acos(tmp))
	t = mod2pi(alpha - phi + mod2pi(p/2))
	return t, p, mod2pi(alpha - beta - t + mod2pi(p)), true
}

func lrl(alpha, beta, d float64) (t, p, q float64, ok bool) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	tmp := (6 - d*d + 2*math.Cos(alpha-beta) + 2*d*(sb-sa)) / 8
	if math.Abs(tmp) > 1 {
		return 0, 0, 0, false
	}
	phi := math.Atan2(ca-cb, d+sa-sb)
	p = mod2pi(2*math.Pi - math.Acos(tmp))
	t = mod2pi(-alpha - phi + p/2)
	return t, p, mod2pi(mod2pi(beta) - alpha - t + mod2pi(p)), true
}

var wordSolvers = [6]func(alpha, beta, d float64) (t, p, q float64, ok bool){
	LSL: lsl, RSR: rsr, LSR: lsr, RSL: rsl, RLR: rlr, LRL: lrl,
}

// ShortestPath2D returns the shortest planar Dubins path from start to end
// for minimum turning radius rho > 0. Ties between words of equal length
// resolve to the canonical word order.
func ShortestPath2D(start, end geom.Waypoint2D, rho float64) Path2D {
	if rho <= 0 {
		panic(fmt.Sprintf("dubins: non-positive turning radius %g", rho))
	}
	dx := end.X - start.X
	dy := end.Y - start.Y
	big := math.Hypot(dx, dy)
	theta := 0.0
	if big > 0 {
		theta = mod2pi(math.Atan2(dy, dx))
	}
	alpha := mod2pi(start.Dir - theta)
	beta := mod2pi(end.Dir - theta)
	d := big / rho

	best := Path2D{Start: start, End: end, Rho: rho, T: math.Inf(1)}
	bestLen := math.Inf(1)
	for w := LSL; w <= LRL; w++ {
		t, p, q, ok := wordSolvers[w](alpha, beta, d)
		if !ok {
			continue
		}
		if l := t + p + q; l < bestLen {
			bestLen = l
			best.Type = w
			best.T, best.P, best.Q = t, p, q
		}
	}
	return best
}

// Feasible reports whether any word solved. At least one always does for
// endpoints further than 2*Rho apart.
func (p Path2D) Feasible() bool {
	return !math.IsInf(p.T, 1)
}

// Sample returns the configuration at arc length s from the start,
// 0 <= s <= Length().
func (p Path2D) Sample(s float64) geom.Waypoint2D {
	if s < 0 {
		s = 0
	}
	if l := p.Length(); s > l {
		s = l
	}
	// Work in normalised coordinates: start at the origin, unit radius.
	sp := s / p.Rho
	q := [3]float64{0, 0, p.Start.Dir}
	params := [3]float64{p.T, p.P, p.Q}
	kinds := wordSegments[p.Type]
	for i := 0; i < 3 && sp > 0; i++ {
		step := math.Min(sp, params[i])
		q = advance(q, step, kinds[i])
		sp -= step
	}
	return geom.Waypoint2D{
		X:   p.Start.X + q[0]*p.Rho,
		Y:   p.Start.Y + q[1]*p.Rho,
		Dir: mod2pi(q[2]),
	}
}

// advance moves a normalised configuration along one maneuver primitive.
func advance(q [3]float64, t float64, kind segmentKind) [3]float64 {
	st, ct := math.Sincos(q[2])
	switch kind {
	case segLeft:
		return [3]float64{
			q[0] + math.Sin(q[2]+t) - st,
			q[1] - math.Cos(q[2]+t) + ct,
			q[2] + t,
		}
	case segRight:
		return [3]float64{
			q[0] - math.Sin(q[2]-t) + st,
			q[1] + math.Cos(q[2]-t) - ct,
			q[2] - t,
		}
	default:
		return [3]float64{q[0] + ct*t, q[1] + st*t, q[2]}
	}
}
