package plan

// Planner design constants, the defaults for Params. The reference values
// come from the field campaigns and are what every plan uses unless the
// caller injects overrides at construction.
const (
	// RedundantObsDist is the distance, in metres, under which a second
	// observation of the same area adds nothing: the area is already
	// inside the pictured footprint.
	RedundantObsDist = 50.0

	// MaxInformativeDistance caps the distance over which an observation
	// still lowers the utility of nearby unobserved cells.
	MaxInformativeDistance = 500.0

	// MaxUtility and MinUtility bound per-cell utility; visited cells are
	// worth MinUtility.
	MaxUtility = 1.0
	MinUtility = 0.0

	// UtilityIncrement is the per-cell utility degradation applied along
	// the ignition front by the propagation utility variant.
	UtilityIncrement = 0.1

	// SmoothingRatio is the Dubins-to-Euclidean distance ratio above which
	// a transition counts as a tight loop and its target is erased.
	SmoothingRatio = 2.0

	// SamplingStep is the spacing, in ground metres, of flight path
	// samples handed to the ghost-fire mapper.
	SamplingStep = 50.0
)

// Params carries the tunable planner parameters, fixed per plan at
// construction. The zero value is not meaningful; start from
// DefaultParams.
type Params struct {
	RedundantObsDist       float64
	MaxInformativeDistance float64
	UtilityIncrement       float64
	SmoothingRatio         float64
	SamplingStep           float64
}

// DefaultParams returns the design constants above.
func DefaultParams() Params {
	return Params{
		RedundantObsDist:       RedundantObsDist,
		MaxInformativeDistance: MaxInformativeDistance,
		UtilityIncrement:       UtilityIncrement,
		SmoothingRatio:         SmoothingRatio,
		SamplingStep:           SamplingStep,
	}
}
