package plan

import (
	"encoding/json"

	"github.com/banshee-data/firewatch/internal/geom"
)

// ManeuverRecord is the JSON shape of one maneuver with its start time.
type ManeuverRecord struct {
	Segment   geom.Segment3D `json:"segment"`
	StartTime float64        `json:"start_time"`
}

// TrajectoryRecord round-trips a trajectory's maneuvers and timing.
type TrajectoryRecord struct {
	Name      string           `json:"name"`
	StartTime float64          `json:"start_time"`
	Duration  float64          `json:"duration"`
	Maneuvers []ManeuverRecord `json:"maneuvers"`
}

// Record captures the trajectory for serialization.
func (t *Trajectory) Record() TrajectoryRecord {
	rec := TrajectoryRecord{
		Name:      t.conf.Name,
		StartTime: t.conf.StartTime,
		Duration:  t.Duration(),
		Maneuvers: make([]ManeuverRecord, 0, len(t.maneuvers)),
	}
	for _, m := range t.maneuvers {
		rec.Maneuvers = append(rec.Maneuvers, ManeuverRecord{Segment: m.seg, StartTime: m.startTime})
	}
	return rec
}

// MarshalJSON serializes the trajectory as its record.
func (t *Trajectory) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// FromRecord rebuilds a trajectory from a record under the given
// configuration. Maneuver start times are recomputed and must match the
// recorded ones for a faithful configuration.
func FromRecord(conf TrajectoryConfig, rec TrajectoryRecord) (*Trajectory, error) {
	t := &Trajectory{conf: conf, maneuvers: make([]maneuver, 0, len(rec.Maneuvers))}
	for _, m := range rec.Maneuvers {
		t.maneuvers = append(t.maneuvers, maneuver{seg: m.Segment, startTime: m.StartTime})
	}
	if err := t.recomputeTimes(); err != nil {
		return nil, err
	}
	return t, nil
}

// Metadata is the JSON summary of a plan.
type Metadata struct {
	Duration     float64            `json:"duration"`
	Utility      float64            `json:"utility"`
	NumSegments  int                `json:"num_segments"`
	Trajectories []TrajectoryRecord `json:"trajectories"`
}

// Metadata summarises the plan for logging and archiving.
func (p *Plan) Metadata() Metadata {
	md := Metadata{
		Duration:     p.Duration(),
		Utility:      p.Utility(),
		NumSegments:  p.NumSegments(),
		Trajectories: make([]TrajectoryRecord, 0, p.trajs.Size()),
	}
	for _, t := range p.trajs.trajs {
		md.Trajectories = append(md.Trajectories, t.Record())
	}
	return md
}
