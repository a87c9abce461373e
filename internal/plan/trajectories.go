package plan

// Trajectories is the ordered collection of trajectories owned by a plan.
type Trajectories struct {
	trajs []*Trajectory
}

// NewTrajectories builds one empty trajectory per configuration.
func NewTrajectories(confs []TrajectoryConfig) (*Trajectories, error) {
	ts := &Trajectories{trajs: make([]*Trajectory, 0, len(confs))}
	for _, conf := range confs {
		t, err := NewTrajectory(conf)
		if err != nil {
			return nil, err
		}
		ts.trajs = append(ts.trajs, t)
	}
	return ts, nil
}

// Size is the number of trajectories.
func (ts *Trajectories) Size() int {
	return len(ts.trajs)
}

// Trajectory returns trajectory i.
func (ts *Trajectories) Trajectory(i int) *Trajectory {
	return ts.trajs[i]
}

// Duration is the summed duration of all trajectories.
func (ts *Trajectories) Duration() float64 {
	total := 0.0
	for _, t := range ts.trajs {
		total += t.Duration()
	}
	return total
}

// NumSegments is the summed maneuver count, fixed slots included.
func (ts *Trajectories) NumSegments() int {
	n := 0
	for _, t := range ts.trajs {
		n += t.Size()
	}
	return n
}

// IsValid reports whether every trajectory fits its flight-time budget.
func (ts *Trajectories) IsValid() bool {
	for _, t := range ts.trajs {
		if t.Duration() > t.conf.maxFlightTime() {
			return false
		}
	}
	return true
}

// Clone deep-copies all trajectories.
func (ts *Trajectories) Clone() *Trajectories {
	c := &Trajectories{trajs: make([]*Trajectory, len(ts.trajs))}
	for i, t := range ts.trajs {
		c.trajs[i] = t.Clone()
	}
	return c
}
