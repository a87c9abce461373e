package plan

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectoryRecordRoundTrip(t *testing.T) {
	t.Parallel()

	conf := TrajectoryConfig{Name: "t0", UAV: testUAV(), StartTime: 10}
	tr, err := NewTrajectory(conf)
	require.NoError(t, err)
	require.NoError(t, tr.InsertSegment(segAlongX(0, 0, 100), 0))
	require.NoError(t, tr.InsertSegment(segAlongX(300, 0, 50), 1))

	blob, err := json.Marshal(tr)
	require.NoError(t, err)

	var rec TrajectoryRecord
	require.NoError(t, json.Unmarshal(blob, &rec))

	rebuilt, err := FromRecord(conf, rec)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(tr.Record(), rebuilt.Record()))
}

func TestPlanMetadata(t *testing.T) {
	t.Parallel()

	p := newTestPlan(t, slopeFire(), 50, nil)
	require.NoError(t, p.InsertSegment(0, frontSegment(p, 50), 0, false))

	md := p.Metadata()
	assert.Equal(t, p.Duration(), md.Duration)
	assert.Equal(t, p.Utility(), md.Utility)
	assert.Equal(t, 1, md.NumSegments)
	require.Len(t, md.Trajectories, 1)
	require.Len(t, md.Trajectories[0].Maneuvers, 1)
	assert.Equal(t, 50.0, md.Trajectories[0].Maneuvers[0].StartTime)

	// Metadata serializes cleanly.
	blob, err := json.Marshal(md)
	require.NoError(t, err)
	var decoded Metadata
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, md.NumSegments, decoded.NumSegments)
}
