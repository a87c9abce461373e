package planviz

import (
	"bytes"
	"math"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/monitoring"
	"github.com/banshee-data/firewatch/internal/plan"
	"github.com/banshee-data/firewatch/internal/raster"
	"github.com/banshee-data/firewatch/internal/uav"
)

func testFire() *firedata.FireData {
	ign := raster.New(10, 10, 0, 0, 25)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			ign.Set(raster.Cell{X: x, Y: y}, float64(x)*10)
		}
	}
	return firedata.New(ign)
}

func testPlan(t *testing.T) *plan.Plan {
	t.Helper()
	drone := &uav.UAV{
		Name: "test", MaxAirSpeed: 10, MaxAngularVelocity: 0.4,
		MaxPitchAngle: 0.1, NominalAltitude: 300, ViewWidth: 100, ViewDepth: 100,
	}
	p, err := plan.New(
		[]plan.TrajectoryConfig{{Name: "t0", UAV: drone, StartTime: 50}},
		testFire(),
		geom.TimeWindow{Start: 0, End: math.Inf(1)},
		nil,
	)
	require.NoError(t, err)
	seg := drone.ObservationSegment(125, 125, math.Pi/2, 100)
	require.NoError(t, p.InsertSegment(0, seg, 0, false))
	return p
}

func TestRenderRasterHeatmap(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRasterHeatmap(&buf, testFire().Ignitions, "Ignitions"))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Ignitions")
}

func TestRenderRasterHeatmapAllSentinel(t *testing.T) {
	r := raster.NewFilled(3, 3, 0, 0, 25, math.MaxFloat64)
	var buf bytes.Buffer
	assert.Error(t, RenderRasterHeatmap(&buf, r, "empty"))
}

func TestHeatmapHandler(t *testing.T) {
	h := HeatmapHandler(testFire().Ignitions, "Ignitions")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/ignitions", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestSavePlots(t *testing.T) {
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	defer func() { monitoring.Logf = original }()

	p := testPlan(t)
	dir := t.TempDir()

	require.NoError(t, SaveGroundTracks(p, dir))
	require.NoError(t, SaveUtilityMap(p, dir))
	require.NoError(t, SaveIgnitionMap(p.Fire().Ignitions, dir))

	for _, name := range []string{"ground_tracks.png", "utility_map.png", "ignitions.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}
