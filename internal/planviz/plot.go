// Package planviz renders planning results for inspection: static PNG
// plots of ground tracks and utility maps, and interactive HTML raster
// heatmaps.
package planviz

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/firewatch/internal/monitoring"
	"github.com/banshee-data/firewatch/internal/plan"
	"github.com/banshee-data/firewatch/internal/raster"
)

// rasterGrid adapts a raster to the plotter.GridXYZ interface. NaN cells
// render as the palette minimum.
type rasterGrid struct {
	r *raster.Raster
}

func (g rasterGrid) Dims() (int, int) { return g.r.XWidth, g.r.YHeight }
func (g rasterGrid) X(c int) float64  { return g.r.XCoord(c) }
func (g rasterGrid) Y(r int) float64  { return g.r.YCoord(r) }
func (g rasterGrid) Z(c, r int) float64 {
	v := g.r.At(c, r)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// SaveGroundTracks writes a PNG of every trajectory's sampled ground track
// over the possible observations.
func SaveGroundTracks(p *plan.Plan, outputDir string) error {
	pl := plot.New()
	pl.Title.Text = "Ground tracks"
	pl.X.Label.Text = "X (m)"
	pl.Y.Label.Text = "Y (m)"

	obsPts := make(plotter.XYs, 0, len(p.PossibleObservations))
	for _, po := range p.PossibleObservations {
		obsPts = append(obsPts, plotter.XY{X: po.Pt.X, Y: po.Pt.Y})
	}
	if len(obsPts) > 0 {
		scatter, err := plotter.NewScatter(obsPts)
		if err != nil {
			return fmt.Errorf("failed to build observation scatter: %w", err)
		}
		scatter.Radius = vg.Points(1)
		pl.Add(scatter)
		pl.Legend.Add("possible observations", scatter)
	}

	trajs := p.Trajectories()
	for i := 0; i < trajs.Size(); i++ {
		tr := trajs.Trajectory(i)
		wps, _ := tr.SampledWithTime(p.Params().SamplingStep)
		pts := make(plotter.XYs, 0, len(wps))
		for _, wp := range wps {
			pts = append(pts, plotter.XY{X: wp.X, Y: wp.Y})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build track line: %w", err)
		}
		line.Width = vg.Points(1)
		pl.Add(line)
		pl.Legend.Add(tr.Conf().Name, line)
	}

	file := filepath.Join(outputDir, "ground_tracks.png")
	if err := pl.Save(10*vg.Inch, 10*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save ground tracks: %w", err)
	}
	monitoring.Logf("planviz: wrote %s", file)
	return nil
}

// SaveUtilityMap writes a PNG heatmap of the plan's utility raster.
func SaveUtilityMap(p *plan.Plan, outputDir string) error {
	return saveHeatmap(p.UtilityMap(), "Utility map", filepath.Join(outputDir, "utility_map.png"))
}

// SaveIgnitionMap writes a PNG heatmap of the ignition raster.
func SaveIgnitionMap(r *raster.Raster, outputDir string) error {
	return saveHeatmap(r, "Ignition times", filepath.Join(outputDir, "ignitions.png"))
}

func saveHeatmap(r *raster.Raster, title, file string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "X (m)"
	pl.Y.Label.Text = "Y (m)"

	hm := plotter.NewHeatMap(rasterGrid{r: r}, palette.Heat(12, 1))
	pl.Add(hm)

	if err := pl.Save(10*vg.Inch, 10*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}
	monitoring.Logf("planviz: wrote %s", file)
	return nil
}
