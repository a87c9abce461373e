package planviz

import (
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/firewatch/internal/raster"
)

// RenderRasterHeatmap writes an interactive HTML heatmap of the raster.
// NaN and sentinel cells are skipped so the visual map scales to the
// informative values.
func RenderRasterHeatmap(w io.Writer, r *raster.Raster, title string) error {
	data := make([]opts.HeatMapData, 0, r.XWidth*r.YHeight)
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for x := 0; x < r.XWidth; x++ {
		for y := 0; y < r.YHeight; y++ {
			v := r.At(x, y)
			if math.IsNaN(v) || v >= math.MaxFloat64/2 {
				continue
			}
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, v}})
		}
	}
	if len(data) == 0 {
		return fmt.Errorf("raster has no finite cells to render")
	}

	xAxis := make([]int, r.XWidth)
	for i := range xAxis {
		xAxis[i] = i
	}
	yAxis := make([]int, r.YHeight)
	for i := range yAxis {
		yAxis[i] = i
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d cells, %.0fm resolution", r.XWidth, r.YHeight, r.CellWidth)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "X cell"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Y cell", Data: yAxis}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minV),
			Max:        float32(maxV),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	hm.SetXAxis(xAxis)
	hm.AddSeries("cells", data)

	return hm.Render(w)
}

// HeatmapHandler serves the heatmap over HTTP for browser inspection.
func HeatmapHandler(r *raster.Raster, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RenderRasterHeatmap(w, r, title); err != nil {
			http.Error(w, fmt.Sprintf("failed to render heatmap: %v", err), http.StatusInternalServerError)
		}
	}
}
