package raster

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// fileFormat is the on-disk JSON shape of a raster. Data is x-major and
// null entries decode as never-ignited sentinel values.
type fileFormat struct {
	XWidth    int        `json:"x_width"`
	YHeight   int        `json:"y_height"`
	XOffset   float64    `json:"x_offset"`
	YOffset   float64    `json:"y_offset"`
	CellWidth float64    `json:"cell_width"`
	Data      []*float64 `json:"data"`
}

// LoadJSON reads a raster from a JSON grid file.
func LoadJSON(path string) (*Raster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raster file: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse raster file: %w", err)
	}
	if f.XWidth <= 0 || f.YHeight <= 0 || f.CellWidth <= 0 {
		return nil, fmt.Errorf("invalid raster shape %dx%d cell width %g", f.XWidth, f.YHeight, f.CellWidth)
	}
	if len(f.Data) != f.XWidth*f.YHeight {
		return nil, fmt.Errorf("raster data length %d does not match shape %dx%d", len(f.Data), f.XWidth, f.YHeight)
	}
	buf := make([]float64, len(f.Data))
	for i, v := range f.Data {
		if v == nil {
			buf[i] = math.MaxFloat64
		} else {
			buf[i] = *v
		}
	}
	return FromBuffer(buf, f.XWidth, f.YHeight, f.XOffset, f.YOffset, f.CellWidth), nil
}

// SaveJSON writes the raster to a JSON grid file. Sentinel values encode
// as null so the files stay portable.
func SaveJSON(r *Raster, path string) error {
	f := fileFormat{
		XWidth:    r.XWidth,
		YHeight:   r.YHeight,
		XOffset:   r.XOffset,
		YOffset:   r.YOffset,
		CellWidth: r.CellWidth,
		Data:      make([]*float64, 0, r.XWidth*r.YHeight),
	}
	for x := 0; x < r.XWidth; x++ {
		for y := 0; y < r.YHeight; y++ {
			v := r.At(x, y)
			if v >= math.MaxFloat64/2 || math.IsNaN(v) {
				f.Data = append(f.Data, nil)
			} else {
				val := v
				f.Data = append(f.Data, &val)
			}
		}
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode raster: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write raster file: %w", err)
	}
	return nil
}
