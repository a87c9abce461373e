// Package raster implements the dense float64 grids the planner works on:
// ignition times, traversal times, propagation directions and utility maps.
// A raster couples a gonum matrix with an affine cell-to-world mapping.
package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/firewatch/internal/geom"
)

// Cell indexes a raster. Cells are only meaningful together with the raster
// they were derived from.
type Cell struct {
	X int
	Y int
}

// Raster is a rectangular grid of float64 values with a world-space anchor.
// Data is stored x-major: row i of the backing matrix is grid column x=i.
// All accessors are bounds checked; indexing outside the grid is a
// programmer error and panics.
type Raster struct {
	data *mat.Dense

	XWidth    int
	YHeight   int
	XOffset   float64
	YOffset   float64
	CellWidth float64
}

// New allocates a zero-filled raster of the given shape.
func New(xWidth, yHeight int, xOffset, yOffset, cellWidth float64) *Raster {
	if xWidth <= 0 || yHeight <= 0 {
		panic(fmt.Sprintf("raster: invalid shape %dx%d", xWidth, yHeight))
	}
	if cellWidth <= 0 {
		panic(fmt.Sprintf("raster: invalid cell width %g", cellWidth))
	}
	return &Raster{
		data:      mat.NewDense(xWidth, yHeight, nil),
		XWidth:    xWidth,
		YHeight:   yHeight,
		XOffset:   xOffset,
		YOffset:   yOffset,
		CellWidth: cellWidth,
	}
}

// NewFilled allocates a raster with every cell set to fill.
func NewFilled(xWidth, yHeight int, xOffset, yOffset, cellWidth, fill float64) *Raster {
	r := New(xWidth, yHeight, xOffset, yOffset, cellWidth)
	for x := 0; x < xWidth; x++ {
		for y := 0; y < yHeight; y++ {
			r.data.Set(x, y, fill)
		}
	}
	return r
}

// FromBuffer wraps a borrowed flat buffer (x-major, len = xWidth*yHeight)
// without copying. The caller must not free or resize the buffer while the
// raster is alive; writes through either alias are visible to both.
func FromBuffer(data []float64, xWidth, yHeight int, xOffset, yOffset, cellWidth float64) *Raster {
	if len(data) != xWidth*yHeight {
		panic(fmt.Sprintf("raster: buffer length %d does not match shape %dx%d", len(data), xWidth, yHeight))
	}
	if cellWidth <= 0 {
		panic(fmt.Sprintf("raster: invalid cell width %g", cellWidth))
	}
	return &Raster{
		data:      mat.NewDense(xWidth, yHeight, data),
		XWidth:    xWidth,
		YHeight:   yHeight,
		XOffset:   xOffset,
		YOffset:   yOffset,
		CellWidth: cellWidth,
	}
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	c := New(r.XWidth, r.YHeight, r.XOffset, r.YOffset, r.CellWidth)
	c.data.Copy(r.data)
	return c
}

// CloneFilled returns a raster of the same shape and anchor with every cell
// set to fill.
func (r *Raster) CloneFilled(fill float64) *Raster {
	return NewFilled(r.XWidth, r.YHeight, r.XOffset, r.YOffset, r.CellWidth, fill)
}

// In reports whether the cell lies inside the grid.
func (r *Raster) In(c Cell) bool {
	return c.X >= 0 && c.X < r.XWidth && c.Y >= 0 && c.Y < r.YHeight
}

func (r *Raster) checkBounds(c Cell) {
	if !r.In(c) {
		panic(fmt.Sprintf("raster: cell (%d,%d) out of bounds %dx%d", c.X, c.Y, r.XWidth, r.YHeight))
	}
}

// Get returns the value at c. Panics if c is out of bounds.
func (r *Raster) Get(c Cell) float64 {
	r.checkBounds(c)
	return r.data.At(c.X, c.Y)
}

// Set writes the value at c. Panics if c is out of bounds.
func (r *Raster) Set(c Cell, v float64) {
	r.checkBounds(c)
	r.data.Set(c.X, c.Y, v)
}

// At is shorthand for Get on integer coordinates.
func (r *Raster) At(x, y int) float64 {
	return r.Get(Cell{X: x, Y: y})
}

// XCoord returns the world x coordinate of grid column x.
func (r *Raster) XCoord(x int) float64 {
	return r.XOffset + r.CellWidth*float64(x)
}

// YCoord returns the world y coordinate of grid row y.
func (r *Raster) YCoord(y int) float64 {
	return r.YOffset + r.CellWidth*float64(y)
}

// PositionOf returns the world position of the cell centre.
func (r *Raster) PositionOf(c Cell) geom.Point {
	return geom.Point{X: r.XCoord(c.X), Y: r.YCoord(c.Y)}
}

// CellOf maps a world position to the nearest cell by rounding. The result
// may be out of bounds; test with In.
func (r *Raster) CellOf(p geom.Point) Cell {
	return Cell{
		X: int(math.Round((p.X - r.XOffset) / r.CellWidth)),
		Y: int(math.Round((p.Y - r.YOffset) / r.CellWidth)),
	}
}

// Contains reports whether the world position maps to a cell inside the
// grid.
func (r *Raster) Contains(p geom.Point) bool {
	return r.In(r.CellOf(p))
}

// NeighborCells returns the in-bounds cells of the 8-neighborhood of c.
func (r *Raster) NeighborCells(c Cell) []Cell {
	out := make([]Cell, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Cell{X: c.X + dx, Y: c.Y + dy}
			if r.In(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Dense exposes the backing matrix for read-only numerical use, e.g.
// plotting adapters. Mutating it mutates the raster.
func (r *Raster) Dense() *mat.Dense {
	return r.data
}
