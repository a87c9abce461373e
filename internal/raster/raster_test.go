package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/firewatch/internal/geom"
)

func TestWorldCellMapping(t *testing.T) {
	t.Parallel()

	r := New(10, 8, 1000, 2000, 25)

	c := Cell{X: 3, Y: 5}
	p := r.PositionOf(c)
	assert.Equal(t, 1075.0, p.X)
	assert.Equal(t, 2125.0, p.Y)

	// Round trip through world coordinates, including off-centre points
	// within half a cell.
	assert.Equal(t, c, r.CellOf(p))
	assert.Equal(t, c, r.CellOf(geom.Point{X: p.X + 12, Y: p.Y - 12}))
}

func TestBoundsChecking(t *testing.T) {
	t.Parallel()

	r := New(4, 4, 0, 0, 1)
	assert.True(t, r.In(Cell{X: 0, Y: 0}))
	assert.True(t, r.In(Cell{X: 3, Y: 3}))
	assert.False(t, r.In(Cell{X: 4, Y: 0}))
	assert.False(t, r.In(Cell{X: 0, Y: -1}))

	assert.Panics(t, func() { r.Get(Cell{X: 4, Y: 0}) })
	assert.Panics(t, func() { r.Set(Cell{X: -1, Y: 0}, 1) })
}

func TestFromBufferBorrows(t *testing.T) {
	t.Parallel()

	buf := []float64{1, 2, 3, 4, 5, 6}
	r := FromBuffer(buf, 2, 3, 0, 0, 1)

	assert.Equal(t, 1.0, r.At(0, 0))
	assert.Equal(t, 6.0, r.At(1, 2))

	// Writes through the raster are visible in the borrowed buffer and
	// vice versa.
	r.Set(Cell{X: 0, Y: 1}, 42)
	assert.Equal(t, 42.0, buf[1])
	buf[3] = 7
	assert.Equal(t, 7.0, r.At(1, 0))
}

func TestFromBufferRejectsBadShape(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { FromBuffer([]float64{1, 2, 3}, 2, 2, 0, 0, 1) })
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	r := New(2, 2, 0, 0, 1)
	r.Set(Cell{X: 1, Y: 1}, 9)
	c := r.Clone()
	c.Set(Cell{X: 1, Y: 1}, 1)
	assert.Equal(t, 9.0, r.At(1, 1))
	assert.Equal(t, 1.0, c.At(1, 1))
}

func TestNeighborCells(t *testing.T) {
	t.Parallel()

	r := New(3, 3, 0, 0, 1)
	assert.Len(t, r.NeighborCells(Cell{X: 1, Y: 1}), 8)
	assert.Len(t, r.NeighborCells(Cell{X: 0, Y: 0}), 3)
	assert.Len(t, r.NeighborCells(Cell{X: 1, Y: 0}), 5)
}

func TestNewFilled(t *testing.T) {
	t.Parallel()

	r := NewFilled(2, 2, 0, 0, 1, math.MaxFloat64)
	assert.Equal(t, math.MaxFloat64, r.At(0, 0))
	assert.Equal(t, math.MaxFloat64, r.At(1, 1))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	r := New(2, 3, 100, 200, 25)
	r.Set(Cell{X: 0, Y: 0}, 5)
	r.Set(Cell{X: 1, Y: 2}, 12.5)
	r.Set(Cell{X: 1, Y: 0}, math.MaxFloat64) // never ignited

	dir := t.TempDir()
	path := dir + "/raster.json"
	require.NoError(t, SaveJSON(r, path))

	got, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, r.XWidth, got.XWidth)
	assert.Equal(t, r.YHeight, got.YHeight)
	assert.Equal(t, r.CellWidth, got.CellWidth)
	assert.Equal(t, 5.0, got.At(0, 0))
	assert.Equal(t, 12.5, got.At(1, 2))
	assert.Equal(t, math.MaxFloat64, got.At(1, 0))
}
