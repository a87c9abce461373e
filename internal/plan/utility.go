package plan

import (
	"container/heap"
	"math"

	"github.com/banshee-data/firewatch/internal/raster"
)

// Utility is the sum of the finite cells of the utility map. Lower is
// better: an unobserved possible observation contributes up to MaxUtility,
// a covered one contributes MinUtility.
func (p *Plan) Utility() float64 {
	u := p.UtilityMap()
	total := 0.0
	for x := 0; x < u.XWidth; x++ {
		for y := 0; y < u.YHeight; y++ {
			if v := u.At(x, y); !math.IsNaN(v) {
				total += v
			}
		}
	}
	return total
}

// UtilityMap scores every possible observation by its distance to the
// closest realized observation. Cells that are not possible observations
// stay NaN.
func (p *Plan) UtilityMap() *raster.Raster {
	return p.utilityRadial()
}

// utilityRadial normalizes the distance from each possible observation to
// its closest observation: MinUtility at the redundant-observation
// distance or closer, MaxUtility at the maximum informative distance,
// linear in between.
func (p *Plan) utilityRadial() *raster.Raster {
	redundant := p.params.RedundantObsDist
	informative := p.params.MaxInformativeDistance

	uMap := p.fire.Ignitions.CloneFilled(math.NaN())
	done := p.ObservationsFull()
	for _, possible := range p.PossibleObservations {
		minDist := informative * informative
		for _, obs := range done {
			if d := possible.Pt.DistSquared(obs.Pt); d < minDist {
				minDist = d
			}
		}
		u := (math.Max(math.Sqrt(minDist), redundant) - redundant) / (informative - redundant)
		uMap.Set(uMap.CellOf(possible.Pt), u)
	}
	return uMap
}

// cellHeap is a min-heap of cells keyed by ignition time.
type cellHeap struct {
	cells []raster.Cell
	key   *raster.Raster
}

func (h *cellHeap) Len() int           { return len(h.cells) }
func (h *cellHeap) Less(i, j int) bool { return h.key.Get(h.cells[i]) < h.key.Get(h.cells[j]) }
func (h *cellHeap) Swap(i, j int)      { h.cells[i], h.cells[j] = h.cells[j], h.cells[i] }

func (h *cellHeap) Push(x any) {
	h.cells = append(h.cells, x.(raster.Cell))
}

func (h *cellHeap) Pop() any {
	last := len(h.cells) - 1
	c := h.cells[last]
	h.cells = h.cells[:last]
	return c
}

// UtilityMapPropagation is the experimental alternative to the radial
// utility: observed cells start at MinUtility and a degressive gain of
// the utility increment per cell spreads along the ignition front, oldest
// cells first.
func (p *Plan) UtilityMapPropagation() *raster.Raster {
	inc := p.params.UtilityIncrement
	ign := p.fire.Ignitions
	uMap := ign.CloneFilled(math.NaN())

	// Observable cells start at MaxUtility, everything else stays NaN.
	for _, possible := range p.PossibleObservations {
		uMap.Set(uMap.CellOf(possible.Pt), MaxUtility)
	}

	q := &cellHeap{key: ign}
	for _, obs := range p.ObservationsFull() {
		c := uMap.CellOf(obs.Pt)
		uMap.Set(c, MinUtility)
		heap.Push(q, c)
	}

	for q.Len() > 0 {
		c := heap.Pop(q).(raster.Cell)
		for _, n := range uMap.NeighborCells(c) {
			// Not observable.
			if math.IsNaN(uMap.Get(n)) {
				continue
			}
			// Older than the propagating cell.
			if ign.Get(n) < ign.Get(c) {
				continue
			}
			// Already at least as useful as the degraded value.
			if uMap.Get(n) <= uMap.Get(c)+inc {
				continue
			}
			degraded := uMap.Get(c) + inc
			if degraded < MaxUtility {
				uMap.Set(n, degraded)
				heap.Push(q, n)
			} else {
				// Fully degraded: stop propagating through this cell.
				uMap.Set(n, MaxUtility)
			}
		}
	}
	return uMap
}
