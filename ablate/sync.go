package ablate

import (
	"math"

	"github.com/rarefiedflow/ablate/gridblock"
)

// epsilon is the corner-to-threshold snap distance, on the same 0..255
// corner-value scale as the original (fix_ablate.cpp:49).
const epsilon = 1e-4

// syncCorner ports the per-corner stencil sum inside FixAblate::sync
// (fix_ablate.cpp:900-961): corner i of cell (ix,iy,iz) is shared by the
// 2x2x2 (2D: 2x2x1) block of cells whose low corner is offset
// (ixfirst,iyfirst,izfirst) from (ix,iy,iz); jcorner descends from ncorner
// so every rank sums contributions in the same order regardless of which
// cell it owns, keeping the reduction bit-identical everywhere. Cells that
// fall outside the grid (WalkNeighbor error) contribute nothing.
func syncCorner(b *gridblock.Block, deltas map[uint64][]float64, c *gridblock.Cell, corner int) float64 {
	dim := b.Config().Dim
	ncorner := len(c.CValues)

	ixfirst := (corner % 2) - 1
	iyfirst := (corner/2%2) - 1
	izfirst := 0
	if dim == 3 {
		izfirst = corner/4 - 1
	}

	total := 0.0
	jcorner := ncorner
	for jz := izfirst; jz <= izfirst+1; jz++ {
		for jy := iyfirst; jy <= iyfirst+1; jy++ {
			for jx := ixfirst; jx <= ixfirst+1; jx++ {
				jcorner--
				neigh, err := b.WalkNeighbor(c.IX, c.IY, c.IZ, jx, jy, jz)
				if err != nil {
					continue
				}
				nd, ok := deltas[neigh.GlobalID]
				if !ok || jcorner < 0 || jcorner >= len(nd) {
					continue
				}
				total += nd[jcorner]
			}
		}
	}
	return total
}

// syncBlock applies every owned cell's stencil-summed decrement to its
// corner values, clamped to zero, then snaps any corner left within
// epsilon of thresh (fix_ablate.cpp:968).
func syncBlock(b *gridblock.Block, deltas map[uint64][]float64, thresh float64) {
	b.OwnedCells(func(c *gridblock.Cell) {
		for i := range c.CValues {
			total := syncCorner(b, deltas, c, i)
			if total > c.CValues[i] {
				c.CValues[i] = 0
			} else {
				c.CValues[i] -= total
			}
		}
	})
	b.OwnedCells(func(c *gridblock.Cell) {
		for i, v := range c.CValues {
			if math.Abs(v-thresh) < epsilon {
				c.CValues[i] = thresh - epsilon
			}
		}
	})
}
