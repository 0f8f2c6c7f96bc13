// Package gridblock implements the uniform structured block of cells ABLATE
// and ISO operate over: a regular brick of owned cells surrounded by a
// one-deep ghost ring, addressed by process-local index, by (ix,iy,iz), or
// by a 64-bit global id stable across the whole domain.
//
// Neighbor relations and the WalkNeighbor axis-by-axis walk are a direct
// re-expression of FixAblate::walk_to_neigh (original_source
// fix_ablate.cpp:989), adapted from SPARTA's general (possibly-AMR) grid
// hierarchy down to one regular, non-adaptive brick per rank: instead of
// decoding a per-face nmask, each axis step is checked directly against the
// whole simulation domain's extent.
package gridblock

import (
	"errors"
	"fmt"

	"github.com/rarefiedflow/ablate/geom"
)

// Face indices into Cell.Neigh/NeighRel, matching Cut3d's face numbering.
const (
	XLO = iota
	XHI
	YLO
	YHI
	ZLO
	ZHI
)

// Relation mirrors SPARTA's neigh_decode outcome enum (fix_ablate.cpp:52),
// trimmed to the two values a non-adaptive regular brick can produce.
type Relation int

const (
	NCHILD Relation = iota
	NBOUND
)

func (r Relation) String() string {
	if r == NCHILD {
		return "NCHILD"
	}
	return "NBOUND"
}

// ErrNeighborInvariant is returned by WalkNeighbor when a requested step
// crosses the domain boundary or the block's ghost ring.
var ErrNeighborInvariant = errors.New("gridblock: walk to neighbor cell failed")

// Cell is one process-local cell, owned or ghost.
type Cell struct {
	GlobalID   uint64
	IX, IY, IZ int // local indices; 0 and N+1 are the ghost ring
	Owned      bool

	CValues []float64 // len NCorner, corner i is (i%2, i/2%2, i/4) in (x,y,z)
	TValues []int     // optional per-cell surface-type tag, nil if unused

	// Split-cell topology, populated by CUT3D after a resurface pass over a
	// 3D block; zero-valued (NSplit==0, Volumes nil) until the first pass.
	// After a pass an uncut cell has NSplit==1 and Volumes holding its full
	// box volume.
	Split     bool
	NSplit    int
	Volumes   []float64 // one entry per sub-polyhedron, len NSplit
	CornerOut [8]bool   // true when CUT3D reported corner i as cut3d.Outside (an endpoint of an active clipped-graph edge)
}

// Config describes one rank's owned sub-brick within a larger domain.
type Config struct {
	Dim              int // 2 or 3
	NX, NY, NZ       int // this rank's owned extent (NZ ignored, treated as 1, when Dim==2)
	NCorner          int // 4 (Dim==2) or 8 (Dim==3)
	Origin           geom.Point
	Step             geom.Point
	DomainNX         int // total domain extent, for global id and boundary checks
	DomainNY         int
	DomainNZ         int
	OffX, OffY, OffZ int // absolute (0-based) index of this rank's local (1,1,1) cell
}

// Block is a regular brick of cells with a one-deep ghost ring.
type Block struct {
	cfg   Config
	cells []Cell
	index map[uint64]int // global id -> local padded index, populated as ghosts arrive
}

func (c Config) nz() int {
	if c.Dim == 2 {
		return 1
	}
	return c.NZ
}

func (c Config) domainNZ() int {
	if c.Dim == 2 {
		return 1
	}
	return c.DomainNZ
}

// NewBlock allocates a Block with every owned cell active and zeroed, and
// no ghosts populated yet.
func NewBlock(cfg Config) *Block {
	nz := cfg.nz()
	n := (cfg.NX + 2) * (cfg.NY + 2) * (nz + 2)
	b := &Block{cfg: cfg, cells: make([]Cell, n), index: make(map[uint64]int)}

	for iz := 0; iz <= nz+1; iz++ {
		for iy := 0; iy <= cfg.NY+1; iy++ {
			for ix := 0; ix <= cfg.NX+1; ix++ {
				li := b.localIndex(ix, iy, iz)
				c := &b.cells[li]
				c.IX, c.IY, c.IZ = ix, iy, iz
				c.Owned = ix >= 1 && ix <= cfg.NX && iy >= 1 && iy <= cfg.NY && iz >= 1 && iz <= nz
				c.GlobalID = b.globalID(ix, iy, iz)
				if c.Owned {
					c.CValues = make([]float64, cfg.NCorner)
					b.index[c.GlobalID] = li
				}
			}
		}
	}
	return b
}

func (b *Block) localIndex(ix, iy, iz int) int {
	return (iz*(b.cfg.NY+2)+iy)*(b.cfg.NX+2) + ix
}

// absCoord returns the coordinate of local index ix along an axis, in the
// whole domain's absolute 0-based numbering.
func absCoord(ix, off int) int { return off + ix - 1 }

func (b *Block) globalID(ix, iy, iz int) uint64 {
	ax := absCoord(ix, b.cfg.OffX)
	ay := absCoord(iy, b.cfg.OffY)
	az := absCoord(iz, b.cfg.OffZ)
	if ax < 0 || ay < 0 || az < 0 {
		return 0 // outside the domain entirely; never a valid owned/ghost id
	}
	return uint64(az)*uint64(b.cfg.DomainNY)*uint64(b.cfg.DomainNX) +
		uint64(ay)*uint64(b.cfg.DomainNX) + uint64(ax) + 1
}

// Config returns the block's configuration.
func (b *Block) Config() Config { return b.cfg }

// Cell returns the local cell at (ix,iy,iz), which may be an owned or
// ghost slot.
func (b *Block) Cell(ix, iy, iz int) *Cell {
	return &b.cells[b.localIndex(ix, iy, iz)]
}

// CellByGlobalID resolves a global id to its local index via the hash built
// as owned cells are allocated and ghosts are received, or -1 if unknown to
// this rank.
func (b *Block) CellByGlobalID(id uint64) (*Cell, int, bool) {
	li, ok := b.index[id]
	if !ok {
		return nil, -1, false
	}
	return &b.cells[li], li, true
}

// SetGhost records a ghost copy of a remote cell's corner values, received
// over transport, and indexes it by global id for future lookups.
func (b *Block) SetGhost(ix, iy, iz int, globalID uint64, cvalues []float64) {
	li := b.localIndex(ix, iy, iz)
	c := &b.cells[li]
	c.GlobalID = globalID
	c.CValues = cvalues
	b.index[globalID] = li
}

// OwnedCells iterates every owned cell in (z,y,x)-major order.
func (b *Block) OwnedCells(fn func(c *Cell)) {
	nz := b.cfg.nz()
	for iz := 1; iz <= nz; iz++ {
		for iy := 1; iy <= b.cfg.NY; iy++ {
			for ix := 1; ix <= b.cfg.NX; ix++ {
				fn(b.Cell(ix, iy, iz))
			}
		}
	}
}

// WalkNeighbor steps from cell (ix,iy,iz) by offset (jx,jy,jz), one axis at
// a time (x, then y, then z), requiring the domain to actually extend that
// far along each axis that moves. Ported from FixAblate::walk_to_neigh.
func (b *Block) WalkNeighbor(ix, iy, iz, jx, jy, jz int) (*Cell, error) {
	if jx < 0 {
		if err := b.checkStep(ix-1, b.cfg.OffX, b.cfg.NX, b.cfg.DomainNX, "XLO"); err != nil {
			return nil, err
		}
		ix--
	} else if jx > 0 {
		if err := b.checkStep(ix+1, b.cfg.OffX, b.cfg.NX, b.cfg.DomainNX, "XHI"); err != nil {
			return nil, err
		}
		ix++
	}

	if jy < 0 {
		if err := b.checkStep(iy-1, b.cfg.OffY, b.cfg.NY, b.cfg.DomainNY, "YLO"); err != nil {
			return nil, err
		}
		iy--
	} else if jy > 0 {
		if err := b.checkStep(iy+1, b.cfg.OffY, b.cfg.NY, b.cfg.DomainNY, "YHI"); err != nil {
			return nil, err
		}
		iy++
	}

	if jz < 0 {
		if err := b.checkStep(iz-1, b.cfg.OffZ, b.cfg.nz(), b.cfg.domainNZ(), "ZLO"); err != nil {
			return nil, err
		}
		iz--
	} else if jz > 0 {
		if err := b.checkStep(iz+1, b.cfg.OffZ, b.cfg.nz(), b.cfg.domainNZ(), "ZHI"); err != nil {
			return nil, err
		}
		iz++
	}

	return b.Cell(ix, iy, iz), nil
}

// checkStep reports the relation of stepping to local coordinate ix along
// one axis: NBOUND (and an error) if that step leaves either the whole
// simulation domain or this rank's one-deep ghost ring, NCHILD otherwise.
func (b *Block) checkStep(ix, off, n, domainN int, face string) error {
	if ix < 0 || ix > n+1 {
		return fmt.Errorf("%w: %s beyond ghost ring", ErrNeighborInvariant, face)
	}
	abs := absCoord(ix, off)
	if abs < 0 || abs >= domainN {
		return fmt.Errorf("%w: %s is domain boundary (%s)", ErrNeighborInvariant, face, NBOUND)
	}
	return nil
}

// FaceCorners returns the 4 corner indices (in the block's 0..NCorner-1,
// (x,y,z) bit-packed convention) that lie on the given face of a 3D cell.
func FaceCorners(face int) [4]int {
	switch face {
	case XLO:
		return [4]int{0, 2, 4, 6}
	case XHI:
		return [4]int{1, 3, 5, 7}
	case YLO:
		return [4]int{0, 1, 4, 5}
	case YHI:
		return [4]int{2, 3, 6, 7}
	case ZLO:
		return [4]int{0, 1, 2, 3}
	default: // ZHI
		return [4]int{4, 5, 6, 7}
	}
}

// GhostCorners returns cell c's corner values on the given face, in the
// same 2x2 order iso.Extract2D expects: (lo,lo), (hi,lo), (lo,hi), (hi,hi)
// in the face's own two in-plane axes.
func (c *Cell) GhostCorners(face int) [4]float64 {
	idx := FaceCorners(face)
	return [4]float64{c.CValues[idx[0]], c.CValues[idx[1]], c.CValues[idx[2]], c.CValues[idx[3]]}
}
