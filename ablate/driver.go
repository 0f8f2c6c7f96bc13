package ablate

import (
	"fmt"

	"github.com/rarefiedflow/ablate/cut3d"
	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/iso"
)

// Driver runs the decrement/sync/re-surface pipeline for one rank's grid
// block, corresponding to one FixAblate instance.
type Driver struct {
	cfg       Config
	log       logger
	lastCount int
	splitter  *cut3d.Splitter
}

// SurfaceElementCount returns the number of surface elements the most
// recent resurface pass produced (owned lines in 2D, owned triangles in
// 3D) — the local contribution to spec.md §6's nsurf_global reduction.
func (d *Driver) SurfaceElementCount() int { return d.lastCount }

type logger interface {
	Printf(format string, v ...any)
}

// NewDriver validates cfg and returns a ready Driver. The initial corner
// values already present in cfg.Block are used as-is and are not snapped
// near thresh — snapping only ever happens as a side effect of sync, never
// on data the caller loaded itself (spec's "do not guess intent").
func NewDriver(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	d := &Driver{cfg: cfg, log: cfg.Logger, splitter: cut3d.NewSplitter()}
	if err := d.resurface(); err != nil {
		return nil, fmt.Errorf("ablate: initial surface build: %w", err)
	}
	return d, nil
}

// EndOfStep runs one full step for a lone, unsharded Driver: pull each
// owned cell's decrement amount from the configured Source, apply and
// synchronize it across every cell sharing a corner, snap near-threshold
// corners, and rebuild the implicit surface. Ported from
// FixAblate::end_of_step (fix_ablate.cpp:359). A Driver running as part of
// a Cluster does not call this directly — Cluster.Step calls computeDeltas
// and syncAndResurface itself, splicing in the neighbor ranks' boundary
// contributions between the two.
func (d *Driver) EndOfStep() error {
	if err := d.syncAndResurface(d.computeDeltas()); err != nil {
		return fmt.Errorf("ablate: end of step: %w", err)
	}
	return nil
}

// computeDeltas pulls this step's decrement amount for every owned cell
// from the configured Source and applies FixAblate::decrement to each,
// without yet folding in any neighbor's stencil contribution or touching
// corner values.
func (d *Driver) computeDeltas() map[uint64][]float64 {
	deltas := make(map[uint64][]float64)
	d.cfg.Block.OwnedCells(func(c *gridblock.Cell) {
		total := d.cfg.Scale * d.cfg.Source.Value(c.GlobalID)
		if total < 0 {
			total = 0
		}
		deltas[c.GlobalID] = decrementCell(c, total)
	})
	return deltas
}

// syncAndResurface folds deltas (this rank's own computeDeltas result, plus
// any neighbor-rank boundary contributions a Cluster has merged in by
// global cell id) into corner values via the stencil sum, snaps
// near-threshold corners, and rebuilds the implicit surface.
func (d *Driver) syncAndResurface(deltas map[uint64][]float64) error {
	syncBlock(d.cfg.Block, deltas, d.cfg.Thresh)
	if err := d.resurface(); err != nil {
		return err
	}
	d.log.Printf("ablate: end of step complete, %d owned cells", d.ownedCount())
	return nil
}

// resurface clears the surface store and rebuilds it by marching the
// current corner values, matching FixAblate::create_surfs's
// clear/invoke/set_count sequence (fix_ablate.cpp:378-402). In 3D, once ISO
// has regenerated the explicit triangles, CUT3D re-clips every owned cell
// against them to recompute its split topology and sub-volumes (spec.md
// §4.7 step 5).
func (d *Driver) resurface() error {
	store := d.cfg.Store
	store.Clear()

	var elems int
	if d.cfg.Block.Config().Dim == 2 {
		elems = iso.Extract2D(d.cfg.Block, d.cfg.Thresh, store)
	} else {
		var err error
		elems, err = iso.Extract3D(d.cfg.Block, d.cfg.Thresh, store)
		if err != nil {
			return err
		}
		if err := d.splitCells(); err != nil {
			return err
		}
	}

	d.lastCount = elems
	store.SetCount(elems, elems, elems) // this rank's own local == owned count; the global figure is a Cluster/Fabric.Allreduce concern
	return nil
}

// splitCells re-derives every owned cell's marching-cubes triangles (the
// same ones resurface just wrote to the store) and feeds them through CUT3D
// to recompute the cell's split-polyhedron topology, persisting the result
// onto the gridblock.Cell. A cell ISO found no surface in still runs
// through Split with an empty triangle list, which cheaply resets it back
// to a single whole-cell polyhedron once it heals.
func (d *Driver) splitCells() error {
	cfg := d.cfg.Block.Config()
	var splitErr error
	d.cfg.Block.OwnedCells(func(c *gridblock.Cell) {
		if splitErr != nil {
			return
		}
		box := iso.CellBox3D(cfg, c)
		elems := iso.Elements3D(cfg, c, d.cfg.Thresh)
		tris := make([]cut3d.Tri, len(elems))
		for i, e := range elems {
			tris[i] = cut3d.Tri{P1: e.P1, P2: e.P2, P3: e.P3, Norm: e.Norm}
		}

		res, err := d.splitter.Split(int64(c.GlobalID), box.Lo, box.Hi, tris)
		if err != nil {
			splitErr = fmt.Errorf("ablate: split cell %d: %w", c.GlobalID, err)
			return
		}

		c.NSplit = res.NSplit
		c.Split = res.NSplit > 1
		c.Volumes = append(c.Volumes[:0], res.Volumes...)
		for i, corner := range res.Corners {
			c.CornerOut[i] = corner == cut3d.Outside
		}
	})
	return splitErr
}

func (d *Driver) ownedCount() int {
	n := 0
	d.cfg.Block.OwnedCells(func(*gridblock.Cell) { n++ })
	return n
}

// CellRecord is the migration payload for one cell: FixAblate's per-cell
// corner values plus optional surface-type tags (fix_ablate.cpp doesn't
// serialize split-cell state beyond corner/type arrays, since sub-cells all
// share their parent's corner values).
type CellRecord struct {
	IX, IY, IZ int
	CValues    []float64
	TValues    []int
}

// Pack copies a cell's corner/type state into a migration record.
func (d *Driver) Pack(c *gridblock.Cell) CellRecord {
	rec := CellRecord{IX: c.IX, IY: c.IY, IZ: c.IZ, CValues: append([]float64(nil), c.CValues...)}
	if c.TValues != nil {
		rec.TValues = append([]int(nil), c.TValues...)
	}
	return rec
}

// Unpack writes a migration record's corner/type state into the local
// block cell at the record's coordinates.
func (d *Driver) Unpack(rec CellRecord) {
	c := d.cfg.Block.Cell(rec.IX, rec.IY, rec.IZ)
	c.CValues = append([]float64(nil), rec.CValues...)
	if rec.TValues != nil {
		c.TValues = append([]int(nil), rec.TValues...)
	}
}

// Copy duplicates src's corner/type state onto dst, used when a split
// cell's sub-cells are combined back into their parent.
func (d *Driver) Copy(dst, src *gridblock.Cell) {
	dst.CValues = append([]float64(nil), src.CValues...)
	if src.TValues != nil {
		dst.TValues = append([]int(nil), src.TValues...)
	} else {
		dst.TValues = nil
	}
}

// AddGridOne is the hook FixAblate::grow_percell corresponds to: growing
// per-cell storage when the grid gains a cell (refinement, migration of a
// new owned cell). gridblock.Block allocates its whole padded array up
// front and this module carries no adaptive refinement (spec's grid-block
// scope is the fixed regular brick), so there is never a cell to grow into
// and this is unreachable in practice; it exists so callers migrating from
// an AMR-capable caller have a named seam to call.
func (d *Driver) AddGridOne() error {
	return fmt.Errorf("%w: grid growth is not supported by a fixed regular brick", ErrConfigError)
}
