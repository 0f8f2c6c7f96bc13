package ablate

import (
	"context"
	"fmt"

	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/transport"
)

// Cluster runs one sharded simulation: every Driver owns a contiguous
// X-slice of the whole domain (ablatecfg.ShardX) and corresponds to exactly
// one transport.Fabric rank. Sharding means a stencil corner at a shard
// boundary needs the neighbor rank's decrement contribution before it can
// be synced correctly — Cluster.Step hands that contribution across with
// Fabric.Exchange instead of reading it out of another rank's memory,
// matching spec.md §5's "communicating by explicit message passing (never
// shared corner-value memory)".
type Cluster struct {
	Fabric  *transport.Fabric
	Drivers []*Driver
}

// NewCluster pairs fabric with drivers, rank for rank. drivers[r] must own
// the shard whose gridblock.Config.OffX places it at rank r's position in
// the fabric's ordering (ShardX guarantees this).
func NewCluster(fabric *transport.Fabric, drivers []*Driver) (*Cluster, error) {
	if fabric.Ranks() != len(drivers) {
		return nil, fmt.Errorf("%w: fabric has %d ranks, got %d drivers", ErrConfigError, fabric.Ranks(), len(drivers))
	}
	return &Cluster{Fabric: fabric, Drivers: drivers}, nil
}

// Step runs one end-of-step across every rank in the cluster. Each driver
// first computes its own owned-cell decrements in isolation; the two
// columns of cells bordering a neighbor rank's shard then hand their delta
// contributions to that rank as transport.Messages through a single
// Fabric.Exchange round, so every rank's stencil sum at the shard boundary
// sees the same total a single, unsharded Driver would compute locally.
// Only once every rank has both its own and its neighbors' contributions
// does any rank apply, snap, or resurface.
func (cl *Cluster) Step(ctx context.Context) error {
	local := make([]map[uint64][]float64, len(cl.Drivers))
	for r, d := range cl.Drivers {
		local[r] = d.computeDeltas()
	}

	incoming, err := cl.Fabric.Exchange(ctx, func(rank int) ([]transport.Message, error) {
		return cl.boundaryMessages(rank, local[rank]), nil
	})
	if err != nil {
		return fmt.Errorf("ablate: cluster exchange: %w", err)
	}

	for r, d := range cl.Drivers {
		for _, m := range incoming[r] {
			local[r][m.CellID] = m.CDelta
		}
		if err := d.syncAndResurface(local[r]); err != nil {
			return fmt.Errorf("ablate: cluster step rank %d: %w", r, err)
		}
	}
	return nil
}

// boundaryMessages returns the messages rank must send so its X-neighbor
// ranks can fold this rank's edge-column deltas into their own stencil sum.
// It is keyed by the sending cell's own GlobalID: syncCorner looks up a
// neighbor's contribution by that same id, and ids are computed from
// absolute domain coordinates, so a ghost cell's id on one rank always
// matches the owning rank's id for the real cell.
func (cl *Cluster) boundaryMessages(rank int, deltas map[uint64][]float64) []transport.Message {
	b := cl.Drivers[rank].cfg.Block
	cfg := b.Config()
	var msgs []transport.Message

	if cfg.OffX > 0 {
		msgs = append(msgs, columnMessages(b, uint64(rank), uint64(rank-1), 1, deltas)...)
	}
	if cfg.OffX+cfg.NX < cfg.DomainNX {
		msgs = append(msgs, columnMessages(b, uint64(rank), uint64(rank+1), cfg.NX, deltas)...)
	}
	return msgs
}

// columnMessages builds one Message per cell in local-X column ix, carrying
// that cell's already-computed delta to rank to.
func columnMessages(b *gridblock.Block, from, to uint64, ix int, deltas map[uint64][]float64) []transport.Message {
	cfg := b.Config()
	nz := cfg.NZ
	if cfg.Dim == 2 {
		nz = 1
	}
	var msgs []transport.Message
	for iz := 1; iz <= nz; iz++ {
		for iy := 1; iy <= cfg.NY; iy++ {
			c := b.Cell(ix, iy, iz)
			msgs = append(msgs, transport.Message{From: from, To: to, CellID: c.GlobalID, CDelta: deltas[c.GlobalID]})
		}
	}
	return msgs
}
