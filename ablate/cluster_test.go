package ablate

import (
	"context"
	"testing"

	"github.com/rarefiedflow/ablate/geom"
	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/surf"
	"github.com/rarefiedflow/ablate/transport"
)

// idSource decrements a cell by whatever amount is keyed to its GlobalID,
// letting a test drive two differently-sharded layouts of the same domain
// with identical per-cell totals.
type idSource struct{ vals map[uint64]float64 }

func (s idSource) Frequency() int { return 1 }
func (s idSource) Value(id uint64) float64 {
	return s.vals[id]
}

func twoCellDomainConfig(nx, offX int) gridblock.Config {
	return gridblock.Config{
		Dim: 2, NX: nx, NY: 1, NCorner: 4,
		Origin: geom.Point{X: float64(offX)}, Step: geom.Point{X: 1, Y: 1},
		DomainNX: 2, DomainNY: 1, DomainNZ: 1,
		OffX: offX,
	}
}

// A Cluster sharding a 2-cell-wide domain into two 1-cell ranks must produce
// exactly the CValues a single, unsharded Driver over the whole 2-cell
// block would: the boundary corner shared between the two shards can only
// see its neighbor's decrement contribution through the Fabric.Exchange
// round, not through any local memory.
func TestClusterStepMatchesUnshardedDriver(t *testing.T) {
	deltaSource := func() idSource { return idSource{vals: map[uint64]float64{1: 4, 2: 6}} }

	block0 := gridblock.NewBlock(twoCellDomainConfig(1, 0))
	block0.Cell(1, 1, 1).CValues = []float64{10, 10, 10, 10}
	block1 := gridblock.NewBlock(twoCellDomainConfig(1, 1))
	block1.Cell(1, 1, 1).CValues = []float64{10, 10, 10, 10}

	driver0, err := NewDriver(Config{Block: block0, Store: surf.NewMemStore(), Source: deltaSource(), Thresh: 0.5, Scale: 1, Nevery: 1})
	if err != nil {
		t.Fatalf("NewDriver rank 0: %v", err)
	}
	driver1, err := NewDriver(Config{Block: block1, Store: surf.NewMemStore(), Source: deltaSource(), Thresh: 0.5, Scale: 1, Nevery: 1})
	if err != nil {
		t.Fatalf("NewDriver rank 1: %v", err)
	}

	fabric := transport.NewFabric(2)
	cluster, err := NewCluster(fabric, []*Driver{driver0, driver1})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}
	if err := cluster.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	whole := gridblock.NewBlock(gridblock.Config{
		Dim: 2, NX: 2, NY: 1, NCorner: 4,
		Origin: geom.Point{}, Step: geom.Point{X: 1, Y: 1},
		DomainNX: 2, DomainNY: 1, DomainNZ: 1,
	})
	whole.Cell(1, 1, 1).CValues = []float64{10, 10, 10, 10}
	whole.Cell(2, 1, 1).CValues = []float64{10, 10, 10, 10}
	driverW, err := NewDriver(Config{Block: whole, Store: surf.NewMemStore(), Source: deltaSource(), Thresh: 0.5, Scale: 1, Nevery: 1})
	if err != nil {
		t.Fatalf("NewDriver whole: %v", err)
	}
	if err := driverW.EndOfStep(); err != nil {
		t.Fatalf("EndOfStep whole: %v", err)
	}

	got0 := block0.Cell(1, 1, 1).CValues
	want0 := whole.Cell(1, 1, 1).CValues
	for i := range want0 {
		if got0[i] != want0[i] {
			t.Fatalf("rank 0 CValues = %v, want %v (matching unsharded cell 1)", got0, want0)
		}
	}

	got1 := block1.Cell(1, 1, 1).CValues
	want1 := whole.Cell(2, 1, 1).CValues
	for i := range want1 {
		if got1[i] != want1[i] {
			t.Fatalf("rank 1 CValues = %v, want %v (matching unsharded cell 2)", got1, want1)
		}
	}
}

// A Cluster's rank count and Driver count must agree, since fabric ranks
// and drivers are addressed by the same index throughout Step.
func TestNewClusterRejectsRankMismatch(t *testing.T) {
	fabric := transport.NewFabric(2)
	block := gridblock.NewBlock(twoCellDomainConfig(1, 0))
	block.Cell(1, 1, 1).CValues = []float64{10, 10, 10, 10}
	driver, err := NewDriver(Config{Block: block, Store: surf.NewMemStore(), Source: idSource{vals: map[uint64]float64{}}, Thresh: 0.5, Scale: 1, Nevery: 1})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if _, err := NewCluster(fabric, []*Driver{driver}); err == nil {
		t.Fatal("expected an error for a fabric/driver count mismatch")
	}
}
