package ablate

import (
	"errors"
	"testing"

	"github.com/rarefiedflow/ablate/geom"
	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/surf"
)

type constSource struct {
	v    float64
	freq int
}

func (s constSource) Frequency() int {
	if s.freq <= 0 {
		return 1
	}
	return s.freq
}

func (s constSource) Value(uint64) float64 { return s.v }

func oneCellBlock2D() *gridblock.Block {
	cfg := gridblock.Config{
		Dim: 2, NX: 1, NY: 1, NCorner: 4,
		Origin: geom.Point{}, Step: geom.Point{X: 1, Y: 1},
		DomainNX: 1, DomainNY: 1, DomainNZ: 1,
	}
	return gridblock.NewBlock(cfg)
}

func TestDecrementCellPicksSmallestPositiveFirst(t *testing.T) {
	c := &gridblock.Cell{CValues: []float64{5, 2, 8, 1}}
	got := decrementCell(c, 6)
	want := []float64{3, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cdelta = %v, want %v", got, want)
		}
	}
}

func TestDecrementCellNoOpWhenAllCornersZero(t *testing.T) {
	c := &gridblock.Cell{CValues: []float64{0, 0, 0, 0}}
	got := decrementCell(c, 5)
	for _, v := range got {
		if v != 0 {
			t.Fatalf("expected no decrement, got %v", got)
		}
	}
}

func TestNewDriverRejectsNeveryNotMultipleOfSourceFrequency(t *testing.T) {
	b := oneCellBlock2D()
	_, err := NewDriver(Config{
		Block: b, Store: surf.NewMemStore(), Source: constSource{freq: 3},
		Thresh: 0.5, Scale: 1, Nevery: 4,
	})
	if !errors.Is(err, ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}

func TestNewDriverBuildsInitialSurface(t *testing.T) {
	b := oneCellBlock2D()
	c := b.Cell(1, 1, 1)
	c.CValues[0] = 1 // corner (0,0) inside, rest fluid

	store := surf.NewMemStore()
	_, err := NewDriver(Config{
		Block: b, Store: store, Source: constSource{freq: 1},
		Thresh: 0.5, Scale: 1, Nevery: 1,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if len(store.Lines) != 1 {
		t.Fatalf("expected 1 boundary segment from the initial build, got %d", len(store.Lines))
	}
}

func TestEndOfStepAppliesDecrementToLowestCornerOnly(t *testing.T) {
	b := oneCellBlock2D()
	c := b.Cell(1, 1, 1)
	for i := range c.CValues {
		c.CValues[i] = 10
	}

	store := surf.NewMemStore()
	d, err := NewDriver(Config{
		Block: b, Store: store, Source: constSource{v: 4, freq: 1},
		Thresh: 0.5, Scale: 1, Nevery: 1,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	if err := d.EndOfStep(); err != nil {
		t.Fatalf("EndOfStep: %v", err)
	}

	want := []float64{6, 10, 10, 10}
	for i, w := range want {
		if c.CValues[i] != w {
			t.Fatalf("CValues = %v, want %v", c.CValues, want)
		}
	}
}

func TestEndOfStepClampsDecrementBelowZero(t *testing.T) {
	b := oneCellBlock2D()
	c := b.Cell(1, 1, 1)
	c.CValues = []float64{3, 3, 3, 3}

	store := surf.NewMemStore()
	d, err := NewDriver(Config{
		Block: b, Store: store, Source: constSource{v: 100, freq: 1},
		Thresh: 0.5, Scale: 1, Nevery: 1,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if err := d.EndOfStep(); err != nil {
		t.Fatalf("EndOfStep: %v", err)
	}
	// decrementCell keeps zeroing the smallest positive corner until total
	// is exhausted; with all four corners equal to 3 and total 100 every
	// corner is fully consumed, leaving all four at exactly zero.
	for i, v := range c.CValues {
		if v != 0 {
			t.Fatalf("CValues[%d] = %v, want 0", i, v)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	b := oneCellBlock2D()
	c := b.Cell(1, 1, 1)
	c.CValues = []float64{1, 2, 3, 4}

	store := surf.NewMemStore()
	d, err := NewDriver(Config{
		Block: b, Store: store, Source: constSource{freq: 1},
		Thresh: 0.5, Scale: 1, Nevery: 1,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	rec := d.Pack(c)
	c.CValues[0] = 99 // mutate the live cell to prove Pack took a copy
	d.Unpack(rec)

	want := []float64{1, 2, 3, 4}
	for i, w := range want {
		if c.CValues[i] != w {
			t.Fatalf("after Unpack, CValues = %v, want %v", c.CValues, want)
		}
	}
}

func TestAddGridOneReportsUnsupported(t *testing.T) {
	b := oneCellBlock2D()
	store := surf.NewMemStore()
	d, err := NewDriver(Config{
		Block: b, Store: store, Source: constSource{freq: 1},
		Thresh: 0.5, Scale: 1, Nevery: 1,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if err := d.AddGridOne(); !errors.Is(err, ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}
