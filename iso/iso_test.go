package iso

import (
	"testing"

	"github.com/rarefiedflow/ablate/geom"
	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/surf"
)

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func TestMarchSquareAllInsideProducesNoSegments(t *testing.T) {
	segs := marchSquare(1, 1, 1, 1, 0.5, 0, 1, 0, 1)
	if segs != nil {
		t.Fatalf("expected no segments, got %v", segs)
	}
}

func TestMarchSquareSingleCornerAbove(t *testing.T) {
	// only corner a=(0,0) is inside (value 1 >= t=0.5), b=c=d=0.
	segs := marchSquare(1, 0, 0, 0, 0.5, 0, 1, 0, 1)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	// ab crosses at x = lerp(0,1,1,0,0.5) = 0 + (1-0)*(0.5-1)/(0-1) = 0.5
	// ac crosses at y = lerp(0,1,1,0,0.5) = 0.5
	want := segment2{P1: geom.Point2{X: 0, Y: 0.5}, P2: geom.Point2{X: 0.5, Y: 0}}
	got := segs[0]
	if !almostEqual(got.P1.X, want.P1.X) || !almostEqual(got.P1.Y, want.P1.Y) ||
		!almostEqual(got.P2.X, want.P2.X) || !almostEqual(got.P2.Y, want.P2.Y) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestExtract2DEmptyWhenAllCellsBelowThreshold(t *testing.T) {
	cfg := gridblock.Config{Dim: 2, NX: 2, NY: 2, NCorner: 4, Origin: geom.Point{}, Step: geom.Point{X: 1, Y: 1},
		DomainNX: 2, DomainNY: 2, DomainNZ: 1}
	b := gridblock.NewBlock(cfg)
	store := surf.NewMemStore()
	Extract2D(b, 0.5, store)
	if len(store.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(store.Lines))
	}
}

func TestExtract2DSingleCellCorner(t *testing.T) {
	cfg := gridblock.Config{Dim: 2, NX: 1, NY: 1, NCorner: 4, Origin: geom.Point{}, Step: geom.Point{X: 1, Y: 1},
		DomainNX: 1, DomainNY: 1, DomainNZ: 1}
	b := gridblock.NewBlock(cfg)
	c := b.Cell(1, 1, 1)
	c.CValues[0] = 1 // corner (0,0) inside, rest fluid
	store := surf.NewMemStore()
	Extract2D(b, 0.5, store)
	if len(store.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(store.Lines))
	}
	if store.Lines[0].CellID != c.GlobalID {
		t.Fatalf("segment tagged with wrong cell id: got %d want %d", store.Lines[0].CellID, c.GlobalID)
	}
}

func TestMarchTetraSingleCornerInside(t *testing.T) {
	// Unit tetrahedron (0,0,0),(1,0,0),(0,1,0),(0,0,1); only corner 0 inside.
	p := [4]geom.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	v := [4]float64{1, 0, 0, 0}
	tris := marchTetra(p, v, 0.5)
	if len(tris) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(tris))
	}
	// Each cut edge crosses its midpoint since v goes 1 -> 0 linearly and t=0.5.
	tri := tris[0]
	for _, q := range []geom.Point{tri.P1, tri.P2, tri.P3} {
		if q.X+q.Y+q.Z != 0.5 {
			t.Fatalf("expected cut point to lie on the 0.5 iso-plane, got %+v", q)
		}
	}
}

func TestMarchTetraNoCornersInside(t *testing.T) {
	p := [4]geom.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	v := [4]float64{0, 0, 0, 0}
	if tris := marchTetra(p, v, 0.5); tris != nil {
		t.Fatalf("expected no triangles, got %v", tris)
	}
}

func TestMarchTetraTwoCornersInsideProducesQuad(t *testing.T) {
	p := [4]geom.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	v := [4]float64{1, 1, 0, 0}
	tris := marchTetra(p, v, 0.5)
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles (split quad), got %d", len(tris))
	}
}

func TestMarchCubeAllInsideProducesNoTriangles(t *testing.T) {
	box := geom.Box{Lo: geom.Point{}, Hi: geom.Point{X: 1, Y: 1, Z: 1}}
	var values [8]float64
	for i := range values {
		values[i] = 1
	}
	if tris := marchCube(box.Vertices(), values, 0.5); tris != nil {
		t.Fatalf("expected no triangles, got %v", tris)
	}
}

func TestMarchCubeSingleCornerAboveProducesTriangles(t *testing.T) {
	box := geom.Box{Lo: geom.Point{}, Hi: geom.Point{X: 1, Y: 1, Z: 1}}
	var values [8]float64
	values[0] = 1 // corner (0,0,0) inside; every other corner fluid.
	tris := marchCube(box.Vertices(), values, 0.5)
	if len(tris) == 0 {
		t.Fatalf("expected at least one triangle")
	}
	// Corner 0 participates in every tetrahedron (fixed diagonal endpoint),
	// so each one classifies as a single-corner-inside cut.
	if len(tris) != len(tetraSplit) {
		t.Fatalf("expected one triangle per tetrahedron touching corner 0, got %d", len(tris))
	}
}

func TestExtract3DReconcilesConsistentGrid(t *testing.T) {
	cfg := gridblock.Config{Dim: 3, NX: 2, NY: 1, NZ: 1, NCorner: 8, Origin: geom.Point{}, Step: geom.Point{X: 1, Y: 1, Z: 1},
		DomainNX: 2, DomainNY: 1, DomainNZ: 1}
	b := gridblock.NewBlock(cfg)
	// Uniform field: every corner of every cell is well above threshold, so
	// the two owned cells' shared face values trivially agree.
	b.OwnedCells(func(c *gridblock.Cell) {
		for i := range c.CValues {
			c.CValues[i] = 1
		}
	})
	store := surf.NewMemStore()
	if _, err := Extract3D(b, 0.5, store); err != nil {
		t.Fatalf("unexpected reconcile error: %v", err)
	}
	if len(store.Tris) != 0 {
		t.Fatalf("expected no triangles for a fully solid grid, got %d", len(store.Tris))
	}
}
