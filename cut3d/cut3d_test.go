package cut3d

import (
	"testing"

	"github.com/rarefiedflow/ablate/geom"
)

func pt(x, y, z float64) geom.Point { return geom.Point{X: x, Y: y, Z: z} }

func TestSurfToGridRejectsBoundingBoxMiss(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	tris := []Tri{
		{P1: pt(5, 5, 5), P2: pt(6, 5, 5), P3: pt(5, 6, 5)},
	}
	got := SurfToGrid(lo, hi, tris)
	if len(got) != 0 {
		t.Fatalf("got %v, want no hits", got)
	}
}

func TestSurfToGridAcceptsOverlappingTriangle(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	tris := []Tri{
		{P1: pt(-1, 0.5, 0.5), P2: pt(2, 0.5, 0.5), P3: pt(0.5, 2, 0.5)},
	}
	got := SurfToGrid(lo, hi, tris)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("got %v, want [0]", got)
	}
}

func TestClipTriangleNonEmptyFullyInside(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	if !clipTriangleNonEmpty(pt(0.2, 0.2, 0.2), pt(0.5, 0.2, 0.2), pt(0.2, 0.5, 0.2), lo, hi) {
		t.Fatal("expected an interior triangle to overlap the cell")
	}
}

func TestClipTriangleNonEmptyFullyOutside(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	if clipTriangleNonEmpty(pt(5, 5, 5), pt(6, 5, 5), pt(5, 6, 5), lo, hi) {
		t.Fatal("expected a distant triangle not to overlap the cell")
	}
}

func TestClipTriangleNonEmptyStraddling(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	// A large triangle whose plane passes through the cell but whose
	// vertices lie well outside it in every direction.
	if !clipTriangleNonEmpty(pt(-5, 0.5, 0.5), pt(5, -5, 0.5), pt(5, 5, 0.5), lo, hi) {
		t.Fatal("expected a straddling triangle to overlap the cell")
	}
}

func TestIsFlipFace(t *testing.T) {
	want := map[int]bool{0: true, 1: false, 2: false, 3: true, 4: true, 5: false}
	for iface, w := range want {
		if got := isFlipFace(iface); got != w {
			t.Errorf("isFlipFace(%d) = %v, want %v", iface, got, w)
		}
	}
}

func TestFaceFromCellCompressExpandRoundTrip(t *testing.T) {
	lo, hi := pt(-1, -2, -3), pt(4, 5, 6)
	p := pt(1, 2, 3)
	for iface := 0; iface < 6; iface++ {
		lo2d, hi2d := faceFromCell(iface, lo, hi)
		if lo2d.X > hi2d.X || lo2d.Y > hi2d.Y {
			t.Errorf("face %d: lo2d %v not <= hi2d %v", iface, lo2d, hi2d)
		}
		value := faceValue(iface, lo, hi)
		p2d := compress2d(iface, p)
		back := expand2d(iface, value, p2d)
		// expand2d substitutes the face's fixed axis with value, so the
		// round trip must reproduce p exactly on the other two axes.
		switch {
		case iface < 2:
			if back.Y != p.Y || back.Z != p.Z || back.X != value {
				t.Errorf("face %d: round trip = %v, want Y=%v Z=%v X=%v", iface, back, p.Y, p.Z, value)
			}
		case iface < 4:
			if back.X != p.X || back.Z != p.Z || back.Y != value {
				t.Errorf("face %d: round trip = %v, want X=%v Z=%v Y=%v", iface, back, p.X, p.Z, value)
			}
		default:
			if back.X != p.X || back.Y != p.Y || back.Z != value {
				t.Errorf("face %d: round trip = %v, want X=%v Y=%v Z=%v", iface, back, p.X, p.Y, value)
			}
		}
	}
}

func TestWhichFacesDetectsCellEdgesAndSingleFaces(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)

	// A segment along the cell edge shared by the xlo and ylo faces.
	edge := whichFaces(pt(0, 0, 0.2), pt(0, 0, 0.8), lo, hi)
	if len(edge) != 2 || edge[0] != 0 || edge[1] != 2 {
		t.Errorf("edge segment faces = %v, want [0 2]", edge)
	}

	// A segment confined to the zlo face only.
	single := whichFaces(pt(0.2, 0.2, 0), pt(0.8, 0.2, 0), lo, hi)
	if len(single) != 1 || single[0] != 4 {
		t.Errorf("single-face segment faces = %v, want [4]", single)
	}

	// An interior segment touching no face.
	none := whichFaces(pt(0.2, 0.2, 0.2), pt(0.8, 0.2, 0.2), lo, hi)
	if len(none) != 0 {
		t.Errorf("interior segment faces = %v, want none", none)
	}
}

func TestSplitReturnsEmptyForTriangleOutsideCell(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	tris := []Tri{
		{P1: pt(5, 5, 5), P2: pt(6, 5, 5), P3: pt(5, 6, 5), Norm: pt(0, 0, 1)},
	}
	s := NewSplitter()
	res, err := s.Split(1, lo, hi, tris)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Empty {
		t.Fatalf("got %+v, want Empty", res)
	}
	if len(res.Volumes) != 1 || !almostEqual(res.Volumes[0], 1) {
		t.Fatalf("Volumes = %v, want [1] (untouched cell keeps its full box volume)", res.Volumes)
	}
	for i, c := range res.Corners {
		if c != Inside {
			t.Errorf("corner %d = %v, want Inside", i, c)
		}
	}
}

func TestSplitReturnsEmptyForGrazingTriangle(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	// A triangle flush with the xhi face, normal pointing outward through
	// it: it only grazes the cell and cuts nothing away.
	tris := []Tri{
		{P1: pt(1, 0.2, 0.2), P2: pt(1, 0.8, 0.2), P3: pt(1, 0.2, 0.8), Norm: pt(1, 0, 0)},
	}
	s := NewSplitter()
	res, err := s.Split(1, lo, hi, tris)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Empty {
		t.Fatalf("got %+v, want Empty (grazing triangle removes no volume)", res)
	}
	if len(res.Volumes) != 1 || !almostEqual(res.Volumes[0], 1) {
		t.Fatalf("Volumes = %v, want [1] (grazing removes nothing)", res.Volumes)
	}
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

// A single triangle sliced across the corner at the origin, with each edge
// running along one of the three faces meeting there, carves a small
// tetrahedron out of the cell. The corner's own tetrahedron and the
// remaining bulk are graph-connected through the untouched xhi/yhi/zhi
// faces, so they fold into one polyhedron whose volume is the cube's volume
// less the tetrahedron's — a non-trivial single-polyhedron result.
func TestSplitCornerCutProducesSinglePolyhedronWithReducedVolume(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	tris := []Tri{
		{P1: pt(0.5, 0, 0), P2: pt(0, 0.5, 0), P3: pt(0, 0, 0.5), Norm: pt(-1, -1, -1)},
	}
	s := NewSplitter()
	res, err := s.Split(1, lo, hi, tris)
	if err != nil {
		t.Fatal(err)
	}
	if res.Empty {
		t.Fatalf("got Empty, want a real cut")
	}
	if res.NSplit != 1 {
		t.Fatalf("NSplit = %d, want 1", res.NSplit)
	}
	want := 1.0 - 1.0/48.0
	if len(res.Volumes) != 1 || !almostEqual(res.Volumes[0], want) {
		t.Fatalf("Volumes = %v, want [%v]", res.Volumes, want)
	}
	for i, c := range res.Corners {
		if c != Outside {
			t.Errorf("corner %d = %v, want Outside", i, c)
		}
	}
}

// Two triangles forming a full quad across the plane x=0.5 bisect the cell
// cleanly in two: the quad's own edges run along the yhi/ylo/zhi/zlo faces,
// leaving the xlo half connected to the xlo face alone and the xhi half
// connected to the xhi face alone — two separate polyhedra of equal volume.
func TestSplitBisectingQuadProducesTwoEqualVolumes(t *testing.T) {
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	tris := []Tri{
		{P1: pt(0.5, 0, 0), P2: pt(0.5, 1, 0), P3: pt(0.5, 1, 1), Norm: pt(1, 0, 0)},
		{P1: pt(0.5, 0, 0), P2: pt(0.5, 1, 1), P3: pt(0.5, 0, 1), Norm: pt(1, 0, 0)},
	}
	s := NewSplitter()
	res, err := s.Split(1, lo, hi, tris)
	if err != nil {
		t.Fatal(err)
	}
	if res.Empty {
		t.Fatalf("got Empty, want a real cut")
	}
	if res.NSplit != 2 {
		t.Fatalf("NSplit = %d, want 2", res.NSplit)
	}
	if len(res.Volumes) != 2 || !almostEqual(res.Volumes[0], 0.5) || !almostEqual(res.Volumes[1], 0.5) {
		t.Fatalf("Volumes = %v, want [0.5 0.5]", res.Volumes)
	}
	for i, c := range res.Corners {
		if c != Outside {
			t.Errorf("corner %d = %v, want Outside", i, c)
		}
	}
}

func TestSplitterReusableAcrossCells(t *testing.T) {
	s := NewSplitter()
	lo, hi := pt(0, 0, 0), pt(1, 1, 1)
	outside := []Tri{{P1: pt(5, 5, 5), P2: pt(6, 5, 5), P3: pt(5, 6, 5), Norm: pt(0, 0, 1)}}

	if _, err := s.Split(1, lo, hi, outside); err != nil {
		t.Fatal(err)
	}
	res, err := s.Split(2, lo, hi, outside)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Empty {
		t.Fatalf("second Split on a reused Splitter got %+v, want Empty", res)
	}
}
