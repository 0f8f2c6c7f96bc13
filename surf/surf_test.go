package surf

import (
	"testing"

	"github.com/rarefiedflow/ablate/geom"
)

func TestMemStoreAppendAndClear(t *testing.T) {
	s := NewMemStore()
	s.AppendLine(Element2{P1: geom.Point2{X: 0, Y: 0}, P2: geom.Point2{X: 1, Y: 0}, CellID: 7})
	s.AppendTri(Element3{P1: geom.Point{X: 0}, P2: geom.Point{X: 1}, P3: geom.Point{Y: 1}, CellID: 7})

	if len(s.Lines) != 1 || len(s.Tris) != 1 {
		t.Fatalf("got %d lines, %d tris, want 1 each", len(s.Lines), len(s.Tris))
	}

	s.SetCount(2, 1, 3)
	if s.NLocal != 2 || s.NOwn != 1 || s.NSurfGlobal != 3 {
		t.Errorf("counts = (%d,%d,%d), want (2,1,3)", s.NLocal, s.NOwn, s.NSurfGlobal)
	}

	s.Clear()
	if len(s.Lines) != 0 || len(s.Tris) != 0 {
		t.Fatalf("after Clear: %d lines, %d tris, want 0 each", len(s.Lines), len(s.Tris))
	}
	// Clear must not disturb the last-set counts; only ABLATE calling
	// SetCount again should change them.
	if s.NSurfGlobal != 3 {
		t.Errorf("NSurfGlobal = %d after Clear, want unchanged 3", s.NSurfGlobal)
	}
}
