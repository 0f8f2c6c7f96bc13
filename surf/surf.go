// Package surf holds the explicit surface elements ISO extracts from a
// grid block: 2D line segments or 3D triangles, each tagged with the cell
// that produced them, and the Store collaborator that ISO appends them to.
//
// Modeled on the teacher's render.Renderer/Triangle3 shape
// (soypat-sdf/render/render.go, io.go): a small element struct plus a
// write-only append interface, rather than ISO owning its own output slice.
package surf

import "github.com/rarefiedflow/ablate/geom"

// Element2 is one marching-squares line segment on a 2D grid.
type Element2 struct {
	P1, P2 geom.Point2
	Norm   geom.Point2
	CellID uint64
}

// Element3 is one marching-cubes triangle on a 3D grid.
type Element3 struct {
	P1, P2, P3 geom.Point
	Norm       geom.Point
	CellID     uint64
}

// Store is the surface-element sink ISO writes into and ABLATE clears and
// re-counts every step. Counting is split from appending because the
// global surface count requires an allreduce across every owning process
// (spec §6's set_count(nlocal, nown, nsurf_global)).
type Store interface {
	AppendLine(e Element2)
	AppendTri(e Element3)
	Clear()
	SetCount(nlocal, nown, nsurfGlobal int)
}

// MemStore is an in-process Store backed by plain slices, suitable for a
// single rank or for tests.
type MemStore struct {
	Lines []Element2
	Tris  []Element3

	NLocal      int
	NOwn        int
	NSurfGlobal int
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) AppendLine(e Element2) { s.Lines = append(s.Lines, e) }
func (s *MemStore) AppendTri(e Element3)  { s.Tris = append(s.Tris, e) }

func (s *MemStore) Clear() {
	s.Lines = s.Lines[:0]
	s.Tris = s.Tris[:0]
}

func (s *MemStore) SetCount(nlocal, nown, nsurfGlobal int) {
	s.NLocal, s.NOwn, s.NSurfGlobal = nlocal, nown, nsurfGlobal
}
