package cut3d

import (
	"github.com/rarefiedflow/ablate/bpg"
	"github.com/rarefiedflow/ablate/geom"
)

// addTris adds every candidate triangle to the graph as a CTRI vertex with
// three edges, sharing an edge with whichever earlier triangle already
// claims it. Edges are added at full length; clipping happens afterward in
// clipTris.
//
// Ported from Cut3d::add_tris (cut3d.cpp:311).
func (s *Splitter) addTris() {
	for i, tri := range s.tris {
		iv := s.g.AddVertex(bpg.CTRI, i)
		s.g.SetNormal(iv, tri.Norm)

		e1, d1 := s.findOrAddEdge(tri.P1, tri.P2)
		s.g.EdgeInsert(e1, d1, iv, -1, -1, -1, -1)

		e2, d2 := s.findOrAddEdge(tri.P2, tri.P3)
		s.g.EdgeInsert(e2, d2, iv, e1, d1, -1, -1)

		e3, d3 := s.findOrAddEdge(tri.P3, tri.P1)
		s.g.EdgeInsert(e3, d3, iv, e2, d2, -1, -1)
	}
}

// findOrAddEdge returns an existing active edge matching p1->p2 in either
// direction, or creates a fresh unowned CTRI edge p1->p2 (direction 0) if
// none exists yet.
func (s *Splitter) findOrAddEdge(p1, p2 geom.Point) (int, int) {
	if e, dir, err := s.g.FindEdge(p1, p2, false); err == nil && e >= 0 {
		return e, dir
	}
	return s.g.AddEdge(bpg.CTRI, p1, p2), 0
}
