package cut3d

import "github.com/rarefiedflow/ablate/geom"

// ctriVolume computes each active vertex's contribution to its polyhedron's
// volume: the signed volume between the vertex's (now-clipped, convex)
// polygon and the cell's zlo face, found by fan-triangulating the polygon
// from its first point and summing tri-capped prism volumes.
//
// Ported from Cut3d::ctri_volume (cut3d.cpp:613). Only called once all
// triangles are clipped.
func (s *Splitter) ctriVolume() {
	g := s.g
	zlo := s.lo.Z

	for ivert := range g.Verts {
		v := &g.Verts[ivert]
		if !v.Active {
			continue
		}

		iedge, idir := v.First, v.DirFirst
		var p0 geom.Point
		if idir == 0 {
			p0 = g.Edges[iedge].P1
		} else {
			p0 = g.Edges[iedge].P2
		}

		var volume float64
		for i := 0; i < v.NEdge; i++ {
			e := &g.Edges[iedge]
			var p1, p2 geom.Point
			if idir == 0 {
				p1, p2 = e.P1, e.P2
			} else {
				p1, p2 = e.P2, e.P1
			}

			zarea := 0.5 * ((p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X))
			volume -= zarea * ((p0.Z+p1.Z+p2.Z)/3.0 - zlo)

			iedge, idir = e.Next[idir], e.DirNext[idir]
		}

		v.Volume = volume
	}
}
