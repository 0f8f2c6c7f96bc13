package cut3d

import (
	"errors"

	"github.com/rarefiedflow/ablate/bpg"
	"github.com/rarefiedflow/ablate/geom"
)

// walk finds each connected component of the post-face BPG by a
// depth-first flood fill over the vertex/edge adjacency, recording each
// component as a loop: its total volume (the sum of its vertices'
// ctriVolume contributions), whether it touches a non-CTRI (face) vertex,
// and the walk order of its member vertices via each Vertex's LoopNext
// field.
//
// Ported from Cut3d::walk (cut3d.cpp:1110).
func (s *Splitter) walk() {
	g := s.g
	nvert := len(g.Verts)

	for i := range g.Verts {
		g.Verts[i].Used = !g.Verts[i].Active
	}

	stack := make([]int, 0, nvert)

	for i := 0; i < nvert; i++ {
		if g.Verts[i].Used {
			continue
		}

		var volume float64
		border := false
		first := i
		prev := -1

		stack = stack[:0]
		stack = append(stack, i)
		g.Verts[i].Used = true

		for len(stack) > 0 {
			ivert := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			v := &g.Verts[ivert]
			if v.Style != bpg.CTRI {
				border = true
			}
			volume += v.Volume

			iedge, dir := v.First, v.DirFirst
			for k := 0; k < v.NEdge; k++ {
				e := &g.Edges[iedge]
				if !g.Verts[e.Verts[0]].Used {
					g.Verts[e.Verts[0]].Used = true
					stack = append(stack, e.Verts[0])
				}
				if !g.Verts[e.Verts[1]].Used {
					g.Verts[e.Verts[1]].Used = true
					stack = append(stack, e.Verts[1])
				}
				iedge, dir = e.Next[dir], e.DirNext[dir]
			}

			if prev >= 0 {
				g.Verts[prev].LoopNext = ivert
			}
			prev = ivert
		}
		g.Verts[prev].LoopNext = -1

		s.loopset = append(s.loopset, loopRec{Volume: volume, Border: border, First: first, Next: -1})
	}
}

var errNoPositiveVolume = errors.New("cut3d: no positive volume in cell")
var errMixedPositiveNegative = errors.New("cut3d: more than one positive volume with a negative volume")
var errInverseDonut = errors.New("cut3d: single volume is negative, inverse donut")

// loop2ph folds walk's loops into polyhedra: normally there is exactly one
// positive-volume outer loop (possibly with negative-volume void loops
// nested inside it, summed together into one polyhedron); if there is more
// than one positive loop, the cell is genuinely split and each becomes its
// own polyhedron.
//
// Ported from Cut3d::loop2ph (cut3d.cpp:1200).
func (s *Splitter) loop2ph() error {
	positive, negative := 0, 0
	for _, l := range s.loopset {
		if l.Volume > 0.0 {
			positive++
		} else {
			negative++
		}
	}
	if positive == 0 {
		return errNoPositiveVolume
	}
	if positive > 1 && negative > 0 {
		return errMixedPositiveNegative
	}

	if positive == 1 {
		var volume float64
		for i := range s.loopset {
			volume += s.loopset[i].Volume
			if i+1 < len(s.loopset) {
				s.loopset[i].Next = i + 1
			} else {
				s.loopset[i].Next = -1
			}
		}
		if volume < 0.0 {
			return errInverseDonut
		}
		s.phs = []phRec{{Volume: volume, First: 0, N: len(s.loopset)}}
		return nil
	}

	s.phs = make([]phRec, len(s.loopset))
	for i := range s.loopset {
		s.loopset[i].Next = -1
		s.phs[i] = phRec{Volume: s.loopset[i].Volume, First: i, N: 1}
	}
	return nil
}

// createSurfMap reports, for every candidate triangle, which polyhedron
// (index into Result.Volumes) its CTRI/CTRIFACE vertex ended up part of,
// or -1 if the triangle contributed no surviving vertex (it was discarded
// during clipTris, e.g. by grazing).
//
// Ported from Cut3d::create_surfmap (cut3d.cpp:1250).
func (s *Splitter) createSurfMap() []int {
	g := s.g
	surfmap := allUnmapped(len(s.tris))

	for iph, ph := range s.phs {
		mloop := ph.First
		for iloop := 0; iloop < ph.N; iloop++ {
			loop := s.loopset[mloop]
			for ivert := loop.First; ivert >= 0; ivert = g.Verts[ivert].LoopNext {
				v := &g.Verts[ivert]
				if v.Style == bpg.CTRI || v.Style == bpg.CTRIFACE {
					surfmap[v.Label] = iph
				}
			}
			mloop = loop.Next
		}
	}
	return surfmap
}

var errNoSplitPoint = errors.New("cut3d: could not find split point in split cell")

// splitPoint picks one representative point inside the split cell,
// preferring a mapped triangle's vertex that already lies in or on the
// cell, and falling back to clipping that triangle to the cell otherwise.
// Split reports it as Result.XSplit/XSplitPH, a seed point for attributing
// particles to one of a split cell's polyhedra.
//
// Ported from Cut3d::split_point (cut3d.cpp:1276).
func (s *Splitter) splitPoint(surfmap []int) (geom.Point, int, error) {
	for i, ph := range surfmap {
		if ph < 0 {
			continue
		}
		tri := s.tris[i]
		for _, p := range [3]geom.Point{tri.P1, tri.P2, tri.P3} {
			if geom.PtFlag(p, s.lo, s.hi) != geom.Exterior {
				return p, ph, nil
			}
		}
	}

	for i, ph := range surfmap {
		if ph < 0 {
			continue
		}
		tri := s.tris[i]
		path := clipPath(tri.P1, tri.P2, tri.P3, s.lo, s.hi)
		if len(path) > 0 {
			return path[0], ph, nil
		}
	}

	return geom.Point{}, -1, errNoSplitPoint
}

// clipPath is clipTriangleNonEmpty's clipped polygon, exposed for
// splitPoint's fallback (it needs the resulting path, not just whether it
// is non-empty).
func clipPath(p0, p1, p2, lo, hi geom.Point) []geom.Point {
	path := []geom.Point{p0, p1, p2}
	for dim := geom.X; dim <= geom.Z; dim++ {
		path = clipHalfSpace(path, dim, component(lo, dim), true)
		if len(path) == 0 {
			return nil
		}
		path = clipHalfSpace(path, dim, component(hi, dim), false)
		if len(path) == 0 {
			return nil
		}
	}
	return path
}
