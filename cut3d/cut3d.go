// Package cut3d implements the three-dimensional half of the clipping
// engine: given a grid cell and the candidate surface triangles that might
// intersect it, it builds a bipartite-planar-graph representation of the
// clipped polyhedron/polyhedra and reports their volumes.
//
// Every routine here is a direct re-expression of SPARTA's Cut3d class
// (original_source/src/cut3d.cpp) onto the bpg.Graph arena from this module
// instead of raw pointers, and onto cut2d.SplitFace instead of a sibling
// Cut2d C++ class.
package cut3d

import (
	"github.com/rarefiedflow/ablate/bpg"
	"github.com/rarefiedflow/ablate/cut2d"
	"github.com/rarefiedflow/ablate/geom"
)

// Tri is one candidate surface triangle, in the coordinate space of the
// grid it will be clipped against.
type Tri struct {
	P1, P2, P3 geom.Point
	Norm       geom.Point
}

// CornerState is whether a cell corner ended up outside the solid volume
// (touched by a clipped edge) or inside it.
type CornerState int

const (
	Inside CornerState = iota
	Outside
)

// Result is everything Split produces for one grid cell.
type Result struct {
	Empty     bool
	Volumes   []float64      // one entry per split sub-cell (polyhedron)
	Corners   [8]CornerState // indexed the same way as geom.Corner
	SurfMap   []int          // len(tris); which Volumes entry each tri maps to, -1 if none
	NSplit    int
	XSplit    geom.Point // representative point in Volumes[XSplitPH], only set if NSplit > 1
	XSplitPH  int
}

// SurfToGrid returns the indices, into tris, of every candidate triangle
// that intersects the box [lo,hi]: a bounding-box reject followed by a
// Sutherland-Hodgman clip-existence test.
//
// Ported from Cut3d::surf2grid/Cut3d::clip (cut3d.cpp:68,129).
func SurfToGrid(lo, hi geom.Point, tris []Tri) []int {
	var hits []int
	for m, tri := range tris {
		if max3(tri.P1.X, tri.P2.X, tri.P3.X) < lo.X {
			continue
		}
		if min3(tri.P1.X, tri.P2.X, tri.P3.X) > hi.X {
			continue
		}
		if max3(tri.P1.Y, tri.P2.Y, tri.P3.Y) < lo.Y {
			continue
		}
		if min3(tri.P1.Y, tri.P2.Y, tri.P3.Y) > hi.Y {
			continue
		}
		if max3(tri.P1.Z, tri.P2.Z, tri.P3.Z) < lo.Z {
			continue
		}
		if min3(tri.P1.Z, tri.P2.Z, tri.P3.Z) > hi.Z {
			continue
		}
		if clipTriangleNonEmpty(tri.P1, tri.P2, tri.P3, lo, hi) {
			hits = append(hits, m)
		}
	}
	return hits
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// clipTriangleNonEmpty reports whether triangle p0,p1,p2 has any overlap
// with box [lo,hi], via Sutherland-Hodgman clipping against the box's six
// half-spaces. Duplicate points are not removed since a touching triangle
// still counts as an intersection.
func clipTriangleNonEmpty(p0, p1, p2, lo, hi geom.Point) bool {
	if within(p0, lo, hi) && within(p1, lo, hi) && within(p2, lo, hi) {
		return true
	}

	path := []geom.Point{p0, p1, p2}
	for dim := geom.X; dim <= geom.Z; dim++ {
		path = clipHalfSpace(path, dim, component(lo, dim), true)
		if len(path) == 0 {
			return false
		}
		path = clipHalfSpace(path, dim, component(hi, dim), false)
		if len(path) == 0 {
			return false
		}
	}
	return true
}

func within(p, lo, hi geom.Point) bool {
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// clipHalfSpace clips a closed polygon path against one half-space along
// dim: keep >= value when geLo is true (a lo-face clip), keep <= value
// otherwise (a hi-face clip).
func clipHalfSpace(path []geom.Point, dim geom.Dim, value float64, geLo bool) []geom.Point {
	n := len(path)
	var out []geom.Point
	s := path[n-1]
	for i := 0; i < n; i++ {
		e := path[i]
		sIn := halfSpaceContains(s, dim, value, geLo)
		eIn := halfSpaceContains(e, dim, value, geLo)
		switch {
		case eIn && sIn:
			out = append(out, e)
		case eIn && !sIn:
			out = append(out, geom.Between(s, e, dim, value), e)
		case !eIn && sIn:
			out = append(out, geom.Between(e, s, dim, value))
		}
		s = e
	}
	return out
}

func halfSpaceContains(p geom.Point, dim geom.Dim, value float64, geLo bool) bool {
	v := component(p, dim)
	if geLo {
		return v >= value
	}
	return v <= value
}

// Splitter holds the working BPG and per-cell scratch state for repeated
// calls to Split. Reuse one Splitter across many cells to avoid
// reallocating the graph arena each time (mirrors the source's per-instance
// Cut3d holding one bpg for its lifetime).
type Splitter struct {
	id      int64
	lo, hi  geom.Point
	tris    []Tri
	g       *bpg.Graph
	empty   bool
	faces   [6][]int // per-face lists of singlet edge indices
	loopset []loopRec
	phs     []phRec
}

type loopRec struct {
	Volume float64
	Border bool // vertex composition includes a non-CTRI vertex
	First  int  // vertex index
	Next   int  // -1 terminates the walk-order vertex chain (verts[i].LoopNext)
}

type phRec struct {
	Volume float64
	First  int // loop index
	N      int
}

// NewSplitter returns a Splitter with a fresh, empty graph arena.
func NewSplitter() *Splitter {
	return &Splitter{g: bpg.New()}
}

// Split clips tris against the cell [lo,hi] and returns the resulting split
// volumes, corner classification, and per-triangle sub-cell assignment.
//
// Ported from Cut3d::split (cut3d.cpp:199).
func (s *Splitter) Split(id int64, lo, hi geom.Point, tris []Tri) (Result, error) {
	s.id, s.lo, s.hi, s.tris = id, lo, hi, tris
	s.g.Reset()
	for i := range s.faces {
		s.faces[i] = s.faces[i][:0]
	}
	s.loopset = s.loopset[:0]
	s.phs = s.phs[:0]

	s.addTris()
	grazed, err := s.clipTris()
	if err != nil {
		return Result{}, err
	}

	if s.empty {
		// Either there was nothing to clip at all, or a grazing tri only
		// touched the cell in passing (coincided with a face and pointed
		// outward). Either way no solid was cut away, so the whole cell box
		// survives as a single untouched polyhedron, and with no active edge
		// touching any corner every corner is reported Inside.
		_ = grazed
		boxVolume := (hi.X - lo.X) * (hi.Y - lo.Y) * (hi.Z - lo.Z)
		res := Result{Empty: true, Volumes: []float64{boxVolume}, SurfMap: allUnmapped(len(tris)), NSplit: 1}
		for i := range res.Corners {
			res.Corners[i] = Inside
		}
		return res, nil
	}

	s.ctriVolume()
	if err := s.edge2face(); err != nil {
		return Result{}, err
	}

	for iface := 0; iface < 6; iface++ {
		lo2d, hi2d := faceFromCell(iface, lo, hi)
		if len(s.faces[iface]) > 0 {
			clines := s.edge2clines(iface)
			out, err := cut2d.SplitFace(clines, lo2d, hi2d)
			if err != nil {
				return Result{}, err
			}
			s.addFacePgons(iface, lo, hi, out)
		} else {
			s.addFace(iface, lo, hi, lo2d, hi2d)
		}
	}

	s.removeFaces()
	if err := s.g.Check(); err != nil {
		return Result{}, err
	}

	s.walk()
	if err := s.loop2ph(); err != nil {
		return Result{}, err
	}

	res := Result{NSplit: len(s.phs)}
	res.Volumes = make([]float64, len(s.phs))
	for i, ph := range s.phs {
		res.Volumes[i] = ph.Volume
	}

	if len(s.phs) > 1 {
		res.SurfMap = s.createSurfMap()
		xsplit, xph, err := s.splitPoint(res.SurfMap)
		if err != nil {
			return Result{}, err
		}
		res.XSplit, res.XSplitPH = xsplit, xph
	} else {
		res.SurfMap = make([]int, len(tris))
		for i := range res.SurfMap {
			res.SurfMap[i] = 0
		}
	}

	for i := range res.Corners {
		res.Corners[i] = Inside
	}
	for i := range s.g.Edges {
		e := &s.g.Edges[i]
		if !e.Active {
			continue
		}
		if c := geom.Corner(e.P1, lo, hi); c >= 0 {
			res.Corners[c] = Outside
		}
		if c := geom.Corner(e.P2, lo, hi); c >= 0 {
			res.Corners[c] = Outside
		}
	}

	return res, nil
}

func allUnmapped(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = -1
	}
	return m
}
