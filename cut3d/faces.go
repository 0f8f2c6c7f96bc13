package cut3d

import (
	"errors"
	"fmt"

	"github.com/rarefiedflow/ablate/bpg"
	"github.com/rarefiedflow/ablate/cut2d"
	"github.com/rarefiedflow/ablate/geom"
)

// faceFromCell returns the 2D rectangle a cell face maps onto: faces 0/1
// (xlo/xhi) keep (y,z), faces 2/3 (ylo/yhi) keep (x,z), faces 4/5 (zlo/zhi)
// keep (x,y).
//
// Ported from Cut3d::face_from_cell (cut3d.cpp:1529).
func faceFromCell(iface int, lo, hi geom.Point) (geom.Point2, geom.Point2) {
	switch {
	case iface < 2:
		return geom.Point2{X: lo.Y, Y: lo.Z}, geom.Point2{X: hi.Y, Y: hi.Z}
	case iface < 4:
		return geom.Point2{X: lo.X, Y: lo.Z}, geom.Point2{X: hi.X, Y: hi.Z}
	default:
		return geom.Point2{X: lo.X, Y: lo.Y}, geom.Point2{X: hi.X, Y: hi.Y}
	}
}

func compress2d(iface int, p geom.Point) geom.Point2 {
	switch {
	case iface < 2:
		return geom.Point2{X: p.Y, Y: p.Z}
	case iface < 4:
		return geom.Point2{X: p.X, Y: p.Z}
	default:
		return geom.Point2{X: p.X, Y: p.Y}
	}
}

func expand2d(iface int, value float64, p geom.Point2) geom.Point {
	switch {
	case iface < 2:
		return geom.Point{X: value, Y: p.X, Z: p.Y}
	case iface < 4:
		return geom.Point{X: p.X, Y: value, Z: p.Y}
	default:
		return geom.Point{X: p.X, Y: p.Y, Z: value}
	}
}

func isFlipFace(iface int) bool {
	return iface == 0 || iface == 3 || iface == 4
}

func faceValue(iface int, lo, hi geom.Point) float64 {
	dim := geom.Dim(iface / 2)
	if iface%2 == 0 {
		return component(lo, dim)
	}
	return component(hi, dim)
}

// whichFaces identifies which of the cell's 6 faces the segment p1,p2 lies
// on entirely, in face order 0..5. A segment along a cell edge lies on 2
// faces; a segment on a single face lies on 1; an interior segment lies on
// none.
//
// Ported from Cut3d::which_faces (cut3d.cpp:1508).
func whichFaces(p1, p2, lo, hi geom.Point) []int {
	var faces []int
	if p1.X == lo.X && p2.X == lo.X {
		faces = append(faces, 0)
	}
	if p1.X == hi.X && p2.X == hi.X {
		faces = append(faces, 1)
	}
	if p1.Y == lo.Y && p2.Y == lo.Y {
		faces = append(faces, 2)
	}
	if p1.Y == hi.Y && p2.Y == hi.Y {
		faces = append(faces, 3)
	}
	if p1.Z == lo.Z && p2.Z == lo.Z {
		faces = append(faces, 4)
	}
	if p1.Z == hi.Z && p2.Z == hi.Z {
		faces = append(faces, 5)
	}
	return faces
}

var errSingletOffFace = errors.New("cut3d: singlet BPG edge not on cell face")
var errSingletTooManyFaces = errors.New("cut3d: BPG edge on more than 2 faces")

// edge2face assigns every not-fully-owned ("singlet") edge to exactly one
// of the cell's 6 faces, disambiguating edges that run along a shared cell
// edge by which side the owning triangle's normal points away from.
//
// Ported from Cut3d::edge2face (cut3d.cpp:666).
func (s *Splitter) edge2face() error {
	g := s.g
	for i := range s.faces {
		s.faces[i] = s.faces[i][:0]
	}

	for iedge := range g.Edges {
		e := &g.Edges[iedge]
		if !e.Active || e.NVert == 3 {
			continue
		}

		faces := whichFaces(e.P1, e.P2, s.lo, s.hi)
		var iface int
		switch len(faces) {
		case 0:
			return fmt.Errorf("%w: cell id %d", errSingletOffFace, s.id)
		case 1:
			iface = faces[0]
		case 2:
			iface = faces[0]
			dim := iface / 2
			// The redundant overwrite below matches the source: whichever
			// branch runs, norm_inward ends up +1 on this axis.
			normInward := geom.Point{}
			if iface%2 == 1 {
				setComponent(&normInward, geom.Dim(dim), -1.0)
			}
			setComponent(&normInward, geom.Dim(dim), 1.0)

			var ivert int
			if e.NVert == 1 {
				ivert = e.Verts[0]
			} else {
				ivert = e.Verts[1]
			}
			trinorm := g.Verts[ivert].Norm
			dot := normInward.X*trinorm.X + normInward.Y*trinorm.Y + normInward.Z*trinorm.Z
			if dot > 0.0 {
				iface = faces[1]
			}
		default:
			return fmt.Errorf("%w: cell id %d", errSingletTooManyFaces, s.id)
		}

		s.faces[iface] = append(s.faces[iface], iedge)
	}
	return nil
}

func setComponent(p *geom.Point, dim geom.Dim, v float64) {
	switch dim {
	case geom.X:
		p.X = v
	case geom.Y:
		p.Y = v
	default:
		p.Z = v
	}
}

// edge2clines builds the 2D oriented segment list CUT2D will clip for one
// face, orienting each segment to traverse its edge the way the owning
// triangle does and flipping it in "flip faces" (0,3,4) so that the solid
// interior stays on a consistent side once viewed from outside the cell.
//
// Ported from Cut3d::edge2clines (cut3d.cpp:726).
func (s *Splitter) edge2clines(iface int) []cut2d.Cline {
	flip := isFlipFace(iface)
	edges := s.faces[iface]
	clines := make([]cut2d.Cline, len(edges))

	for i, iedge := range edges {
		e := &s.g.Edges[iedge]
		var p1, p2 geom.Point
		if e.NVert == 1 {
			p1, p2 = e.P1, e.P2
		} else {
			p1, p2 = e.P2, e.P1
		}
		if flip {
			clines[i] = cut2d.Cline{P1: compress2d(iface, p2), P2: compress2d(iface, p1), Line: iedge}
		} else {
			clines[i] = cut2d.Cline{P1: compress2d(iface, p1), P2: compress2d(iface, p2), Line: iedge}
		}
	}
	return clines
}

// addFacePgons folds CUT2D's reconstructed polygons for one face back into
// the BPG as FACEPGON vertices, matching each loop point that came from a
// clipped CTRI edge back to that edge (in the opposite traversal direction
// CTRI used) and creating fresh FACEPGON edges for the rest.
//
// Ported from Cut3d::add_face_pgons (cut3d.cpp:771).
func (s *Splitter) addFacePgons(iface int, lo, hi geom.Point, res cut2d.Result) {
	g := s.g
	flip := isFlipFace(iface)
	value := faceValue(iface, lo, hi)

	for _, pg := range res.PGs {
		nvert := g.AddVertex(bpg.FACEPGON, iface)
		if iface == 5 {
			g.Verts[nvert].Volume = pg.Area * (hi.Z - lo.Z)
		}

		prev, dirprev := -1, -1
		mloop := pg.First
		for iloop := 0; iloop < pg.N; iloop++ {
			loop := res.Loops[mloop]
			mpt := loop.First
			for ipt := 0; ipt < loop.N; ipt++ {
				p12d := res.Points[mpt]
				mpt = p12d.Next
				p22d := res.Points[mpt]
				p1 := expand2d(iface, value, p12d.X)
				p2 := expand2d(iface, value, p22d.X)

				if p12d.Type == cut2d.Entry || p12d.Type == cut2d.Two {
					iedge := p12d.Line
					e := &g.Edges[iedge]
					e.Style = bpg.CTRIFACE
					dir := 0
					if e.NVert == 1 {
						dir = 1
					}
					g.EdgeInsert(iedge, dir, nvert, prev, dirprev, -1, -1)
					prev, dirprev = iedge, dir
					continue
				}

				var iedge, dir int
				var err error
				if flip {
					iedge, dir, err = g.FindEdge(p2, p1, false)
				} else {
					iedge, dir, err = g.FindEdge(p1, p2, false)
				}
				if err == nil && iedge >= 0 {
					g.EdgeInsert(iedge, dir, nvert, prev, dirprev, -1, -1)
					prev, dirprev = iedge, 1
					continue
				}

				var newP1, newP2 geom.Point
				if flip {
					newP1, newP2 = p2, p1
				} else {
					newP1, newP2 = p1, p2
				}
				iedge = g.AddEdge(bpg.FACEPGON, newP1, newP2)
				g.EdgeInsert(iedge, 0, nvert, prev, dirprev, -1, -1)
				prev, dirprev = iedge, 0
			}
			mloop = loop.Next
		}
	}
}

// addFace adds an entire, surface-free cell face as one FACE vertex bounded
// by its 4 corners, reusing any FACE/FACEPGON edge an earlier face already
// laid along the cell edge they share (CTRI/CTRIFACE edges are skipped by
// the lookup) and creating a fresh FACE edge otherwise.
//
// Ported from Cut3d::add_face (cut3d.cpp:889).
func (s *Splitter) addFace(iface int, lo, hi geom.Point, lo2d, hi2d geom.Point2) {
	g := s.g
	nvert := g.AddVertex(bpg.FACE, iface)
	if iface == 5 {
		size := geom.Box{Lo: lo, Hi: hi}.Size()
		g.Verts[nvert].Volume = size.X * size.Y * size.Z
	}

	value := faceValue(iface, lo, hi)
	flip := isFlipFace(iface)

	var cpts [4]geom.Point2
	if flip {
		cpts = [4]geom.Point2{
			{X: lo2d.X, Y: lo2d.Y}, {X: lo2d.X, Y: hi2d.Y},
			{X: hi2d.X, Y: hi2d.Y}, {X: hi2d.X, Y: lo2d.Y},
		}
	} else {
		cpts = [4]geom.Point2{
			{X: lo2d.X, Y: lo2d.Y}, {X: hi2d.X, Y: lo2d.Y},
			{X: hi2d.X, Y: hi2d.Y}, {X: lo2d.X, Y: hi2d.Y},
		}
	}

	prev, dirprev := -1, -1
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		p1 := expand2d(iface, value, cpts[i])
		p2 := expand2d(iface, value, cpts[j])

		iedge, dir, err := g.FindEdge(p1, p2, true)
		if err == nil && iedge >= 0 {
			g.EdgeInsert(iedge, dir, nvert, prev, dirprev, -1, -1)
			prev, dirprev = iedge, 1
			continue
		}

		iedge = g.AddEdge(bpg.FACE, p1, p2)
		g.EdgeInsert(iedge, 0, nvert, prev, dirprev, -1, -1)
		prev, dirprev = iedge, 0
	}
}

// removeFaces drops any FACE vertex that has at least one edge not shared
// with a FACEPGON/CTRIFACE partner: such a face polygon covers no actual
// solid boundary and would otherwise leave a dangling BPG vertex. Iterates
// twice since removing one FACE vertex can strand another.
//
// Ported from Cut3d::remove_faces (cut3d.cpp:979).
func (s *Splitter) removeFaces() {
	g := s.g
	nvert := len(g.Verts)

	for iter := 0; iter < 2; iter++ {
		for ivert := 0; ivert < nvert; ivert++ {
			v := &g.Verts[ivert]
			if !v.Active || v.Style != bpg.FACE {
				continue
			}

			iedge, dir := v.First, v.DirFirst
			unconnected := false
			for i := 0; i < 4; i++ {
				e := &g.Edges[iedge]
				if e.NVert == 1 || e.NVert == 2 {
					unconnected = true
					break
				}
				iedge, dir = e.Next[dir], e.DirNext[dir]
			}
			if unconnected {
				g.VertexRemove(ivert)
			}
		}
	}
}
