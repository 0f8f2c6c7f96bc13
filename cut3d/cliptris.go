package cut3d

import (
	"github.com/rarefiedflow/ablate/bpg"
	"github.com/rarefiedflow/ablate/geom"
)

const (
	flagOutside = iota
	flagInside
	flagOverlap
)

func classifyLo(v, value float64) int {
	switch {
	case v < value:
		return flagOutside
	case v > value:
		return flagInside
	default:
		return flagOverlap
	}
}

func classifyHi(v, value float64) int {
	switch {
	case v < value:
		return flagInside
	case v > value:
		return flagOutside
	default:
		return flagOverlap
	}
}

func component(p geom.Point, dim geom.Dim) float64 {
	switch dim {
	case geom.X:
		return p.X
	case geom.Y:
		return p.Y
	default:
		return p.Z
	}
}

// clipTris clips every CTRI vertex's edges against all six faces of the
// cell, one face at a time, then closes the ring gaps clipping leaves
// behind with fresh face-spanning edges. Afterward it drops degenerate
// edges and vertices and detects triangles that only graze the cell.
// Returns whether any vertex was removed for grazing.
//
// Ported from Cut3d::clip_tris (cut3d.cpp:393).
func (s *Splitter) clipTris() (bool, error) {
	g := s.g
	nvert := len(g.Verts)

	for iface := 0; iface < 6; iface++ {
		dim := geom.Dim(iface / 2)
		lohi := iface % 2
		var value float64
		if lohi == 0 {
			value = component(s.lo, dim)
		} else {
			value = component(s.hi, dim)
		}

		for i := range g.Edges {
			if g.Edges[i].Active {
				g.Edges[i].Clipped = false
			}
		}

		for ivert := 0; ivert < nvert; ivert++ {
			v := &g.Verts[ivert]

			iedge, idir := v.First, v.DirFirst
			nedge := v.NEdge
			for i := 0; i < nedge; i++ {
				e := &g.Edges[iedge]

				if e.Clipped {
					e.Clipped = false
					iedge, idir = e.Next[idir], e.DirNext[idir]
					continue
				}

				var p1, p2 geom.Point
				if idir == 0 {
					p1, p2 = e.P1, e.P2
				} else {
					p1, p2 = e.P2, e.P1
				}

				var p1flag, p2flag int
				if lohi == 0 {
					p1flag = classifyLo(component(p1, dim), value)
					p2flag = classifyLo(component(p2, dim), value)
				} else {
					p1flag = classifyHi(component(p1, dim), value)
					p2flag = classifyHi(component(p2, dim), value)
				}

				switch p1flag {
				case flagOutside:
					if p2flag == flagOutside || p2flag == flagOverlap {
						g.EdgeRemoveDir(iedge, idir)
					} else {
						c := geom.Between(p1, p2, dim, value)
						if idir == 0 {
							e.P1 = c
						} else {
							e.P2 = c
						}
						e.Clipped = true
					}
				case flagInside:
					if p2flag == flagOutside {
						c := geom.Between(p1, p2, dim, value)
						if idir == 0 {
							e.P2 = c
						} else {
							e.P1 = c
						}
						e.Clipped = true
					}
				default: // overlap
					if p2flag == flagOutside {
						g.EdgeRemoveDir(iedge, idir)
					}
				}

				iedge, idir = e.Next[idir], e.DirNext[idir]
			}

			// Close whatever gaps clipping left in this vertex's ring by
			// adding a new face-spanning edge between consecutive
			// endpoints that no longer coincide.
			iedge, idir = v.First, v.DirFirst
			for i := 0; i < v.NEdge; i++ {
				e := &g.Edges[iedge]
				jedge, jdir := e.Next[idir], e.DirNext[idir]
				if jedge < 0 {
					jedge, jdir = v.First, v.DirFirst
				}

				var p1 geom.Point
				if idir == 0 {
					p1 = e.P2
				} else {
					p1 = e.P1
				}
				je := &g.Edges[jedge]
				var p2 geom.Point
				if jdir == 0 {
					p2 = je.P1
				} else {
					p2 = je.P2
				}

				if !geom.SamePoint(p1, p2) {
					ninext := jedge
					if jedge == v.First {
						ninext = -1
					}
					n := g.AddEdge(bpg.CTRI, p1, p2)
					g.EdgeInsert(n, 0, ivert, iedge, idir, ninext, jdir)
					i++
				}

				iedge, idir = jedge, jdir
			}
		}
	}

	// Remove zero-length edges.
	nedge := len(g.Edges)
	for iedge := 0; iedge < nedge; iedge++ {
		e := &g.Edges[iedge]
		if !e.Active {
			continue
		}
		if geom.SamePoint(e.P1, e.P2) {
			g.EdgeRemove(iedge)
		}
	}

	// Remove vertices left with fewer than 3 edges.
	for ivert := 0; ivert < nvert; ivert++ {
		if g.Verts[ivert].NEdge <= 2 {
			g.VertexRemove(ivert)
		}
	}

	// Remove vertices that only graze the cell: every point on the same
	// face and the triangle's normal points outward through it.
	grazed := false
	for ivert := 0; ivert < nvert; ivert++ {
		if !g.Verts[ivert].Active {
			continue
		}
		if s.grazing(ivert) {
			grazed = true
			g.VertexRemove(ivert)
		}
	}

	// Deactivate edges left with no owners.
	for iedge := 0; iedge < nedge; iedge++ {
		if g.Edges[iedge].Active && g.Edges[iedge].NVert == 0 {
			g.Edges[iedge].Active = false
		}
	}

	s.empty = true
	for ivert := 0; ivert < nvert; ivert++ {
		if g.Verts[ivert].Active {
			s.empty = false
			break
		}
	}

	return grazed, nil
}

// grazing reports whether every edge point of vert lies on the same cell
// face and the vertex's triangle normal points outward through it, meaning
// the triangle only touches the cell along that face without any true
// interior overlap.
//
// Ported from Cut3d::grazing (cut3d.cpp:1463).
func (s *Splitter) grazing(ivert int) bool {
	g := s.g
	v := &g.Verts[ivert]

	var count [6]int
	iedge, idir := v.First, v.DirFirst
	for i := 0; i < v.NEdge; i++ {
		e := &g.Edges[iedge]
		var p geom.Point
		if idir == 0 {
			p = e.P1
		} else {
			p = e.P2
		}
		if p.X == s.lo.X {
			count[0]++
		}
		if p.X == s.hi.X {
			count[1]++
		}
		if p.Y == s.lo.Y {
			count[2]++
		}
		if p.Y == s.hi.Y {
			count[3]++
		}
		if p.Z == s.lo.Z {
			count[4]++
		}
		if p.Z == s.hi.Z {
			count[5]++
		}
		iedge, idir = e.Next[idir], e.DirNext[idir]
	}

	n := v.Norm
	if count[0] == v.NEdge && n.X < 0 {
		return true
	}
	if count[1] == v.NEdge && n.X > 0 {
		return true
	}
	if count[2] == v.NEdge && n.Y < 0 {
		return true
	}
	if count[3] == v.NEdge && n.Y > 0 {
		return true
	}
	if count[4] == v.NEdge && n.Z < 0 {
		return true
	}
	if count[5] == v.NEdge && n.Z > 0 {
		return true
	}
	return false
}
