// Package bpg implements the bipartite graph representation of a partially
// clipped polyhedron described in spec §3/§4.2: vertices are convex planar
// polygons, edges are the segments they share, and each edge carries two
// independent doubly-linked traversal directions so that the two polygons
// owning it can each walk their own ring in their own order.
//
// This is a direct re-expression of the original C++'s raw-pointer
// Vertex/Edge structs (SPARTA's cut3d.cpp) as an arena of indices: a Graph
// owns two flat slices, Verts and Edges, and every cross-reference is an
// index into one of them rather than a pointer. CUT3D is the sole owner of
// a Graph and rebuilds it from scratch for every grid cell (spec §3
// Lifecycles), so Graph exposes Reset to reuse the backing arrays across
// cells instead of reallocating.
package bpg

import (
	"errors"
	"fmt"

	"github.com/rarefiedflow/ablate/geom"
)

// Style tags what kind of polygon a Vertex represents, per spec Glossary.
type Style int

const (
	// CTRI is a vertex originating directly from a candidate triangle.
	CTRI Style = iota
	// CTRIFACE is a CTRI edge that also bounds a face polygon after clipping.
	CTRIFACE
	// FACEPGON is a polygon derived from clipping onto a cell face.
	FACEPGON
	// FACE covers an entire cell face with no incident surface elements.
	FACE
)

func (s Style) String() string {
	switch s {
	case CTRI:
		return "CTRI"
	case CTRIFACE:
		return "CTRIFACE"
	case FACEPGON:
		return "FACEPGON"
	case FACE:
		return "FACE"
	default:
		return "UNKNOWN"
	}
}

// Vertex is one polygon in the graph: a doubly-linked ring of edges walked
// in polygon order, plus the bookkeeping CUT3D needs to fold vertices into
// loops and loops into polyhedra.
type Vertex struct {
	Active   bool
	Style    Style
	Label    int // for CTRI/CTRIFACE: index into the candidate surface list
	HasNorm  bool
	Norm     geom.Point
	Volume   float64
	NEdge    int
	First    int
	DirFirst int
	Last     int
	DirLast  int

	// Used int walk/loop bookkeeping only (CUT3D.walk/loop2ph).
	Used     bool
	LoopNext int // -1 terminates the loop's vertex chain
}

// Edge is a segment shared by up to two owning vertices, one per direction
// slot. Traversing edge E from its owner in slot d reads P1->P2 when d=0,
// P2->P1 when d=1. NVert encodes which slots are occupied: +1 if slot 0 is
// filled, +2 if slot 1 is filled, so NVert ranges over {0,1,2,3}.
type Edge struct {
	Active  bool
	Style   Style
	Clipped bool
	P1, P2  geom.Point

	Verts [2]int // owning vertex per direction slot, -1 if empty
	NVert int

	Prev, Next       [2]int // edge index of the neighbouring edge, per direction
	DirPrev, DirNext [2]int // which direction slot of that neighbour
}

// Graph is the bipartite graph for one grid cell's clip. It is not safe for
// concurrent use; each CUT3D instance owns exactly one Graph and calls
// Reset before cutting the next cell.
type Graph struct {
	Verts []Vertex
	Edges []Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// Reset clears the graph for reuse on the next cell, retaining the
// underlying arrays' capacity.
func (g *Graph) Reset() {
	g.Verts = g.Verts[:0]
	g.Edges = g.Edges[:0]
}

// AddVertex appends a new active vertex with no edges yet and returns its
// index.
func (g *Graph) AddVertex(style Style, label int) int {
	g.Verts = append(g.Verts, Vertex{
		Active:   true,
		Style:    style,
		Label:    label,
		First:    -1,
		DirFirst: -1,
		Last:     -1,
		DirLast:  -1,
		LoopNext: -1,
	})
	return len(g.Verts) - 1
}

// SetNormal records the vertex's outward normal (CTRI vertices only).
func (g *Graph) SetNormal(vertex int, n geom.Point) {
	g.Verts[vertex].HasNorm = true
	g.Verts[vertex].Norm = n
}

// AddEdge appends a new, not-yet-owned edge with endpoints p1,p2 and
// returns its index. The caller must EdgeInsert it into at least one
// vertex before it becomes Active.
func (g *Graph) AddEdge(style Style, p1, p2 geom.Point) int {
	g.Edges = append(g.Edges, Edge{
		Style: style,
		P1:    p1,
		P2:    p2,
		Verts: [2]int{-1, -1},
		Prev:  [2]int{-1, -1},
		Next:  [2]int{-1, -1},
	})
	return len(g.Edges) - 1
}

// EdgeInsert installs edge iedge into vertex ivert's ring in direction dir,
// splicing it between the edges at (iprev,dirprev) and (inext,dirnext) (use
// -1 for either end of the ring). It updates the neighbouring edges'
// pointers and the vertex's First/Last anchors.
//
// Ported from Cut3d::edge_insert (original_source/src/cut3d.cpp).
func (g *Graph) EdgeInsert(iedge, dir, ivert, iprev, dirprev, inext, dirnext int) {
	edge := &g.Edges[iedge]

	if dir == 0 {
		edge.NVert += 1
		edge.Verts[0] = ivert
	} else {
		edge.NVert += 2
		edge.Verts[1] = ivert
	}
	edge.Active = true
	edge.Clipped = false

	edge.Next[dir] = inext
	edge.Prev[dir] = iprev

	if inext >= 0 {
		edge.DirNext[dir] = dirnext
		next := &g.Edges[inext]
		next.Prev[dirnext] = iedge
		next.DirPrev[dirnext] = dir
	} else {
		edge.DirNext[dir] = -1
	}

	if iprev >= 0 {
		edge.DirPrev[dir] = dirprev
		prev := &g.Edges[iprev]
		prev.Next[dirprev] = iedge
		prev.DirNext[dirprev] = dir
	} else {
		edge.DirPrev[dir] = -1
	}

	v := &g.Verts[ivert]
	v.NEdge++
	if iprev < 0 {
		v.First = iedge
		v.DirFirst = dir
	}
	if inext < 0 {
		v.Last = iedge
		v.DirLast = dir
	}
}

// EdgeRemoveDir detaches edge iedge's owner in direction dir, splices the
// neighbouring ring edges together, decrements the owning vertex's edge
// count, and deactivates the edge once neither direction is owned.
//
// Ported from Cut3d::edge_remove(Edge*,int).
func (g *Graph) EdgeRemoveDir(iedge, dir int) {
	edge := &g.Edges[iedge]
	ivert := edge.Verts[dir]
	edge.Verts[dir] = -1
	if dir == 0 {
		edge.NVert--
	} else {
		edge.NVert -= 2
	}
	if edge.NVert == 0 {
		edge.Active = false
	}

	if edge.Prev[dir] >= 0 {
		prev := &g.Edges[edge.Prev[dir]]
		dirprev := edge.DirPrev[dir]
		prev.Next[dirprev] = edge.Next[dir]
		prev.DirNext[dirprev] = edge.DirNext[dir]
	}
	if edge.Next[dir] >= 0 {
		next := &g.Edges[edge.Next[dir]]
		dirnext := edge.DirNext[dir]
		next.Prev[dirnext] = edge.Prev[dir]
		next.DirPrev[dirnext] = edge.DirPrev[dir]
	}

	v := &g.Verts[ivert]
	v.NEdge--
	if edge.Prev[dir] < 0 {
		v.First = edge.Next[dir]
		v.DirFirst = edge.DirNext[dir]
	}
	if edge.Next[dir] < 0 {
		v.Last = edge.Prev[dir]
		v.DirLast = edge.DirPrev[dir]
	}
}

// EdgeRemove detaches both directions of iedge, if owned.
func (g *Graph) EdgeRemove(iedge int) {
	edge := &g.Edges[iedge]
	if edge.Verts[0] >= 0 {
		g.EdgeRemoveDir(iedge, 0)
	}
	if edge.Verts[1] >= 0 {
		g.EdgeRemoveDir(iedge, 1)
	}
}

// VertexRemove deactivates a vertex and detaches every edge in its ring, in
// the direction the vertex owns only (the edge's other direction, if any,
// is untouched).
//
// Ported from Cut3d::vertex_remove.
func (g *Graph) VertexRemove(ivert int) {
	v := &g.Verts[ivert]
	v.Active = false

	iedge := v.First
	dir := v.DirFirst
	nedge := v.NEdge
	for i := 0; i < nedge; i++ {
		edge := &g.Edges[iedge]
		if dir == 0 {
			edge.NVert--
		} else {
			edge.NVert -= 2
		}
		if edge.NVert == 0 {
			edge.Active = false
		}
		edge.Verts[dir] = -1
		niedge := edge.Next[dir]
		ndir := edge.DirNext[dir]
		iedge, dir = niedge, ndir
	}
}

// ErrDuplicateEdge is returned by FindEdge when the match would occupy an
// already-filled direction slot on the same edge.
var ErrDuplicateEdge = errors.New("bpg: found edge already owned in that direction")

// FindEdge searches for an existing active edge with endpoints x,y in
// either order. If skipCTRI is set, edges tagged CTRI or CTRIFACE are
// ignored (used by add_face to avoid matching an on-face CTRI edge whose
// normal points into the cell). Returns the edge index and the direction
// that matches ((x,y) order is dir 0, (y,x) order is dir 1), or (-1,-1,nil)
// if no active edge matches.
func (g *Graph) FindEdge(x, y geom.Point, skipCTRI bool) (int, int, error) {
	for i := range g.Edges {
		e := &g.Edges[i]
		if !e.Active {
			continue
		}
		if skipCTRI && (e.Style == CTRI || e.Style == CTRIFACE) {
			continue
		}
		if geom.SamePoint(x, e.P1) && geom.SamePoint(y, e.P2) {
			if e.NVert%2 == 1 {
				return -1, -1, fmt.Errorf("%w: edge %d dir 0", ErrDuplicateEdge, i)
			}
			return i, 0, nil
		}
		if geom.SamePoint(x, e.P2) && geom.SamePoint(y, e.P1) {
			if e.NVert/2 == 1 {
				return -1, -1, fmt.Errorf("%w: edge %d dir 1", ErrDuplicateEdge, i)
			}
			return i, 1, nil
		}
	}
	return -1, -1, nil
}

// Endpoints returns the traversal-order endpoints of edge iedge when
// entered in direction dir: (P1,P2) for dir 0, (P2,P1) for dir 1.
func (g *Graph) Endpoints(iedge, dir int) (geom.Point, geom.Point) {
	e := &g.Edges[iedge]
	if dir == 0 {
		return e.P1, e.P2
	}
	return e.P2, e.P1
}

// Advance returns the next (edge,dir) pair after traversing iedge in
// direction dir at vertex ivert's ring.
func (g *Graph) Advance(iedge, dir int) (int, int) {
	e := &g.Edges[iedge]
	return e.Next[dir], e.DirNext[dir]
}
