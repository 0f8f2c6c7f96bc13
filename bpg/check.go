package bpg

import (
	"fmt"

	"github.com/rarefiedflow/ablate/geom"
)

// InvariantError reports which BPG invariant from spec §3/§4.2/§8 failed.
type InvariantError struct {
	Kind string
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bpg: %s: %s", e.Kind, e.Msg)
}

func invErr(kind, format string, args ...any) error {
	return &InvariantError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Check verifies the post-clip BPG invariants from spec §3:
//   - every active vertex has >= 3 distinct active edges, chained from First
//     to Last with no gaps
//   - every active edge has exactly two owning vertex slots (NVert == 3)
//   - endpoints are exactly equal between successive edges in a traversal
//   - no vertex's ring repeats the same edge twice
func (g *Graph) Check() error {
	for iv := range g.Verts {
		v := &g.Verts[iv]
		if !v.Active {
			continue
		}
		if v.NEdge < 3 {
			return invErr("vertex-too-few-edges", "vertex %d has %d edges, want >= 3", iv, v.NEdge)
		}

		seen := make(map[int]bool, v.NEdge)
		iedge := v.First
		dir := v.DirFirst
		var lastP2 geom.Point
		haveLast := false
		lastIedge, lastDir := -1, -1

		for i := 0; i < v.NEdge; i++ {
			if iedge < 0 {
				return invErr("vertex-ring-short", "vertex %d ring ended after %d/%d edges", iv, i, v.NEdge)
			}
			if seen[iedge] {
				return invErr("vertex-duplicate-edge", "vertex %d repeats edge %d", iv, iedge)
			}
			seen[iedge] = true

			e := &g.Edges[iedge]
			if !e.Active {
				return invErr("vertex-inactive-edge", "vertex %d ring references inactive edge %d", iv, iedge)
			}
			if e.NVert != 3 {
				return invErr("edge-not-two-owners", "edge %d has NVert=%d, want 3", iedge, e.NVert)
			}
			p1, p2 := g.Endpoints(iedge, dir)
			if haveLast && !geom.SamePoint(lastP2, p1) {
				return invErr("edge-endpoint-mismatch", "vertex %d: edge %d starts at %v, previous ended at %v", iv, iedge, p1, lastP2)
			}
			lastP2, haveLast = p2, true

			lastIedge, lastDir = iedge, dir
			niedge, ndir := g.Advance(iedge, dir)
			iedge, dir = niedge, ndir
		}
		if lastIedge != v.Last || lastDir != v.DirLast {
			return invErr("vertex-ring-not-closed", "vertex %d ring does not end on its last edge", iv)
		}
	}
	return nil
}
