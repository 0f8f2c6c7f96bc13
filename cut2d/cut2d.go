// Package cut2d implements the 2D half of the clipping engine used by
// CUT3D: Sutherland-Hodgman clipping of oriented line segments (CLINES)
// against a face-local rectangle, and reconstruction of the resulting
// boundary into closed, oriented polygons (PG).
//
// CUT2D itself is not present in the retrieved original SPARTA source
// (only cut3d.cpp and fix_ablate.cpp were retrieved); this package is
// designed directly from spec §4.3, using the well known Weiler-Atherton
// technique for closing polygon boundaries clipped against a rectangular
// window: points where the boundary is cut open by a clip edge are linked
// back up by walking the rectangle's perimeter, inserting synthetic corner
// points as needed. See DESIGN.md for the reasoning.
package cut2d

import (
	"errors"
	"sort"

	"github.com/rarefiedflow/ablate/geom"
)

// PointType classifies how a boundary point in a reconstructed loop
// originated.
type PointType int

const (
	// Entry is where a clipped segment's start point was pulled onto the
	// rectangle boundary (the segment's own start was outside the rectangle).
	Entry PointType = iota
	// Exit is where a clipped segment's end point was pulled onto the
	// rectangle boundary.
	Exit
	// Two marks a segment endpoint that survived clipping unmodified (that
	// endpoint already lay on or inside the rectangle).
	Two
	// Corner is a synthetic rectangle-corner point inserted while walking
	// the perimeter to close a loop between an Exit and the next Entry.
	Corner
)

func (t PointType) String() string {
	switch t {
	case Entry:
		return "ENTRY"
	case Exit:
		return "EXIT"
	case Two:
		return "TWO"
	case Corner:
		return "CORNER"
	default:
		return "UNKNOWN"
	}
}

// Cline is one oriented input segment, already projected into the 2D face
// plane, awaiting rectangle clipping. Line identifies the originating BPG
// edge so CUT3D can later match reconstructed points back to it.
type Cline struct {
	P1, P2 geom.Point2
	Line   int
}

// Point is one point of a reconstructed loop.
type Point struct {
	X    geom.Point2
	Type PointType
	Line int // originating BPG edge id; -1 for CORNER points
	Next int // index of the next point in this loop's ring, in Points
}

// Loop is one closed ring of Points.
type Loop struct {
	First int // index into Points
	N     int
	Area  float64 // signed shoelace area; > 0 is a CCW (outer) loop
	Next  int     // next loop belonging to the same PG, -1 to terminate
}

// PG is an oriented polygon, possibly composed of an outer loop plus hole
// loops (mirroring CUT3D's PH grouping of Loops).
type PG struct {
	First int // index into Loops
	N     int
	Area  float64
}

// Result holds everything SplitFace produced for one cell face.
type Result struct {
	Points []Point
	Loops  []Loop
	PGs    []PG
}

// ErrUnbalancedBoundary is returned when the clipped segment set has a
// different number of unmatched chain starts and ends: a geometric
// inconsistency the source treats as fatal (spec §7).
var ErrUnbalancedBoundary = errors.New("cut2d: unbalanced entry/exit points on face boundary")

// SplitFace clips clines to the rectangle [lo,hi] and reconstructs the
// clipped boundary into closed oriented polygons.
func SplitFace(clines []Cline, lo, hi geom.Point2) (Result, error) {
	var res Result

	type chainPt struct {
		x        geom.Point2
		typ      PointType
		line     int
		isStart  bool // true: this is the p1-side of a clipped segment
	}

	var starts, ends []chainPt

	for _, cl := range clines {
		p1, p2, ok := clipSegment(cl.P1, cl.P2, lo, hi)
		if !ok {
			continue
		}
		startType := Two
		if !geom.SamePoint2(p1, cl.P1) {
			startType = Entry
		}
		endType := Two
		if !geom.SamePoint2(p2, cl.P2) {
			endType = Exit
		}
		starts = append(starts, chainPt{x: p1, typ: startType, line: cl.Line, isStart: true})
		ends = append(ends, chainPt{x: p2, typ: endType, line: cl.Line})
	}

	n := len(starts)
	if n == 0 {
		return res, nil
	}

	res.Points = make([]Point, 2*n)
	startIdx := func(i int) int { return 2 * i }
	endIdx := func(i int) int { return 2*i + 1 }
	for i := 0; i < n; i++ {
		// Each segment's start links forward to its own end; the end's Next
		// is filled in below to bridge to whichever segment continues the
		// boundary from there.
		res.Points[startIdx(i)] = Point{X: starts[i].x, Type: starts[i].typ, Line: starts[i].line, Next: endIdx(i)}
		res.Points[endIdx(i)] = Point{X: ends[i].x, Type: ends[i].typ, Line: ends[i].line, Next: -1}
	}

	usedStart := make([]bool, n)
	usedEnd := make([]bool, n)

	// Pass 1: link every end to a start at the exact same coordinate. This
	// closes purely-interior loops (chains of TWO points that never touch
	// the rectangle boundary) and joins any boundary point that happens to
	// coincide exactly with another segment's endpoint.
	for ei := 0; ei < n; ei++ {
		for si := 0; si < n; si++ {
			if usedStart[si] {
				continue
			}
			if geom.SamePoint2(ends[ei].x, starts[si].x) {
				res.Points[endIdx(ei)].Next = startIdx(si)
				usedStart[si] = true
				usedEnd[ei] = true
				break
			}
		}
	}

	// Pass 2: remaining unmatched ends (EXIT points) close by walking the
	// rectangle perimeter counterclockwise to the next unmatched start
	// (ENTRY point), inserting CORNER points at every rectangle corner
	// crossed along the way.
	var remEnds, remStarts []int
	for i := 0; i < n; i++ {
		if !usedEnd[i] {
			remEnds = append(remEnds, i)
		}
		if !usedStart[i] {
			remStarts = append(remStarts, i)
		}
	}
	if len(remEnds) != len(remStarts) {
		return res, ErrUnbalancedBoundary
	}
	sort.Slice(remStarts, func(a, b int) bool {
		return perimeterParam(starts[remStarts[a]].x, lo, hi) < perimeterParam(starts[remStarts[b]].x, lo, hi)
	})

	for _, ei := range remEnds {
		p := perimeterParam(ends[ei].x, lo, hi)
		// Find the start with the smallest perimeter parameter strictly
		// greater than p, wrapping around to the smallest overall.
		best := -1
		bestParam := 0.0
		for _, si := range remStarts {
			sp := perimeterParam(starts[si].x, lo, hi)
			if sp > p && (best < 0 || sp < bestParam) {
				best = si
				bestParam = sp
			}
		}
		if best < 0 {
			for _, si := range remStarts {
				sp := perimeterParam(starts[si].x, lo, hi)
				if best < 0 || sp < bestParam {
					best = si
					bestParam = sp
				}
			}
		}
		corners := cornersBetween(ends[ei].x, starts[best].x, lo, hi)
		prev := endIdx(ei)
		for _, c := range corners {
			ci := len(res.Points)
			res.Points = append(res.Points, Point{X: c, Type: Corner, Line: -1, Next: -1})
			res.Points[prev].Next = ci
			prev = ci
		}
		res.Points[prev].Next = startIdx(best)
	}

	res.Loops = traceLoops(res.Points)
	res.PGs = groupLoopsIntoPGs(res.Loops)
	for i := range res.PGs {
		res.PGs[i].Area = pgArea(res.PGs[i], res.Loops)
	}
	return res, nil
}
