package cut2d

import "github.com/rarefiedflow/ablate/geom"

// clipSegment clips the open segment p1->p2 against the rectangle [lo,hi]
// using four successive half-plane clips (Sutherland-Hodgman applied to a
// single segment instead of a polygon ring). ok is false if the whole
// segment lies outside the rectangle.
func clipSegment(p1, p2 geom.Point2, lo, hi geom.Point2) (geom.Point2, geom.Point2, bool) {
	type plane struct {
		dim    geom.Dim2
		value  float64
		inside func(v float64) bool
	}
	planes := [4]plane{
		{geom.U, lo.X, func(v float64) bool { return v >= lo.X }},
		{geom.U, hi.X, func(v float64) bool { return v <= hi.X }},
		{geom.V, lo.Y, func(v float64) bool { return v >= lo.Y }},
		{geom.V, hi.Y, func(v float64) bool { return v <= hi.Y }},
	}

	a, b := p1, p2
	for _, pl := range planes {
		av := component2(a, pl.dim)
		bv := component2(b, pl.dim)
		ain := pl.inside(av)
		bin := pl.inside(bv)
		switch {
		case ain && bin:
			// both endpoints survive this plane
		case ain && !bin:
			b = geom.Between2(a, b, pl.dim, pl.value)
		case !ain && bin:
			a = geom.Between2(a, b, pl.dim, pl.value)
		default:
			return geom.Point2{}, geom.Point2{}, false
		}
	}
	return a, b, true
}

func component2(p geom.Point2, dim geom.Dim2) float64 {
	if dim == geom.U {
		return p.X
	}
	return p.Y
}

// perimeterParam maps a point known to lie on the rectangle boundary to a
// counterclockwise perimeter parameter in [0,4): bottom edge is [0,1), right
// edge [1,2), top edge [2,3), left edge [3,4).
func perimeterParam(p, lo, hi geom.Point2) float64 {
	w := hi.X - lo.X
	h := hi.Y - lo.Y
	switch {
	case p.Y == lo.Y && p.X < hi.X:
		return frac(p.X-lo.X, w)
	case p.X == hi.X && p.Y < hi.Y:
		return 1 + frac(p.Y-lo.Y, h)
	case p.Y == hi.Y && p.X > lo.X:
		return 2 + frac(hi.X-p.X, w)
	default:
		return 3 + frac(hi.Y-p.Y, h)
	}
}

func frac(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// corners of the rectangle in counterclockwise order, params 0,1,2,3.
func rectCorners(lo, hi geom.Point2) [4]geom.Point2 {
	return [4]geom.Point2{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
	}
}

// cornersBetween returns, in walking order, the rectangle corners crossed
// travelling counterclockwise from point from to point to along the
// perimeter.
func cornersBetween(from, to, lo, hi geom.Point2) []geom.Point2 {
	pf := perimeterParam(from, lo, hi)
	pt := perimeterParam(to, lo, hi)
	corners := rectCorners(lo, hi)

	target := pt
	if target <= pf {
		target += 4
	}

	var out []geom.Point2
	start := int(pf) + 1
	for c := start; float64(c) < target; c++ {
		out = append(out, corners[((c%4)+4)%4])
	}
	return out
}
