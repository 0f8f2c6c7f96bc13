package geom

import "gonum.org/v1/gonum/spatial/r2"

// Point2 is a point in the plane, used by CUT2D for face-local clipping.
type Point2 = r2.Vec

// SamePoint2 reports whether x and y are bit-exact componentwise equal.
func SamePoint2(x, y Point2) bool {
	return x.X == y.X && x.Y == y.Y
}

// Dim2 is one of the two planar axes.
type Dim2 int

const (
	U Dim2 = iota
	V
)

// Between2 is the 2D analogue of Between: exact linear interpolation of a
// and b along axis dim so the result's dim component equals value.
func Between2(a, b Point2, dim Dim2, value float64) Point2 {
	av, bv := component2(a, dim), component2(b, dim)
	t := (value - av) / (bv - av)
	c := Point2{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
	setComponent2(&c, dim, value)
	return c
}

func component2(p Point2, dim Dim2) float64 {
	if dim == U {
		return p.X
	}
	return p.Y
}

func setComponent2(p *Point2, dim Dim2, v float64) {
	if dim == U {
		p.X = v
	} else {
		p.Y = v
	}
}

// PtFlag2 is the 2D analogue of PtFlag against a rectangle [lo,hi].
func PtFlag2(p, lo, hi Point2) Flag {
	if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
		return Exterior
	}
	if p.X > lo.X && p.X < hi.X && p.Y > lo.Y && p.Y < hi.Y {
		return Interior
	}
	return Border
}
