// Package geom provides the low-level exact-arithmetic primitives shared by
// the BPG, CUT2D and CUT3D packages: point equality, half-space
// classification, corner matching and linear interpolation between two
// points along one axis.
//
// Every comparison here is bit-exact. The source system this package is
// modeled on assumes surface geometry is generated to already coincide with
// grid lines and corners, so no epsilon-tolerant comparisons are used
// anywhere in this package.
package geom

import "gonum.org/v1/gonum/spatial/r3"

// Point is a point in 3-space. It is a plain alias for gonum's r3.Vec so
// that callers can use r3's arithmetic helpers (r3.Add, r3.Sub, r3.Cross,
// r3.Dot, ...) directly on cut-cell geometry.
type Point = r3.Vec

// SamePoint reports whether x and y are bit-exact componentwise equal.
func SamePoint(x, y Point) bool {
	return x.X == y.X && x.Y == y.Y && x.Z == y.Z
}

// Flag classifies a point's position relative to an axis-aligned box.
type Flag int

const (
	Exterior Flag = iota
	Interior
	Border
)

func (f Flag) String() string {
	switch f {
	case Exterior:
		return "EXTERIOR"
	case Interior:
		return "INTERIOR"
	case Border:
		return "BORDER"
	default:
		return "UNKNOWN"
	}
}

// PtFlag returns EXTERIOR if any component of p lies strictly outside
// [lo,hi], INTERIOR if all components lie strictly inside, else BORDER.
func PtFlag(p, lo, hi Point) Flag {
	if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y || p.Z < lo.Z || p.Z > hi.Z {
		return Exterior
	}
	if p.X > lo.X && p.X < hi.X && p.Y > lo.Y && p.Y < hi.Y && p.Z > lo.Z && p.Z < hi.Z {
		return Interior
	}
	return Border
}

// Corner returns which of the 8 corners of box [lo,hi] equals p, numbered
// lexicographically in (z,y,x) with z most significant: corner 0 is
// (lo,lo,lo), corner 7 is (hi,hi,hi). Returns -1 if p is not a corner.
func Corner(p, lo, hi Point) int {
	var z, y, x int
	switch p.Z {
	case lo.Z:
		z = 0
	case hi.Z:
		z = 1
	default:
		return -1
	}
	switch p.Y {
	case lo.Y:
		y = 0
	case hi.Y:
		y = 1
	default:
		return -1
	}
	switch p.X {
	case lo.X:
		x = 0
	case hi.X:
		x = 1
	default:
		return -1
	}
	return z*4 + y*2 + x
}

// Dim is one of the three axes.
type Dim int

const (
	X Dim = iota
	Y
	Z
)

// Between returns the exact linear interpolation of a and b along axis dim
// such that the returned point's dim component equals value. The caller
// must guarantee a[dim] != b[dim] and that value lies between them.
func Between(a, b Point, dim Dim, value float64) Point {
	av, bv := component(a, dim), component(b, dim)
	t := (value - av) / (bv - av)
	c := Point{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
	setComponent(&c, dim, value)
	return c
}

func component(p Point, dim Dim) float64 {
	switch dim {
	case X:
		return p.X
	case Y:
		return p.Y
	default:
		return p.Z
	}
}

func setComponent(p *Point, dim Dim, v float64) {
	switch dim {
	case X:
		p.X = v
	case Y:
		p.Y = v
	default:
		p.Z = v
	}
}
