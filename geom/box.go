package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned 3D box, the shape of one grid cell.
type Box struct {
	Lo, Hi Point
}

// Size returns the box's extent along each axis.
func (b Box) Size() Point {
	return r3.Sub(b.Hi, b.Lo)
}

// Center returns the box's centroid.
func (b Box) Center() Point {
	return r3.Add(b.Lo, r3.Scale(0.5, b.Size()))
}

// Volume returns the box's axis-aligned volume.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Vertices returns the box's 8 corners in the same lexicographic (z,y,x)
// order used by Corner: index 0 is (lo,lo,lo), index 7 is (hi,hi,hi).
func (b Box) Vertices() [8]Point {
	return [8]Point{
		{X: b.Lo.X, Y: b.Lo.Y, Z: b.Lo.Z},
		{X: b.Hi.X, Y: b.Lo.Y, Z: b.Lo.Z},
		{X: b.Lo.X, Y: b.Hi.Y, Z: b.Lo.Z},
		{X: b.Hi.X, Y: b.Hi.Y, Z: b.Lo.Z},
		{X: b.Lo.X, Y: b.Lo.Y, Z: b.Hi.Z},
		{X: b.Hi.X, Y: b.Lo.Y, Z: b.Hi.Z},
		{X: b.Lo.X, Y: b.Hi.Y, Z: b.Hi.Z},
		{X: b.Hi.X, Y: b.Hi.Y, Z: b.Hi.Z},
	}
}

// Box2 is an axis-aligned rectangle, used for CUT2D face-local clipping.
type Box2 struct {
	Lo, Hi Point2
}

// Size returns the rectangle's extent along each axis.
func (b Box2) Size() Point2 {
	return r2.Sub(b.Hi, b.Lo)
}

// Area returns the rectangle's area.
func (b Box2) Area() float64 {
	s := b.Size()
	return s.X * s.Y
}
