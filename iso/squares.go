package iso

import "github.com/rarefiedflow/ablate/geom"

// segment2 is one interpolated marching-squares boundary segment, oriented
// so the fluid side lies to the segment's rotate90ccw(direction) side.
type segment2 struct {
	P1, P2 geom.Point2
}

func lerp2(x0, x1, s0, s1, t float64) float64 {
	return x0 + (x1-x0)*(t-s0)/(s1-s0)
}

// marchSquare classifies the 4 corners of one cell (a,b,c,d at (x0,y0),
// (x1,y0), (x0,y1), (x1,y1) respectively) against threshold t and returns
// the boundary segments separating solid (>= t) from fluid (< t).
//
// Grounded on jakecoffman-cp/march.go's MarchCellSoft: same corner-bit
// code (at | bt<<1 | ct<<2 | dt<<3) and the same 16-case interpolated
// segment table, adapted from that package's Vector/Lerp types to
// geom.Point2 and a caller-supplied corner-value slice.
func marchSquare(a, b, c, d, t, x0, x1, y0, y1 float64) []segment2 {
	var at, bt, ct, dt int
	if a >= t {
		at = 1
	}
	if b >= t {
		bt = 1
	}
	if c >= t {
		ct = 1
	}
	if d >= t {
		dt = 1
	}

	p := func(x, y float64) geom.Point2 { return geom.Point2{X: x, Y: y} }
	ab := func() float64 { return lerp2(x0, x1, a, b, t) }
	cd := func() float64 { return lerp2(x0, x1, c, d, t) }
	ac := func() float64 { return lerp2(y0, y1, a, c, t) }
	bd := func() float64 { return lerp2(y0, y1, b, d, t) }

	switch at | bt<<1 | ct<<2 | dt<<3 {
	case 0x1:
		return []segment2{{p(x0, ac()), p(ab(), y0)}}
	case 0x2:
		return []segment2{{p(ab(), y0), p(x1, bd())}}
	case 0x3:
		return []segment2{{p(x0, ac()), p(x1, bd())}}
	case 0x4:
		return []segment2{{p(cd(), y1), p(x0, ac())}}
	case 0x5:
		return []segment2{{p(cd(), y1), p(ab(), y0)}}
	case 0x6:
		return []segment2{
			{p(ab(), y0), p(x1, bd())},
			{p(cd(), y1), p(x0, ac())},
		}
	case 0x7:
		return []segment2{{p(cd(), y1), p(x1, bd())}}
	case 0x8:
		return []segment2{{p(x1, bd()), p(cd(), y1)}}
	case 0x9:
		return []segment2{
			{p(x0, ac()), p(ab(), y0)},
			{p(x1, bd()), p(cd(), y1)},
		}
	case 0xA:
		return []segment2{{p(ab(), y0), p(cd(), y1)}}
	case 0xB:
		return []segment2{{p(x0, ac()), p(cd(), y1)}}
	case 0xC:
		return []segment2{{p(x1, bd()), p(x0, ac())}}
	case 0xD:
		return []segment2{{p(x1, bd()), p(ab(), y0)}}
	case 0xE:
		return []segment2{{p(ab(), y0), p(x0, ac())}}
	default: // 0x0, 0xF: no corners differ, no crossing
		return nil
	}
}
