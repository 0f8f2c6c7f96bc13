package cut2d

// traceLoops walks the Next-linked ring starting from every point not yet
// visited and packages each disjoint cycle into a Loop.
func traceLoops(points []Point) []Loop {
	visited := make([]bool, len(points))
	var loops []Loop

	for start := range points {
		if visited[start] {
			continue
		}
		first := start
		n := 0
		p := first
		for {
			if visited[p] {
				break
			}
			visited[p] = true
			n++
			p = points[p].Next
			if p == first {
				break
			}
		}
		loops = append(loops, Loop{First: first, N: n, Area: shoelace(points, first, n), Next: -1})
	}
	return loops
}

// shoelace computes the signed area of the loop starting at points[first]
// with n vertices, walking Next pointers.
func shoelace(points []Point, first, n int) float64 {
	var sum float64
	p := first
	for i := 0; i < n; i++ {
		q := points[p].Next
		sum += points[p].X.X*points[q].X.Y - points[q].X.X*points[p].X.Y
		p = q
	}
	return 0.5 * sum
}

// groupLoopsIntoPGs assigns each loop to a polygon, mirroring the way CUT3D
// folds Loops into Polyhedra (loop2ph): a single positive-area (CCW, outer)
// loop absorbs every negative-area (CW, hole) loop into one PG; when there
// is more than one outer loop, each starts its own PG and holes are not
// distinguished further (this mirrors the original's ambiguity for
// multiply-connected faces, which spec.md does not resolve either).
func groupLoopsIntoPGs(loops []Loop) []PG {
	var outer []int
	var holes []int
	for i, l := range loops {
		if l.Area >= 0 {
			outer = append(outer, i)
		} else {
			holes = append(holes, i)
		}
	}

	if len(outer) == 0 {
		return nil
	}

	pgs := make([]PG, len(outer))
	for pi, oi := range outer {
		pgs[pi] = PG{First: oi, N: 1}
		if len(outer) == 1 {
			prev := oi
			for _, hi := range holes {
				loops[prev].Next = hi
				prev = hi
				pgs[pi].N++
			}
			loops[prev].Next = -1
		} else {
			loops[oi].Next = -1
		}
	}
	return pgs
}

// pgArea sums the signed areas of every loop belonging to pg.
func pgArea(pg PG, loops []Loop) float64 {
	var sum float64
	l := pg.First
	for i := 0; i < pg.N; i++ {
		sum += loops[l].Area
		l = loops[l].Next
	}
	return sum
}
