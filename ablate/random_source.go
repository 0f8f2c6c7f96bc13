package ablate

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSource ports FixAblate::set_delta_random (fix_ablate.cpp:596): a
// fraction Scale of cells are decremented by an integer magnitude drawn
// uniformly from [1, MaxRandom].
//
// The original draws both variates from one RNG stream walked in a fixed
// global cell-id order, specifically so the outcome doesn't depend on which
// rank happens to own which cell. Source.Value is instead pulled
// independently per cell (no shared enumeration order is visible through
// this interface), so the same rank-independence is achieved differently:
// each cell seeds its own short-lived generator from its global id, via
// splitmix64, so any rank asking for that cell's value computes the exact
// same two variates.
type RandomSource struct {
	Scale     float64 // fraction of cells decremented, in [0,1]
	MaxRandom float64 // inclusive upper bound of the decrement magnitude
	Freq      int     // simulation steps between refreshes; 0 means every step
}

func (s RandomSource) Frequency() int {
	if s.Freq <= 0 {
		return 1
	}
	return s.Freq
}

func (s RandomSource) Value(cellID uint64) float64 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(splitmix64(cellID))}
	rn1 := u.Rand()
	rn2 := math.Trunc(u.Rand()*s.MaxRandom) + 1.0
	if rn1 > s.Scale {
		return 0
	}
	return rn2
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
