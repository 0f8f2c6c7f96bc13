package ablate

import "github.com/rarefiedflow/ablate/gridblock"

// decrementCell ports FixAblate::decrement (fix_ablate.cpp:724): repeatedly
// pick the smallest strictly-positive, not-yet-touched corner and subtract
// as much of total as it can hold, moving on to the next-smallest corner
// when total remains. No corner ever goes negative.
func decrementCell(c *gridblock.Cell, total float64) []float64 {
	cdelta := make([]float64, len(c.CValues))
	for total > 0 {
		imin := -1
		minValue := 256.0 // corner values live on a 0..255 scale
		for i, v := range c.CValues {
			if v > 0 && v < minValue && cdelta[i] == 0 {
				imin = i
				minValue = v
			}
		}
		if imin == -1 {
			break
		}
		if total < c.CValues[imin] {
			cdelta[imin] += total
			total = 0
		} else {
			cdelta[imin] = c.CValues[imin]
			total -= c.CValues[imin]
		}
	}
	return cdelta
}
