package simulate

import "sort"

// lookup maps x through the sample pairs (xs ascending) by returning the ys
// entry paired with the largest xs entry not exceeding x. Queries below the
// first sample return the first entry.
//
// There is deliberately no interpolation between samples. Tuned thresholds
// elsewhere were calibrated against this bias, so a switch to true linear
// interpolation must happen here and be re-tuned as a whole.
func lookup(xs, ys []float64, x float64) float64 {
	i := sort.SearchFloat64s(xs, x)

	switch {
	case i < len(xs) && xs[i] == x:
		return ys[i]
	case i == 0:
		return ys[0]
	default:
		return ys[i-1]
	}
}
