package reconcile

import "math"

// round2 rounds a price to cents. All derived prices are stored at cent
// precision; anything finer is float noise.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// centsEqual compares two prices at cent precision. Direct float equality
// produces phantom diffs (and phantom updates) on every run.
func centsEqual(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
