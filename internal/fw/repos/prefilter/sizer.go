package prefilter

import "math"

// size returns the bit count m and hash count k for n keys at false-positive
// rate p:
//
//	m = -(n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
//
// n=0 is treated as 1 and p outside (0,1) defaults to 1%. Both results are at least 1.
func size(n uint64, p float64) (uint64, uint) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = 0.01
	}
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m == 0 {
		m = 1
	}
	k := uint(math.Max(1, math.Round(float64(m)/float64(n)*math.Ln2)))
	return m, k
}
