package scales

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptySample is returned when a percentile is asked of no data.
var ErrEmptySample = errors.New("empty sample")

// PercentileExtent returns the pLo and pHi percentiles of sample. sample is
// sorted in place. Non-finite values are ignored.
func PercentileExtent(sample []float64, pLo, pHi float64) (float64, float64, error) {
	finite := sample[:0]
	for _, v := range sample {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, ErrEmptySample
	}
	sort.Float64s(finite)
	lo := stat.Quantile(clamp01(pLo), stat.Empirical, finite, nil)
	hi := stat.Quantile(clamp01(pHi), stat.Empirical, finite, nil)
	return lo, hi, nil
}

// SymmetricDomain widens [lo, hi] so it contains zero and is centred on it.
// A positive lo becomes -1 and a negative hi becomes 1 before the larger
// magnitude is mirrored. An all-zero extent yields [-1, 1].
func SymmetricDomain(lo, hi float64) (float64, float64) {
	if lo > 0 {
		lo = -1
	}
	if hi < 0 {
		hi = 1
	}
	m := math.Max(math.Abs(lo), math.Abs(hi))
	if m == 0 {
		m = 1
	}
	return -m, m
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
