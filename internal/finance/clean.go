package finance

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// filterNonNegative removes bars with a non-positive or non-finite price.
func filterNonNegative(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if !validPrice(b.Open) || !validPrice(b.High) || !validPrice(b.Low) || !validPrice(b.Close) {
			continue
		}
		if b.Volume < 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// filterIQR drops bars whose close-to-close log return lies outside
// [Q1 - k*IQR, Q3 + k*IQR]. Bad ticks show up as a spike out and straight
// back, so the bar is dropped and the following return is recomputed from
// the last kept bar. Short series (< minPoints) are returned untouched.
func filterIQR(bars []Bar, k float64, minPoints int) []Bar {
	if len(bars) < minPoints {
		return bars
	}
	rets := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		rets = append(rets, math.Log(bars[i].Close/bars[i-1].Close))
	}
	sorted := make([]float64, len(rets))
	copy(sorted, rets)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	if iqr <= 0 {
		return bars
	}
	lower := q1 - k*iqr
	upper := q3 + k*iqr

	out := make([]Bar, 0, len(bars))
	out = append(out, bars[0])
	for i := 1; i < len(bars); i++ {
		r := math.Log(bars[i].Close / out[len(out)-1].Close)
		if r < lower || r > upper {
			continue
		}
		out = append(out, bars[i])
	}
	if len(out) < minPoints/2 {
		return bars
	}
	return out
}
