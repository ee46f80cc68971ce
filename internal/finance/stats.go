package finance

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Window returns the half-open index range [index-padding, index+padding]
// clamped to [0, n).
func Window(index, padding, n int) (lo, hi int) {
	lo = index - padding
	if lo < 0 {
		lo = 0
	}
	hi = index + padding + 1
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// ClampIndex pins i into [0, n). n must be positive.
func ClampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// WindowSample appends the percent change of every row in rows, at every
// index of the window around index, to dst.
func WindowSample(m *PercentMemo, rows []int, index, padding int, field Field, ref int, dst []float64) []float64 {
	for _, r := range rows {
		row := m.Row(r, field, ref)
		lo, hi := Window(index, padding, len(row))
		dst = append(dst, row[lo:hi]...)
	}
	return dst
}

// ValueExtent is the min and max of field across every bar of every company.
// NaN when the dataset is empty.
func ValueExtent(ds Dataset, field Field) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	vals := make([]float64, 0, ds.ChartLen())
	for c := range ds {
		vals = vals[:0]
		for i := range ds[c].Chart {
			v, _ := ds[c].Chart[i].Value(field)
			vals = append(vals, v)
		}
		lo, hi = mergeBounds(lo, hi, vals)
	}
	return lo, hi
}

// BarExtent is the low/high envelope of one chart.
func BarExtent(chart []Bar) (lo, hi float64) {
	lows := make([]float64, len(chart))
	highs := make([]float64, len(chart))
	for i := range chart {
		lows[i], highs[i] = chart[i].Low, chart[i].High
	}
	lo, _ = stats.Bounds(lows)
	_, hi = stats.Bounds(highs)
	return lo, hi
}

// MetricExtent is the min and max of a per-company metric.
func MetricExtent(ds Dataset, m Metric) (lo, hi float64) {
	vals := make([]float64, len(ds))
	for i := range ds {
		vals[i], _ = ds[i].Metric(m)
	}
	return stats.Bounds(vals)
}

func mergeBounds(lo, hi float64, vals []float64) (float64, float64) {
	mn, mx := stats.Bounds(vals)
	if math.IsNaN(lo) || mn < lo {
		lo = mn
	}
	if math.IsNaN(hi) || mx > hi {
		hi = mx
	}
	return lo, hi
}
