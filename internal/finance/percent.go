package finance

import (
	"math"
	"sync"
)

// PercentChange is the percent change of field at index relative to index 0.
func PercentChange(series []Bar, index int, field Field) float64 {
	return PercentChangeFrom(series, index, field, 0)
}

// PercentChangeFrom is the percent change of field at index relative to ref.
// It is NaN when the reference value is zero.
func PercentChangeFrom(series []Bar, index int, field Field, ref int) float64 {
	v, _ := series[index].Value(field)
	r, _ := series[ref].Value(field)
	if r == 0 {
		return math.NaN()
	}
	return (v/r - 1) * 100
}

type memoKey struct {
	field Field
	ref   int
}

// PercentMemo caches percent-change rows per (field, reference index). Rows
// are built for every company on first use and are read-only to callers.
type PercentMemo struct {
	data Dataset

	mu     sync.Mutex
	tables map[memoKey][][]float64
}

func NewPercentMemo(data Dataset) *PercentMemo {
	return &PercentMemo{data: data, tables: map[memoKey][][]float64{}}
}

// At returns the percent change of company at index relative to ref.
func (m *PercentMemo) At(company, index int, field Field, ref int) float64 {
	return m.table(field, ref)[company][index]
}

// Row returns the whole percent-change series of company relative to ref.
func (m *PercentMemo) Row(company int, field Field, ref int) []float64 {
	return m.table(field, ref)[company]
}

// Len reports how many (field, ref) tables are cached.
func (m *PercentMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables)
}

func (m *PercentMemo) table(field Field, ref int) [][]float64 {
	key := memoKey{field: field, ref: ref}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[key]; ok {
		return t
	}
	t := make([][]float64, len(m.data))
	for c := range m.data {
		chart := m.data[c].Chart
		row := make([]float64, len(chart))
		for i := range chart {
			row[i] = PercentChangeFrom(chart, i, field, ref)
		}
		t[c] = row
	}
	m.tables[key] = t
	return t
}

// PercentExtent is the min and max percent change relative to index 0 over
// every bar of every company. Undefined changes are skipped.
func PercentExtent(m *PercentMemo, field Field) (lo, hi float64) {
	first := true
	for c := range m.data {
		for _, v := range m.Row(c, field, 0) {
			if math.IsNaN(v) {
				continue
			}
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
