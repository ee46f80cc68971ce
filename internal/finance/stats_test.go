package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name           string
		index, pad, n  int
		wantLo, wantHi int
	}{
		{"middle", 50, 10, 100, 40, 61},
		{"start", 3, 10, 100, 0, 14},
		{"end", 98, 10, 100, 88, 100},
		{"wider than chart", 2, 50, 5, 0, 5},
		{"zero padding", 7, 0, 10, 7, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Window(tt.index, tt.pad, tt.n)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(-4, 10))
	assert.Equal(t, 9, ClampIndex(12, 10))
	assert.Equal(t, 5, ClampIndex(5, 10))
}

func TestWindowSample(t *testing.T) {
	ds := testDataset(
		testCompany("AAA", "Tech", 10, 100, 110, 90, 120),
		testCompany("BBB", "Health", 20, 50, 55, 60, 40),
	)
	m := NewPercentMemo(ds)
	got := WindowSample(m, []int{1}, 1, 1, FieldClose, 0, nil)
	assert.InDeltaSlice(t, []float64{0, 10, 20}, got, 1e-9)

	got = WindowSample(m, []int{0, 1}, 3, 0, FieldClose, 0, got[:0])
	assert.InDeltaSlice(t, []float64{20, -20}, got, 1e-9)
}

func TestExtents(t *testing.T) {
	ds := testDataset(
		testCompany("AAA", "Tech", 10, 100, 110, 90),
		testCompany("BBB", "Health", 20, 50, 55, 60),
	)
	lo, hi := ValueExtent(ds, FieldClose)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 110.0, hi)

	lo, hi = BarExtent(ds[0].Chart)
	assert.Equal(t, 89.0, lo)
	assert.Equal(t, 111.0, hi)

	lo, hi = MetricExtent(ds, MetricMarketCap)
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 20.0, hi)

	lo, hi = ValueExtent(nil, FieldClose)
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))
}
