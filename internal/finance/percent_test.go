package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	series := []Bar{{Close: 100}, {Close: 110}, {Close: 90}}

	assert.InDelta(t, 0, PercentChange(series, 0, FieldClose), 1e-9)
	assert.InDelta(t, 10, PercentChange(series, 1, FieldClose), 1e-9)
	assert.InDelta(t, -10, PercentChange(series, 2, FieldClose), 1e-9)

	// Rebased on index 1.
	assert.InDelta(t, (90.0/110.0-1)*100, PercentChangeFrom(series, 2, FieldClose, 1), 1e-9)
	assert.InDelta(t, 0, PercentChangeFrom(series, 1, FieldClose, 1), 1e-9)
}

func TestPercentChangeFromZeroReferenceIsNaN(t *testing.T) {
	series := []Bar{{Open: 0, Close: 10}, {Open: 5, Close: 12}}
	assert.True(t, math.IsNaN(PercentChange(series, 1, FieldOpen)))
	assert.True(t, math.IsNaN(PercentChange(series, 0, FieldOpen)))
	assert.InDelta(t, 20, PercentChange(series, 1, FieldClose), 1e-9)
}

func TestPercentChangeDoesNotTouchSeries(t *testing.T) {
	series := []Bar{{Close: 100}, {Close: 110}}
	before := append([]Bar(nil), series...)
	_ = PercentChange(series, 1, FieldClose)
	assert.Equal(t, before, series)
}

func TestPercentMemo(t *testing.T) {
	ds := testDataset(
		testCompany("AAA", "Tech", 10, 100, 110, 90),
		testCompany("BBB", "Health", 20, 50, 55, 60),
	)
	m := NewPercentMemo(ds)

	assert.InDelta(t, 10, m.At(0, 1, FieldClose, 0), 1e-9)
	assert.InDelta(t, 20, m.At(1, 2, FieldClose, 0), 1e-9)
	assert.Equal(t, 1, m.Len())

	// Same table is reused.
	row := m.Row(1, FieldClose, 0)
	require.Len(t, row, 3)
	assert.Equal(t, 1, m.Len())

	_ = m.At(0, 0, FieldClose, 2)
	assert.Equal(t, 2, m.Len())

	for c := range ds {
		for i := range ds[c].Chart {
			assert.Equal(t, PercentChangeFrom(ds[c].Chart, i, FieldOpen, 1), m.At(c, i, FieldOpen, 1))
		}
	}
}

func TestPercentExtent(t *testing.T) {
	ds := testDataset(
		testCompany("AAA", "Tech", 10, 100, 110, 90),
		testCompany("BBB", "Health", 20, 50, 55, 60),
	)
	lo, hi := PercentExtent(NewPercentMemo(ds), FieldClose)
	assert.InDelta(t, -10, lo, 1e-9)
	assert.InDelta(t, 20, hi, 1e-9)
}

func TestPercentExtentSkipsZeroReference(t *testing.T) {
	ds := testDataset(
		testCompany("AAA", "Tech", 10, 100, 110, 90),
		testCompany("BBB", "Health", 20, 50, 55, 60),
	)
	ds[1].Chart[0].Open = 0
	lo, hi := PercentExtent(NewPercentMemo(ds), FieldOpen)
	assert.InDelta(t, -10, lo, 1e-9)
	assert.InDelta(t, 10, hi, 1e-9)
}
