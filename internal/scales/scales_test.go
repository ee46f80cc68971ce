package scales

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear(t *testing.T) {
	y := NewLinear(-10, 10, 500, 100)
	assert.InDelta(t, 300, y.Map(0), 1e-9)
	assert.InDelta(t, 100, y.Map(10), 1e-9)
	assert.InDelta(t, 500, y.Map(-10), 1e-9)
	assert.InDelta(t, 5, y.Invert(y.Map(5)), 1e-9)

	flat := NewLinear(3, 3, 0, 100)
	assert.InDelta(t, 50, flat.Map(3), 1e-9)

	ticks := y.Ticks(5)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 5)
	for _, v := range ticks {
		assert.True(t, v >= -10 && v <= 10)
	}
}

func TestPoint(t *testing.T) {
	p := Point{N: 5, R0: 0, R1: 100}
	assert.Equal(t, 25.0, p.Step())
	assert.Equal(t, 0.0, p.Map(0))
	assert.Equal(t, 100.0, p.Map(4))
	assert.Equal(t, 2, p.Invert(55))
	assert.Equal(t, 0, p.Invert(-40))
	assert.Equal(t, 4, p.Invert(400))

	one := Point{N: 1, R0: 0, R1: 100}
	assert.Equal(t, 50.0, one.Map(0))
	assert.Equal(t, 0, one.Invert(80))
}

func TestTime(t *testing.T) {
	t0 := time.Date(2021, 3, 1, 9, 30, 0, 0, time.UTC)
	t1 := t0.Add(10 * 24 * time.Hour)
	s := NewTime(t0, t1, 50, 550)
	assert.InDelta(t, 50, s.Map(t0), 1e-6)
	assert.InDelta(t, 300, s.Map(t0.Add(5*24*time.Hour)), 1e-6)
	assert.WithinDuration(t, t0.Add(24*time.Hour), s.Invert(100), time.Second)

	ticks := s.Ticks(3)
	require.Len(t, ticks, 3)
	assert.Equal(t, t1, ticks[2])
}

func TestSectorScale(t *testing.T) {
	s := Sector{Order: []string{"Tech", "Health"}, Grouping: true, MinX: 20, MaxX: 1000}
	tech, ok := s.Map("Tech")
	require.True(t, ok)
	health, ok := s.Map("Health")
	require.True(t, ok)
	assert.NotEqual(t, tech, health)
	for _, x := range []float64{tech, health} {
		assert.Greater(t, x, s.MinX)
		assert.Less(t, x, s.MaxX)
	}
	_, ok = s.Map("Energy")
	assert.False(t, ok)

	s.Grouping = false
	mid, ok := s.Map("Energy")
	assert.True(t, ok)
	assert.Equal(t, 510.0, mid)
}

func TestRadiusIsAreaLinear(t *testing.T) {
	r := Radius{DomainMax: 1000, MaxR: 20}
	sizes := []float64{1, 10, 50, 100, 250}
	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, r.Map(sizes[i]), r.Map(sizes[i-1]))
	}
	for _, s := range sizes {
		a1 := math.Pi * math.Pow(r.Map(s), 2)
		a4 := math.Pi * math.Pow(r.Map(4*s), 2)
		assert.InDelta(t, 4, a4/a1, 1e-9)
	}
	assert.Equal(t, 20.0, r.Map(1000))
	assert.Equal(t, 0.0, r.Map(0))
	assert.Equal(t, 0.0, Radius{}.Map(5))
}

func TestSymmetricDomain(t *testing.T) {
	tests := []struct {
		lo, hi, want float64
	}{
		{-5, 12, 12},
		{-30, 4, 30},
		{3, 8, 8},
		{-9, -2, 9},
		{0.5, 0.7, 1},
		{-0.2, -0.1, 1},
		{0, 0, 1},
	}
	for _, tt := range tests {
		lo, hi := SymmetricDomain(tt.lo, tt.hi)
		assert.LessOrEqual(t, lo, 0.0)
		assert.GreaterOrEqual(t, hi, 0.0)
		assert.Equal(t, math.Abs(lo), math.Abs(hi))
		assert.Equal(t, tt.want, hi, "extent [%v, %v]", tt.lo, tt.hi)
	}
}

func TestPercentileExtent(t *testing.T) {
	sample := make([]float64, 0, 101)
	for i := 100; i >= 0; i-- {
		sample = append(sample, float64(i))
	}
	lo, hi, err := PercentileExtent(sample, 0.05, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 95.0, hi)

	lo, hi, err = PercentileExtent([]float64{3, math.Inf(1), -2, math.NaN()}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 3.0, hi)

	_, _, err = PercentileExtent(nil, 0, 1)
	assert.ErrorIs(t, err, ErrEmptySample)
	_, _, err = PercentileExtent([]float64{math.NaN()}, 0, 1)
	assert.ErrorIs(t, err, ErrEmptySample)
}
