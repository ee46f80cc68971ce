package scales

import (
	"time"
)

// Time maps instants in [T0, T1] linearly onto [R0, R1].
type Time struct {
	T0, T1 time.Time
	lin    Linear
}

func NewTime(t0, t1 time.Time, r0, r1 float64) Time {
	return Time{T0: t0, T1: t1, lin: NewLinear(unix(t0), unix(t1), r0, r1)}
}

func (s Time) Map(t time.Time) float64 { return s.lin.Map(unix(t)) }

func (s Time) Invert(px float64) time.Time {
	v := s.lin.Invert(px)
	sec := int64(v)
	return time.Unix(sec, int64((v-float64(sec))*1e9)).In(s.T0.Location())
}

// Ticks returns up to n evenly spaced instants, both ends included.
func (s Time) Ticks(n int) []time.Time {
	if n < 2 || !s.T1.After(s.T0) {
		return []time.Time{s.T0}
	}
	step := s.T1.Sub(s.T0) / time.Duration(n-1)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = s.T0.Add(time.Duration(i) * step)
	}
	return out
}

func unix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
