// Package scales maps data values to pixel coordinates.
package scales

import "github.com/aclements/go-moremath/scale"

// Linear maps [D0, D1] onto [R0, R1]. The range may be inverted, as y axes are.
type Linear struct {
	domain scale.Linear
	R0, R1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{domain: scale.Linear{Min: d0, Max: d1}, R0: r0, R1: r1}
}

// Domain returns the input bounds.
func (s Linear) Domain() (float64, float64) { return s.domain.Min, s.domain.Max }

// Map converts a domain value to a pixel. A zero-width domain maps to the
// middle of the range.
func (s Linear) Map(v float64) float64 {
	return s.R0 + s.domain.Map(v)*(s.R1-s.R0)
}

// Invert converts a pixel back to a domain value.
func (s Linear) Invert(px float64) float64 {
	if s.R1 == s.R0 {
		return s.domain.Min
	}
	return s.domain.Unmap((px - s.R0) / (s.R1 - s.R0))
}

// Ticks returns at most n round values inside the domain.
func (s Linear) Ticks(n int) []float64 {
	major, _ := s.domain.Ticks(scale.TickOptions{Max: n})
	return major
}
