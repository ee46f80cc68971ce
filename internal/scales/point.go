package scales

import "math"

// Point spaces N ordinal positions evenly across [R0, R1], first at R0 and
// last at R1.
type Point struct {
	N      int
	R0, R1 float64
}

// Step is the pixel distance between neighbours.
func (s Point) Step() float64 {
	if s.N <= 1 {
		return 0
	}
	return (s.R1 - s.R0) / float64(s.N-1)
}

func (s Point) Map(i int) float64 {
	if s.N == 1 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + float64(i)*s.Step()
}

// Invert returns the position nearest px, clamped to [0, N).
func (s Point) Invert(px float64) int {
	if s.N <= 1 {
		return 0
	}
	i := int(math.Round((px - s.R0) / s.Step()))
	if i < 0 {
		return 0
	}
	if i >= s.N {
		return s.N - 1
	}
	return i
}
