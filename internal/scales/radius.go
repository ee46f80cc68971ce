package scales

import "math"

// Radius maps a size metric to a circle radius so that area is linear in
// size: r = MaxR * sqrt(size / DomainMax).
type Radius struct {
	DomainMax float64
	MaxR      float64
}

func (s Radius) Map(size float64) float64 {
	if s.DomainMax <= 0 || size <= 0 {
		return 0
	}
	return s.MaxR * math.Sqrt(size/s.DomainMax)
}
