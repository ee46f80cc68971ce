package scales

// Sector places sectors along the x axis. When grouping, the span is cut into
// len(Order)+1 equal steps and the i-th sector sits at step i+1, so every
// sector is strictly inside (MinX, MaxX). Otherwise everything maps to the
// midpoint.
type Sector struct {
	Order      []string
	Grouping   bool
	MinX, MaxX float64
}

// Map returns the x of sector. The bool is false for a sector that is not
// in Order while grouping; callers should check membership first.
func (s Sector) Map(sector string) (float64, bool) {
	if !s.Grouping {
		return (s.MinX + s.MaxX) / 2, true
	}
	step := (s.MaxX - s.MinX) / float64(len(s.Order)+1)
	for i, name := range s.Order {
		if name == sector {
			return s.MinX + float64(i+1)*step, true
		}
	}
	return 0, false
}
