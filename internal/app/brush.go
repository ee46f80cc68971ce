package app

import (
	"marketswarm/internal/scales"
)

// Brush maps the date-range brush's pixels to chart indices.
type Brush struct {
	st     *State
	bounds Bounds
	x      scales.Point
}

func NewBrush(st *State, bounds Bounds) *Brush {
	return &Brush{
		st:     st,
		bounds: bounds,
		x:      scales.Point{N: st.Data.Get().ChartLen(), R0: bounds.MinX, R1: bounds.MaxX},
	}
}

// Move sets the plotted range to the periods under [x0, x1].
func (b *Brush) Move(x0, x1 float64) error {
	lo, hi := b.x.Invert(x0), b.x.Invert(x1)
	if lo > hi {
		lo, hi = hi, lo
	}
	return b.st.SetPlottedRange(lo, hi+1)
}

// DragHandle moves the play index to the period under x.
func (b *Brush) DragHandle(x float64) error {
	return b.st.SetIndex(b.x.Invert(x))
}

// Selection is the pixel span of the plotted range.
func (b *Brush) Selection() (float64, float64) {
	r := b.st.IndexPlottedRange.Get()
	return b.x.Map(r.Lo), b.x.Map(r.Hi - 1)
}

// HandleX is the pixel of the play index.
func (b *Brush) HandleX() float64 {
	return b.x.Map(b.st.Index.Get())
}

// MonthTicks marks the first period of every month.
func (b *Brush) MonthTicks() []Tick {
	var out []Tick
	times := b.st.Times.Get()
	for i, t := range times {
		if i == 0 || t.Month() != times[i-1].Month() || t.Year() != times[i-1].Year() {
			out = append(out, Tick{Pos: b.x.Map(i), Label: t.Format("Jan")})
		}
	}
	return out
}
