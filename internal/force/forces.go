package force

import "math"

// PositionFunc returns the target coordinate of node i.
type PositionFunc func(i int) float64

// RadiusFunc returns the collision radius of node i. Zero leaves the node
// out of collision.
type RadiusFunc func(i int) float64

type positionForce struct {
	target   PositionFunc
	strength float64
}

type collideForce struct {
	radius     RadiusFunc
	strength   float64
	iterations int
	radii      []float64
}

func (s *Sim) applyX(alpha float64) {
	f := s.forceX
	if f == nil || f.target == nil || f.strength == 0 {
		return
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		tx := f.target(i)
		if math.IsNaN(tx) {
			continue
		}
		n.VX += (tx - n.X) * f.strength * alpha
	}
}

func (s *Sim) applyY(alpha float64) {
	f := s.forceY
	if f == nil || f.target == nil || f.strength == 0 {
		return
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		ty := f.target(i)
		if math.IsNaN(ty) {
			continue
		}
		n.VY += (ty - n.Y) * f.strength * alpha
	}
}

// applyCollide pushes overlapping circles apart using positions predicted
// from current velocities. Each overlapping pair shares the correction in
// proportion to the other circle's area.
func (s *Sim) applyCollide() {
	c := s.collide
	if c == nil || c.radius == nil || c.iterations <= 0 {
		return
	}
	if cap(c.radii) < len(s.nodes) {
		c.radii = make([]float64, len(s.nodes))
	}
	radii := c.radii[:len(s.nodes)]
	for i := range radii {
		radii[i] = c.radius(i)
	}

	for k := 0; k < c.iterations; k++ {
		for i := range s.nodes {
			ri := radii[i]
			if ri <= 0 {
				continue
			}
			a := &s.nodes[i]
			xi, yi := a.X+a.VX, a.Y+a.VY
			ri2 := ri * ri
			for j := i + 1; j < len(s.nodes); j++ {
				rj := radii[j]
				if rj <= 0 {
					continue
				}
				b := &s.nodes[j]
				r := ri + rj
				x := xi - (b.X + b.VX)
				y := yi - (b.Y + b.VY)
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = s.jiggle()
					l += x * x
				}
				if y == 0 {
					y = s.jiggle()
					l += y * y
				}
				d := math.Sqrt(l)
				push := (r - d) / d * c.strength
				x *= push
				y *= push
				w := rj * rj / (ri2 + rj*rj)
				a.VX += x * w
				a.VY += y * w
				b.VX -= x * (1 - w)
				b.VY -= y * (1 - w)
			}
		}
	}
}

func (s *Sim) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
