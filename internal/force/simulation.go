// Package force runs a damped force simulation that pulls circles toward
// target positions while keeping them from overlapping.
package force

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"marketswarm/internal/loop"
)

// Node is one simulated circle. Positions are owned by the Sim.
type Node struct {
	ID     string
	X, Y   float64
	VX, VY float64
}

type Config struct {
	AlphaMin      float64
	AlphaTarget   float64
	VelocityDecay float64
	Seed          int64
}

func DefaultConfig() Config {
	return Config{AlphaMin: 0.001, AlphaTarget: 0.1, VelocityDecay: 0.1, Seed: 1}
}

type Sim struct {
	nodes []Node

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	forceX  *positionForce
	forceY  *positionForce
	collide *collideForce

	rng     *rand.Rand
	onTick  []func(id string, x, y float64)
	stopper loop.Stopper
	ticks   int
	log     zerolog.Logger
}

// New creates a simulation over ids, all starting at the origin.
func New(ids []string, cfg Config, log zerolog.Logger) *Sim {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i].ID = id
	}
	if cfg.AlphaMin <= 0 {
		cfg.AlphaMin = 0.001
	}
	return &Sim{
		nodes:         nodes,
		alpha:         1,
		alphaMin:      cfg.AlphaMin,
		alphaDecay:    1 - math.Pow(cfg.AlphaMin, 1.0/300),
		alphaTarget:   cfg.AlphaTarget,
		velocityDecay: cfg.VelocityDecay,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		log:           log.With().Str("component", "force").Logger(),
	}
}

func (s *Sim) Len() int { return len(s.nodes) }

func (s *Sim) Alpha() float64 { return s.alpha }

// Ticks is the number of steps taken so far.
func (s *Sim) Ticks() int { return s.ticks }

// Reheat sets alpha, e.g. back to 1 after a large change of targets.
func (s *Sim) Reheat(alpha float64) { s.alpha = alpha }

// SetForceX replaces the horizontal pull. It applies from the next tick.
func (s *Sim) SetForceX(target PositionFunc, strength float64) {
	s.forceX = &positionForce{target: target, strength: strength}
}

// SetForceY replaces the vertical pull.
func (s *Sim) SetForceY(target PositionFunc, strength float64) {
	s.forceY = &positionForce{target: target, strength: strength}
}

// SetCollide replaces the collision force.
func (s *Sim) SetCollide(radius RadiusFunc, strength float64, iterations int) {
	var radii []float64
	if s.collide != nil {
		radii = s.collide.radii
	}
	s.collide = &collideForce{radius: radius, strength: strength, iterations: iterations, radii: radii}
}

// OnTick registers fn to receive every node's position after each tick.
func (s *Sim) OnTick(fn func(id string, x, y float64)) {
	s.onTick = append(s.onTick, fn)
}

// Positions returns a copy of every node.
func (s *Sim) Positions() []Node {
	return append([]Node(nil), s.nodes...)
}

// Position returns node i's coordinates.
func (s *Sim) Position(i int) (x, y float64) {
	return s.nodes[i].X, s.nodes[i].Y
}

// Tick advances the simulation one step and emits positions.
func (s *Sim) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyX(s.alpha)
	s.applyY(s.alpha)
	s.applyCollide()

	keep := 1 - s.velocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
	s.ticks++

	for _, fn := range s.onTick {
		for i := range s.nodes {
			fn(s.nodes[i].ID, s.nodes[i].X, s.nodes[i].Y)
		}
	}
}

// Start ticks the simulation every d on sched until Stop, or until alpha
// falls below the minimum.
func (s *Sim) Start(sched loop.Scheduler, d time.Duration) {
	s.Stop()
	s.log.Debug().Dur("every", d).Int("nodes", len(s.nodes)).Msg("simulation started")
	s.stopper = sched.Every(d, func() {
		s.Tick()
		if s.alpha < s.alphaMin {
			s.log.Debug().Int("ticks", s.ticks).Msg("simulation cooled")
			s.Stop()
		}
	})
}

func (s *Sim) Stop() {
	if s.stopper != nil {
		s.stopper.Stop()
		s.stopper = nil
	}
}

func (s *Sim) Running() bool { return s.stopper != nil }

// Teleport moves the given nodes straight to target plus normal jitter with
// standard deviation spread, and clears their velocity.
func (s *Sim) Teleport(idx []int, tx, ty PositionFunc, spread float64) {
	jitter := distuv.Normal{Mu: 0, Sigma: spread}
	for _, i := range idx {
		n := &s.nodes[i]
		n.X = tx(i) + jitter.Quantile(s.uniform())
		n.Y = ty(i) + jitter.Quantile(s.uniform())
		n.VX, n.VY = 0, 0
	}
}

// uniform draws from the open interval (0, 1).
func (s *Sim) uniform() float64 {
	for {
		u := s.rng.Float64()
		if u > 0 {
			return u
		}
	}
}
