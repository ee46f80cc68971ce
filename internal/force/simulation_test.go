package force

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketswarm/internal/loop"
)

func constant(v float64) PositionFunc { return func(int) float64 { return v } }

func newTestSim(ids ...string) *Sim {
	return New(ids, DefaultConfig(), zerolog.Nop())
}

func TestPullTowardTarget(t *testing.T) {
	s := newTestSim("a")
	s.Teleport([]int{0}, constant(0), constant(0), 0)
	s.SetForceX(constant(100), 0.1)
	s.SetForceY(constant(-50), 0.1)
	for i := 0; i < 2000; i++ {
		s.Tick()
	}
	x, y := s.Position(0)
	assert.InDelta(t, 100, x, 0.5)
	assert.InDelta(t, -50, y, 0.5)
}

func TestZeroStrengthLeavesAxisAlone(t *testing.T) {
	s := newTestSim("a")
	s.Teleport([]int{0}, constant(7), constant(0), 0)
	s.SetForceX(constant(100), 0)
	s.SetForceY(constant(10), 0.1)
	for i := 0; i < 100; i++ {
		s.Tick()
	}
	x, _ := s.Position(0)
	assert.Equal(t, 7.0, x)
}

func TestCollisionSeparates(t *testing.T) {
	s := newTestSim("a", "b", "c")
	s.Teleport([]int{0, 1, 2}, constant(0), constant(0), 0)
	s.SetForceX(constant(0), 0.01)
	s.SetForceY(constant(0), 0.01)
	s.SetCollide(func(int) float64 { return 10 }, 1, 2)
	for i := 0; i < 300; i++ {
		s.Tick()
	}
	nodes := s.Positions()
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			d := math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			assert.Greater(t, d, 18.0, "%s-%s", nodes[i].ID, nodes[j].ID)
		}
	}
}

func TestZeroRadiusExcludedFromCollision(t *testing.T) {
	s := newTestSim("in", "out")
	s.Teleport([]int{0, 1}, constant(0), constant(0), 0)
	radius := func(i int) float64 {
		if i == 1 {
			return 0
		}
		return 10
	}
	s.SetCollide(radius, 1, 2)
	for i := 0; i < 50; i++ {
		s.Tick()
	}
	for _, n := range s.Positions() {
		assert.Equal(t, 0.0, n.X)
		assert.Equal(t, 0.0, n.Y)
	}
}

func TestOnTickEmitsEveryNode(t *testing.T) {
	s := newTestSim("a", "b")
	var seen []string
	s.OnTick(func(id string, x, y float64) { seen = append(seen, id) })
	s.Tick()
	s.Tick()
	assert.Equal(t, []string{"a", "b", "a", "b"}, seen)
	assert.Equal(t, 2, s.Ticks())
}

func TestAlphaSettlesAtTarget(t *testing.T) {
	s := newTestSim("a")
	assert.Equal(t, 1.0, s.Alpha())
	for i := 0; i < 3000; i++ {
		s.Tick()
	}
	assert.InDelta(t, 0.1, s.Alpha(), 1e-3)
}

func TestTeleport(t *testing.T) {
	s := newTestSim("a", "b", "c")
	s.SetForceY(constant(500), 1)
	s.Tick()

	s.Teleport([]int{1, 2}, constant(200), constant(300), 2)
	nodes := s.Positions()
	assert.Equal(t, 0.0, nodes[0].X)
	for _, n := range nodes[1:] {
		assert.InDelta(t, 200, n.X, 10)
		assert.InDelta(t, 300, n.Y, 10)
		assert.NotEqual(t, 200.0, n.X)
		assert.Equal(t, 0.0, n.VX)
		assert.Equal(t, 0.0, n.VY)
	}
}

func TestTeleportIsSeeded(t *testing.T) {
	a, b := newTestSim("x"), newTestSim("x")
	a.Teleport([]int{0}, constant(0), constant(0), 5)
	b.Teleport([]int{0}, constant(0), constant(0), 5)
	assert.Equal(t, a.Positions(), b.Positions())
}

func TestReparameterizeWhileRunning(t *testing.T) {
	var sched loop.Manual
	s := newTestSim("a")
	s.SetForceX(constant(100), 0.2)
	s.Start(&sched, 16*time.Millisecond)
	require.True(t, s.Running())

	sched.Advance(10 * time.Second)
	x, _ := s.Position(0)
	assert.InDelta(t, 100, x, 1)

	s.SetForceX(constant(-100), 0.2)
	sched.Advance(10 * time.Second)
	x, _ = s.Position(0)
	assert.InDelta(t, -100, x, 1)

	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, sched.Active())
	ticks := s.Ticks()
	sched.Advance(time.Second)
	assert.Equal(t, ticks, s.Ticks())
}
