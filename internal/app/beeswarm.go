package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"marketswarm/internal/finance"
	"marketswarm/internal/force"
	"marketswarm/internal/loop"
	"marketswarm/internal/scales"
	"marketswarm/internal/state"
)

// Tick is an axis mark at a pixel position.
type Tick struct {
	Pos   float64
	Label string
}

// Circle is one company as drawn in the beeswarm.
type Circle struct {
	ID      string
	Sector  string
	X, Y, R float64
	Color   string
	Visible bool
}

// Beeswarm keeps the swarm's scales in step with the state and feeds them to
// the force simulation as targets.
type Beeswarm struct {
	st  *State
	cfg BeeswarmSettings
	sim *force.Sim
	log zerolog.Logger

	scaleX  scales.Sector
	scaleY  scales.Linear
	radius  scales.Radius
	visible []bool
	prev    state.SectorSet
	sample  []float64
}

func NewBeeswarm(st *State, cfg BeeswarmSettings, log zerolog.Logger) (*Beeswarm, error) {
	data := st.Data.Get()
	ids := make([]string, len(data))
	for i := range data {
		ids[i] = data[i].Ticker
	}
	b := &Beeswarm{
		st:      st,
		cfg:     cfg,
		sim:     force.New(ids, cfg.Sim, log),
		log:     log.With().Str("component", "beeswarm").Logger(),
		visible: make([]bool, len(data)),
		prev:    st.SelectedSectors.Get(),
	}
	if err := b.refresh(); err != nil {
		return nil, err
	}
	b.sim.SetForceX(b.targetX, cfg.ForceX)
	b.sim.SetForceY(b.targetY, cfg.ForceY)
	b.sim.SetCollide(b.collideRadius, cfg.CollideStrength, cfg.CollideIters)
	b.sim.Teleport(st.AllRows(), b.startX, b.targetY, 0)

	st.Index.OnChange(func(int) error { return b.updateScaleY() })
	st.YValueName.OnChange(func(finance.Field) error { return b.updateScaleY() })
	st.ZValueName.OnChange(func(finance.Metric) error {
		b.updateRadius()
		return nil
	})
	st.SelectedSectors.OnChange(b.onSelection)
	return b, nil
}

// Start runs the simulation on sched.
func (b *Beeswarm) Start(sched loop.Scheduler) {
	b.sim.Start(sched, b.cfg.Tick)
}

func (b *Beeswarm) Stop() { b.sim.Stop() }

func (b *Beeswarm) Sim() *force.Sim { return b.sim }

func (b *Beeswarm) Bounds() Bounds { return b.cfg.Bounds }

// XFor is the x target of sector; false for sectors outside the selection.
func (b *Beeswarm) XFor(sector string) (float64, bool) { return b.scaleX.Map(sector) }

// YDomain is the current percent-change domain of the y axis.
func (b *Beeswarm) YDomain() (float64, float64) { return b.scaleY.Domain() }

// YFor maps a percent change to a pixel row.
func (b *Beeswarm) YFor(pct float64) float64 { return b.scaleY.Map(pct) }

// RadiusFor is the circle radius of dataset row i.
func (b *Beeswarm) RadiusFor(i int) float64 {
	v, _ := b.st.Data.Get()[i].Metric(b.st.ZValueName.Get())
	return b.radius.Map(v)
}

func (b *Beeswarm) Visible(i int) bool { return b.visible[i] }

func (b *Beeswarm) onSelection(cur state.SectorSet) error {
	if err := b.refresh(); err != nil {
		return err
	}
	// Targets moved for every point; restart the cooling schedule.
	b.sim.Reheat(1)
	added := cur.Diff(b.prev)
	b.prev = cur
	if len(added) == 0 {
		return nil
	}
	var rows []int
	data := b.st.Data.Get()
	for i := range data {
		for _, sec := range added {
			if data[i].Sector == sec {
				rows = append(rows, i)
				break
			}
		}
	}
	b.sim.Teleport(rows, b.targetX, b.targetY, b.cfg.TeleportSpread)
	b.log.Debug().Strs("sectors", added).Int("points", len(rows)).Msg("teleported")
	return nil
}

func (b *Beeswarm) refresh() error {
	sel := b.st.SelectedSectors.Get()
	b.scaleX = scales.Sector{
		Order:    sel.Names(),
		Grouping: b.st.GroupingBySector.Get(),
		MinX:     b.cfg.Bounds.MinX,
		MaxX:     b.cfg.Bounds.MaxX,
	}
	for i := range b.visible {
		b.visible[i] = false
	}
	for _, r := range b.st.VisibleRows() {
		b.visible[r] = true
	}
	b.updateRadius()
	return b.updateScaleY()
}

// rows are the visible rows, or every row when none are visible.
func (b *Beeswarm) rows() []int {
	rows := b.st.VisibleRows()
	if len(rows) == 0 {
		b.log.Debug().Msg("no visible points, using all")
		return b.st.AllRows()
	}
	return rows
}

func (b *Beeswarm) updateScaleY() error {
	b.sample = finance.WindowSample(b.st.Memo(), b.rows(), b.st.Index.Get(), b.cfg.Padding,
		b.st.YValueName.Get(), 0, b.sample[:0])
	lo, hi, err := scales.PercentileExtent(b.sample, b.cfg.PercentileLo, b.cfg.PercentileHi)
	switch {
	case errors.Is(err, scales.ErrEmptySample):
		b.log.Debug().Int("index", b.st.Index.Get()).Msg("no defined changes in window")
		lo, hi = 0, 0
	case err != nil:
		return fmt.Errorf("beeswarm y domain at index %d: %w", b.st.Index.Get(), err)
	}
	lo, hi = scales.SymmetricDomain(lo, hi)
	bd := b.cfg.Bounds
	b.scaleY = scales.NewLinear(lo, hi, bd.MaxY, bd.MinY)
	return nil
}

func (b *Beeswarm) updateRadius() {
	data := b.st.Data.Get()
	m := b.st.ZValueName.Get()
	max := 0.0
	for _, r := range b.rows() {
		if v, _ := data[r].Metric(m); v > max {
			max = v
		}
	}
	b.radius = scales.Radius{DomainMax: max, MaxR: b.cfg.MaxRadius}
}

func (b *Beeswarm) targetX(i int) float64 {
	x, ok := b.scaleX.Map(b.st.Data.Get()[i].Sector)
	if !ok {
		return math.NaN()
	}
	return x
}

// startX places unselected points at the midpoint before their first pull.
func (b *Beeswarm) startX(i int) float64 {
	if x := b.targetX(i); !math.IsNaN(x) {
		return x
	}
	return (b.cfg.Bounds.MinX + b.cfg.Bounds.MaxX) / 2
}

func (b *Beeswarm) targetY(i int) float64 {
	pct := b.st.Memo().At(i, b.st.Index.Get(), b.st.YValueName.Get(), 0)
	return b.scaleY.Map(pct)
}

func (b *Beeswarm) collideRadius(i int) float64 {
	if !b.visible[i] {
		return 0
	}
	return b.RadiusFor(i)
}

// Circles returns the current drawable state of every point.
func (b *Beeswarm) Circles() []Circle {
	data := b.st.Data.Get()
	color := b.st.ColorFunc.Get()
	out := make([]Circle, len(data))
	for i := range data {
		x, y := b.sim.Position(i)
		out[i] = Circle{
			ID:      data[i].Ticker,
			Sector:  data[i].Sector,
			X:       x,
			Y:       y,
			R:       b.RadiusFor(i),
			Color:   color(data[i].Sector),
			Visible: b.visible[i],
		}
	}
	return out
}

// GridY returns horizontal gridlines at round percent values.
func (b *Beeswarm) GridY() []Tick {
	var out []Tick
	for _, v := range b.scaleY.Ticks(8) {
		out = append(out, Tick{Pos: b.scaleY.Map(v), Label: strconv.FormatFloat(v, 'f', -1, 64) + "%"})
	}
	return out
}

// GridX returns one vertical gridline per selected sector, or a single
// unlabelled one at the midpoint.
func (b *Beeswarm) GridX() []Tick {
	if !b.scaleX.Grouping {
		x, _ := b.scaleX.Map("")
		return []Tick{{Pos: x}}
	}
	out := make([]Tick, 0, len(b.scaleX.Order))
	for _, sec := range b.scaleX.Order {
		x, _ := b.scaleX.Map(sec)
		out = append(out, Tick{Pos: x, Label: sec})
	}
	return out
}
