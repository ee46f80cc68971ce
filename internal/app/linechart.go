package app

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"marketswarm/internal/finance"
	"marketswarm/internal/playback"
	"marketswarm/internal/scales"
	"marketswarm/internal/state"
)

// LineSeries is one company's percent-change line over the plotted range.
type LineSeries struct {
	Ticker string
	Sector string
	Color  string
	Values []float64
	// Points omits periods whose change is undefined.
	Points [][2]float64
}

// LineChart plots percent change over the plotted range, rebased at its
// first period. It shows the selected sectors' companies, or the motherline
// rows when nothing is selected.
type LineChart struct {
	st  *State
	cfg LineChartSettings
	log zerolog.Logger

	x      scales.Point
	y      scales.Linear
	series []LineSeries
	sample []float64
}

func NewLineChart(st *State, cfg LineChartSettings, log zerolog.Logger) (*LineChart, error) {
	lc := &LineChart{st: st, cfg: cfg, log: log.With().Str("component", "linechart").Logger()}
	if err := lc.update(); err != nil {
		return nil, err
	}
	st.Index.OnChange(func(int) error { return lc.update() })
	st.IndexPlottedRange.OnChange(func(playback.Range) error { return lc.update() })
	st.SelectedSectors.OnChange(func(state.SectorSet) error { return lc.update() })
	st.YValueName.OnChange(func(finance.Field) error { return lc.update() })
	return lc, nil
}

// Rows are the dataset rows currently drawn.
func (lc *LineChart) Rows() []int {
	if lc.st.GroupingBySector.Get() {
		if rows := lc.st.VisibleRows(); len(rows) > 0 {
			return rows
		}
	}
	n := len(lc.st.Data.Get())
	lo, hi := lc.cfg.Motherline[0], lc.cfg.Motherline[1]
	if hi > n {
		hi = n
	}
	if lo < 0 {
		lo = 0
	}
	if lo >= hi {
		return lc.st.AllRows()
	}
	rows := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		rows = append(rows, i)
	}
	return rows
}

func (lc *LineChart) update() error {
	r := lc.st.IndexPlottedRange.Get()
	idx := lc.st.Index.Get()
	field := lc.st.YValueName.Get()
	memo := lc.st.Memo()
	rows := lc.Rows()
	bd := lc.cfg.Bounds

	lc.x = scales.Point{N: r.Len(), R0: bd.MinX, R1: bd.MaxX}

	lc.sample = lc.sample[:0]
	wlo, whi := finance.Window(idx-r.Lo, lc.cfg.Padding, r.Len())
	for _, c := range rows {
		row := memo.Row(c, field, r.Lo)
		lc.sample = append(lc.sample, row[r.Lo+wlo:r.Lo+whi]...)
	}
	lo, hi, err := scales.PercentileExtent(lc.sample, lc.cfg.PercentileLo, lc.cfg.PercentileHi)
	switch {
	case errors.Is(err, scales.ErrEmptySample):
		lc.log.Debug().Int("lo", r.Lo).Msg("no defined changes in window")
		lo, hi = 0, 0
	case err != nil:
		return fmt.Errorf("line chart y domain: %w", err)
	}
	lo, hi = scales.SymmetricDomain(lo, hi)
	lc.y = scales.NewLinear(lo, hi, bd.MaxY, bd.MinY)

	data := lc.st.Data.Get()
	color := lc.st.ColorFunc.Get()
	lc.series = lc.series[:0]
	for _, c := range rows {
		vals := memo.Row(c, field, r.Lo)[r.Lo:r.Hi]
		pts := make([][2]float64, 0, len(vals))
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, [2]float64{lc.x.Map(i), lc.y.Map(v)})
		}
		lc.series = append(lc.series, LineSeries{
			Ticker: data[c].Ticker,
			Sector: data[c].Sector,
			Color:  color(data[c].Sector),
			Values: vals,
			Points: pts,
		})
	}
	return nil
}

func (lc *LineChart) Series() []LineSeries { return lc.series }

func (lc *LineChart) YDomain() (float64, float64) { return lc.y.Domain() }

// PlayheadX is the x of the current date.
func (lc *LineChart) PlayheadX() float64 {
	r := lc.st.IndexPlottedRange.Get()
	return lc.x.Map(r.Clamp(lc.st.Index.Get()) - r.Lo)
}

// Dates are the bar times of the plotted range.
func (lc *LineChart) Dates() []time.Time {
	r := lc.st.IndexPlottedRange.Get()
	return lc.st.Times.Get()[r.Lo:r.Hi]
}

func (lc *LineChart) Bounds() Bounds { return lc.cfg.Bounds }
