package app

import (
	"time"

	"github.com/rs/zerolog"

	"marketswarm/internal/finance"
	"marketswarm/internal/scales"
)

// OHLCBar is one period of the selected company in pixels.
type OHLCBar struct {
	X                      float64
	Open, High, Low, Close float64
	Up                     bool
}

// OHLC draws the selected company's bars on a time axis.
type OHLC struct {
	st     *State
	bounds Bounds
	log    zerolog.Logger

	x       scales.Time
	y       scales.Linear
	company int
	bars    []OHLCBar
}

func NewOHLC(st *State, bounds Bounds, log zerolog.Logger) *OHLC {
	o := &OHLC{st: st, bounds: bounds, log: log.With().Str("component", "ohlc").Logger()}
	o.update()
	st.SelectedSingleCompany.OnChange(func(int) error {
		o.update()
		return nil
	})
	st.DateValueRange.OnChange(func([2]time.Time) error {
		o.update()
		return nil
	})
	return o
}

func (o *OHLC) update() {
	dr := o.st.DateValueRange.Get()
	o.x = scales.NewTime(dr[0], dr[1], o.bounds.MinX, o.bounds.MaxX)
	o.company = o.st.SelectedSingleCompany.Get()
	o.bars = o.bars[:0]
	if o.company == NoCompany {
		yr := o.st.YValueDataRange.Get()
		o.y = scales.NewLinear(yr[0], yr[1], o.bounds.MaxY, o.bounds.MinY)
		return
	}

	chart := o.st.Data.Get()[o.company].Chart
	lo, hi := finance.BarExtent(chart)
	o.y = scales.NewLinear(lo, hi, o.bounds.MaxY, o.bounds.MinY)
	times := o.st.Times.Get()
	for i := range chart {
		b := &chart[i]
		o.bars = append(o.bars, OHLCBar{
			X:     o.x.Map(times[i]),
			Open:  o.y.Map(b.Open),
			High:  o.y.Map(b.High),
			Low:   o.y.Map(b.Low),
			Close: o.y.Map(b.Close),
			Up:    b.Close >= b.Open,
		})
	}
	o.log.Debug().Str("ticker", o.st.Data.Get()[o.company].Ticker).Int("bars", len(o.bars)).Msg("ohlc updated")
}

// Company returns the selected company, if any.
func (o *OHLC) Company() (finance.Company, bool) {
	if o.company == NoCompany {
		return finance.Company{}, false
	}
	return o.st.Data.Get()[o.company], true
}

func (o *OHLC) Bars() []OHLCBar { return o.bars }

func (o *OHLC) YDomain() (float64, float64) { return o.y.Domain() }

func (o *OHLC) Bounds() Bounds { return o.bounds }

// DateTicks returns n evenly spaced date labels along the x axis.
func (o *OHLC) DateTicks(n int) []Tick {
	var out []Tick
	for _, t := range o.x.Ticks(n) {
		out = append(out, Tick{Pos: o.x.Map(t), Label: t.Format("Jan 02")})
	}
	return out
}
