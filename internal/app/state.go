// Package app wires the dataset, the reactive fields and the chart view
// models together.
package app

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"marketswarm/internal/finance"
	"marketswarm/internal/loop"
	"marketswarm/internal/playback"
	"marketswarm/internal/state"
)

// NoCompany is the SelectedSingleCompany value when nothing is selected.
const NoCompany = -1

// State is the application's shared set of reactive fields.
type State struct {
	Store *state.Store

	Data               *state.Field[finance.Dataset]
	Percent            *state.Field[*finance.PercentMemo]
	Times              *state.Field[[]time.Time]
	DateValueRange     *state.Field[[2]time.Time]
	YValueName         *state.Field[finance.Field]
	YValueDataRange    *state.Field[[2]float64]
	PercentYValueRange *state.Field[[2]float64]
	ZValueName         *state.Field[finance.Metric]
	ZValueDataRange    *state.Field[[2]float64]

	IndexPlottedRange *state.Field[playback.Range]
	Index             *state.Field[int]
	Date              *state.Field[time.Time]
	Playing           *state.Field[bool]
	PlaybackSpeed     *state.Field[float64]

	AllSectors       *state.Field[[]string]
	ColorFunc        *state.Field[func(sector string) string]
	SelectedSectors  *state.Field[state.SectorSet]
	GroupingBySector *state.Field[bool]

	SelectedSingleCompany *state.Field[int]

	clock *playback.Clock
	log   zerolog.Logger
}

// New validates data and builds the field graph. Playback timers are
// started on sched.
func New(data finance.Dataset, sched loop.Scheduler, settings Settings, log zerolog.Logger) (*State, error) {
	if err := finance.Validate(data); err != nil {
		return nil, err
	}
	s := &State{
		Store: state.NewStore(log),
		log:   log.With().Str("component", "app").Logger(),
	}
	st := s.Store

	// Views size themselves from the dataset once, so it cannot change.
	s.Data = state.Define(st, "data", data, state.Const())
	s.Percent = state.MustDerive(st, "percent", func() (*finance.PercentMemo, error) {
		return finance.NewPercentMemo(s.Data.Get()), nil
	}, s.Data)
	s.Times = state.MustDerive(st, "times", func() ([]time.Time, error) {
		return s.Data.Get().Times(), nil
	}, s.Data)
	s.DateValueRange = state.MustDerive(st, "dateValueRange", func() ([2]time.Time, error) {
		ts := s.Times.Get()
		return [2]time.Time{ts[0], ts[len(ts)-1]}, nil
	}, s.Times)

	s.YValueName = state.Define(st, "yValueName", finance.FieldClose)
	s.YValueDataRange = state.MustDerive(st, "yValueDataRange", func() ([2]float64, error) {
		lo, hi := finance.ValueExtent(s.Data.Get(), s.YValueName.Get())
		return [2]float64{lo, hi}, nil
	}, s.Data, s.YValueName)
	s.PercentYValueRange = state.MustDerive(st, "percentYValueRange", func() ([2]float64, error) {
		lo, hi := finance.PercentExtent(s.Percent.Get(), s.YValueName.Get())
		return [2]float64{lo, hi}, nil
	}, s.Percent, s.YValueName)

	s.ZValueName = state.Define(st, "zValueName", finance.MetricMarketCap)
	s.ZValueDataRange = state.MustDerive(st, "zValueDataRange", func() ([2]float64, error) {
		lo, hi := finance.MetricExtent(s.Data.Get(), s.ZValueName.Get())
		return [2]float64{lo, hi}, nil
	}, s.Data, s.ZValueName)

	n := data.ChartLen()
	s.IndexPlottedRange = state.Define(st, "indexPlottedRange", playback.Range{Lo: 0, Hi: n})
	s.Index = state.Define(st, "index", 0, state.Quiet())
	s.Date = state.MustDerive(st, "date", func() (time.Time, error) {
		ts := s.Times.Get()
		return ts[finance.ClampIndex(s.Index.Get(), len(ts))], nil
	}, s.Times, s.Index)

	s.Playing = state.Define(st, "playing", false)
	s.PlaybackSpeed = state.Define(st, "playbackSpeed", settings.PlaybackSeconds)

	s.AllSectors = state.MustDerive(st, "allSectors", func() ([]string, error) {
		return s.Data.Get().Sectors(), nil
	}, s.Data)
	s.ColorFunc = state.MustDerive(st, "colorFunc", func() (func(string) string, error) {
		return rainbow(s.AllSectors.Get()), nil
	}, s.AllSectors)

	s.SelectedSectors = state.Define(st, "selectedSectors", state.SectorSet{})
	s.GroupingBySector = state.MustDerive(st, "groupingBySector", func() (bool, error) {
		return s.SelectedSectors.Get().Len() > 0, nil
	}, s.SelectedSectors)

	s.SelectedSingleCompany = state.Define(st, "selectedSingleCompany", NoCompany)

	s.clock = playback.NewClock(sched, s.advance, log)
	s.IndexPlottedRange.OnChange(func(r playback.Range) error {
		if i := s.Index.Get(); !r.Contains(i) {
			return s.Index.Set(r.Clamp(i))
		}
		return nil
	})
	s.Playing.OnChange(func(playing bool) error {
		if playing {
			s.clock.Start(s.Frequency())
		} else {
			s.clock.Stop()
		}
		return nil
	})
	s.PlaybackSpeed.OnChange(func(float64) error {
		s.clock.SetInterval(s.Frequency())
		return nil
	})
	return s, nil
}

// rainbow colours sectors by their position in the list.
func rainbow(sectors []string) func(string) string {
	colors := make(map[string]string, len(sectors))
	for i, sec := range sectors {
		h := 360 * float64(i) / float64(len(sectors))
		colors[sec] = colorful.Hsv(h, 0.75, 0.9).Hex()
	}
	return func(sector string) string {
		if c, ok := colors[sector]; ok {
			return c
		}
		return "#888888"
	}
}

// Frequency is the current time between playback steps.
func (s *State) Frequency() time.Duration {
	return playback.Frequency(s.PlaybackSpeed.Get(), s.Data.Get().ChartLen())
}

// advance is the playback tick.
func (s *State) advance() {
	next := s.IndexPlottedRange.Get().Next(s.Index.Get())
	if err := s.Index.Set(next); err != nil {
		s.Store.Fail(fmt.Errorf("playback tick: %w", err))
	}
}

// Clock exposes the playback timer, mainly for inspection.
func (s *State) Clock() *playback.Clock { return s.clock }

// Memo is the current percent-change table.
func (s *State) Memo() *finance.PercentMemo { return s.Percent.Get() }

// SetIndex moves the play index, clamped into the plotted range.
func (s *State) SetIndex(i int) error {
	return s.Index.Set(s.IndexPlottedRange.Get().Clamp(i))
}

// SetPlottedRange sets the plotted range [lo, hi), ordered and clamped to
// the chart.
func (s *State) SetPlottedRange(lo, hi int) error {
	return s.IndexPlottedRange.Set(playback.NewRange(lo, hi, s.Data.Get().ChartLen()))
}

func (s *State) Play() error  { return s.Playing.Set(true) }
func (s *State) Pause() error { return s.Playing.Set(false) }

// SetSpeed sets how many seconds a full pass over the chart takes.
func (s *State) SetSpeed(seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("playback speed must be positive, got %g", seconds)
	}
	return s.PlaybackSpeed.Set(seconds)
}

// ToggleSector adds or removes a sector from the selection.
func (s *State) ToggleSector(sector string) error {
	if !s.knownSector(sector) {
		return fmt.Errorf("unknown sector %q", sector)
	}
	return s.SelectedSectors.Set(s.SelectedSectors.Get().Toggle(sector))
}

// SelectSectors replaces the selection.
func (s *State) SelectSectors(sectors ...string) error {
	for _, sec := range sectors {
		if !s.knownSector(sec) {
			return fmt.Errorf("unknown sector %q", sec)
		}
	}
	return s.SelectedSectors.Set(state.NewSectorSet(sectors...))
}

func (s *State) knownSector(sector string) bool {
	for _, sec := range s.AllSectors.Get() {
		if sec == sector {
			return true
		}
	}
	return false
}

// SelectCompany selects a company by ticker. An empty ticker clears it.
func (s *State) SelectCompany(ticker string) error {
	if ticker == "" {
		return s.SelectedSingleCompany.Set(NoCompany)
	}
	i := s.Data.Get().Find(ticker)
	if i < 0 {
		return fmt.Errorf("unknown ticker %q", ticker)
	}
	return s.SelectedSingleCompany.Set(i)
}

// VisibleRows lists the dataset rows in the selected sectors, or every row
// when not grouping.
func (s *State) VisibleRows() []int {
	data := s.Data.Get()
	sel := s.SelectedSectors.Get()
	rows := make([]int, 0, len(data))
	for i := range data {
		if sel.Len() == 0 || sel.Has(data[i].Sector) {
			rows = append(rows, i)
		}
	}
	return rows
}

// AllRows lists every dataset row.
func (s *State) AllRows() []int {
	rows := make([]int, len(s.Data.Get()))
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// Close stops playback.
func (s *State) Close() {
	s.clock.Stop()
}
