package app

import (
	"time"

	"marketswarm/internal/force"
)

// Bounds is a view's drawable pixel area.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

type BeeswarmSettings struct {
	Bounds Bounds
	// Padding is the half-width, in periods, of the window the y domain is
	// computed over.
	Padding int
	// PercentileLo and PercentileHi bound the y domain.
	PercentileLo, PercentileHi float64
	MaxRadius                  float64

	ForceX, ForceY  float64
	CollideStrength float64
	CollideIters    int
	TeleportSpread  float64
	Tick            time.Duration
	Sim             force.Config
}

type LineChartSettings struct {
	Bounds  Bounds
	Padding int
	// Motherline is the half-open range of dataset rows drawn when no sector
	// is selected.
	Motherline                 [2]int
	PercentileLo, PercentileHi float64
}

type Settings struct {
	PlaybackSeconds float64
	Beeswarm        BeeswarmSettings
	LineChart       LineChartSettings
	OHLC            Bounds
	Brush           Bounds
}

func DefaultSettings() Settings {
	return Settings{
		PlaybackSeconds: 10,
		Beeswarm: BeeswarmSettings{
			Bounds:          Bounds{MinX: 20, MaxX: 1000, MinY: 20, MaxY: 1000},
			Padding:         10,
			PercentileLo:    0.01,
			PercentileHi:    0.99,
			MaxRadius:       20,
			ForceX:          0.01,
			ForceY:          0.1,
			CollideStrength: 1,
			CollideIters:    2,
			TeleportSpread:  5,
			Tick:            16 * time.Millisecond,
			Sim:             force.DefaultConfig(),
		},
		LineChart: LineChartSettings{
			Bounds:       Bounds{MinX: 50, MaxX: 950, MinY: 20, MaxY: 350},
			Padding:      120,
			Motherline:   [2]int{0, 12},
			PercentileLo: 0,
			PercentileHi: 1,
		},
		OHLC:  Bounds{MinX: 50, MaxX: 950, MinY: 20, MaxY: 350},
		Brush: Bounds{MinX: 10, MaxX: 990, MinY: 5, MaxY: 45},
	}
}
