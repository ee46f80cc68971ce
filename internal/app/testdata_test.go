package app

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"marketswarm/internal/finance"
	"marketswarm/internal/loop"
)

var nopLog = zerolog.New(nil).Level(zerolog.Disabled)

func company(ticker, sector string, cap float64, closes ...float64) finance.Company {
	chart := make([]finance.Bar, len(closes))
	for i, c := range closes {
		chart[i] = finance.Bar{
			Date:   fmt.Sprintf("2021-%02d-%02d", 1+i/28, 1+i%28),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_250_000,
		}
	}
	return finance.Company{
		Ticker:    ticker,
		Name:      ticker + " Corp",
		Sector:    sector,
		MarketCap: cap,
		PE:        20,
		EPS:       3.5,
		Beta:      1.1,
		Dividend:  0.02,
		Chart:     chart,
	}
}

// ramp is n closes growing by step from start.
func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func testData(n int) finance.Dataset {
	return finance.Dataset{
		company("AAA", "Tech", 2e12, ramp(100, 1, n)...),
		company("BBB", "Tech", 5e11, ramp(50, -0.5, n)...),
		company("CCC", "Health", 3e11, ramp(80, 0.2, n)...),
		company("DDD", "Health", 1e11, ramp(40, 0.4, n)...),
		company("EEE", "Energy", 8e10, ramp(60, -0.1, n)...),
	}
}

func newTestState(t *testing.T, n int) (*State, *loop.Manual) {
	t.Helper()
	sched := &loop.Manual{}
	st, err := New(testData(n), sched, DefaultSettings(), nopLog)
	require.NoError(t, err)
	return st, sched
}
