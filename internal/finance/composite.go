package finance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Composite is a market-cap weighted basket of companies.
type Composite struct {
	Name    string
	Members []int     // dataset indices
	Weights []float64 // sum to 1
	Values  []float64 // basket value per index, starting at 100
}

// PercentChange is the basket's percent change at index relative to ref.
func (c *Composite) PercentChange(index, ref int) float64 {
	return (c.Values[index]/c.Values[ref] - 1) * 100
}

// SectorComposite builds a basket of every company in sector, each held with
// a share count fixed at index 0 so that its starting weight matches its
// share of the sector's market cap.
func SectorComposite(ds Dataset, sector string) (*Composite, error) {
	var members []int
	total := 0.0
	for i := range ds {
		if ds[i].Sector != sector {
			continue
		}
		members = append(members, i)
		total += ds[i].MarketCap
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("sector %q: %w", sector, ErrEmptyDataset)
	}

	weights := make([]float64, len(members))
	for j, i := range members {
		if total > 0 {
			weights[j] = ds[i].MarketCap / total
		} else {
			weights[j] = 1 / float64(len(members))
		}
	}
	values, err := weightedValues(ds, members, weights, 100)
	if err != nil {
		return nil, fmt.Errorf("sector %q: %w", sector, err)
	}
	return &Composite{Name: sector, Members: members, Weights: weights, Values: values}, nil
}

// SectorComposites builds one composite per sector in first-appearance order.
func SectorComposites(ds Dataset) ([]*Composite, error) {
	var out []*Composite
	for _, s := range ds.Sectors() {
		c, err := SectorComposite(ds, s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func weightedValues(ds Dataset, members []int, weights []float64, initial float64) ([]float64, error) {
	n := ds.ChartLen()
	shares := make([]float64, len(members))
	for j, i := range members {
		p := ds[i].Chart[0].Close
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("invalid initial price for %s: %f", ds[i].Ticker, p)
		}
		shares[j] = initial * weights[j] / p
	}

	values := make([]float64, n)
	for day := 0; day < n; day++ {
		v := 0.0
		for j, i := range members {
			price := ds[i].Chart[day].Close
			if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
				return nil, fmt.Errorf("invalid price for %s on index %d: %f", ds[i].Ticker, day, price)
			}
			v += shares[j] * price
		}
		values[day] = v
	}
	return values, nil
}

// MaxDrawdown is the largest peak-to-trough decline of values, as a fraction.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	maxDrawdown := 0.0
	peak := values[0]

	// Start from the first positive value.
	if peak <= 0 {
		for i := 1; i < len(values); i++ {
			if values[i] > 0 {
				peak = values[i]
				break
			}
		}
		if peak <= 0 {
			return 0.0
		}
	}

	for _, value := range values {
		if value > peak {
			peak = value
		}
		if peak > 0 && value >= 0 {
			drawdown := (peak - value) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// CloseSeries returns the close of chart over [lo, hi).
func CloseSeries(chart []Bar, lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, chart[i].Close)
	}
	return out
}

// Performance summarises a value series.
type Performance struct {
	TotalReturn  float64 // percent
	AnnualReturn float64 // percent, geometric
	Volatility   float64 // annualized percent, sample std of period returns
	SharpeRatio  float64 // risk-free rate assumed to be 0
	MaxDrawdown  float64 // percent
	Periods      int
}

// tradingDaysPerYear annualizes daily series.
const tradingDaysPerYear = 252.0

// Perf computes return statistics of a positive value series.
func Perf(values []float64) (Performance, error) {
	if len(values) < 3 {
		return Performance{}, fmt.Errorf("need at least 3 values, got %d", len(values))
	}
	first, last := values[0], values[len(values)-1]
	if first <= 0 {
		return Performance{}, ErrZeroReference
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}
		returns = append(returns, values[i]/values[i-1]-1)
	}
	mean, std := stat.MeanStdDev(returns, nil)

	p := Performance{
		TotalReturn: (last/first - 1) * 100,
		Volatility:  std * math.Sqrt(tradingDaysPerYear) * 100,
		MaxDrawdown: MaxDrawdown(values) * 100,
		Periods:     len(values),
	}
	years := float64(len(returns)) / tradingDaysPerYear
	if years > 0 && last > 0 {
		p.AnnualReturn = (math.Pow(last/first, 1/years) - 1) * 100
	}
	if std > 0 {
		p.SharpeRatio = mean / std * math.Sqrt(tradingDaysPerYear)
	}
	return p, nil
}
