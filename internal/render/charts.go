package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vicanso/go-charts/v2"

	"marketswarm/internal/app"
	"marketswarm/internal/finance"
)

// splitNumber picks how many x labels to show for n points.
func splitNumber(n int) int {
	if n > 30 {
		return 6
	}
	split := n / 3
	if split < 3 {
		split = 3
	}
	return split
}

// LineChart renders the line chart view as a PNG with one series per
// company, on the view's symmetric percent domain.
func LineChart(lc *app.LineChart, title string) ([]byte, error) {
	series := lc.Series()
	if len(series) == 0 {
		return nil, ErrNothingToDraw
	}

	dates := lc.Dates()
	xLabels := make([]string, len(dates))
	for i, d := range dates {
		xLabels[i] = d.Format("Jan 02")
	}

	values := make([][]float64, len(series))
	names := make([]string, len(series))
	for i, s := range series {
		values[i] = make([]float64, len(s.Values))
		for j, v := range s.Values {
			if math.IsNaN(v) {
				v = charts.GetNullValue()
			}
			values[i][j] = v
		}
		names[i] = s.Ticker
	}
	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	yMin, yMax := lc.YDomain()
	subtitle := fmt.Sprintf("%s to %s • %% change", dates[0].Format("Jan 02, 2006"), dates[len(dates)-1].Format("Jan 02, 2006"))
	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: splitNumber(len(xLabels))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 4}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// SectorComposites renders one market-cap weighted index per sector over
// [lo, hi), rebased to percent change at lo.
func SectorComposites(ds finance.Dataset, lo, hi int) ([]byte, error) {
	comps, err := finance.SectorComposites(ds)
	if err != nil {
		return nil, err
	}
	times := ds.Times()[lo:hi]
	xLabels := make([]string, len(times))
	for i, t := range times {
		xLabels[i] = t.Format("Jan 02")
	}

	values := make([][]float64, len(comps))
	names := make([]string, len(comps))
	var parts []string
	for i, c := range comps {
		row := make([]float64, 0, hi-lo)
		for j := lo; j < hi; j++ {
			row = append(row, c.PercentChange(j, lo))
		}
		values[i] = row
		names[i] = c.Name
		if perf, err := finance.Perf(c.Values[lo:hi]); err == nil {
			parts = append(parts, fmt.Sprintf("%s %.1f%% DD %.1f%%", c.Name, perf.TotalReturn, perf.MaxDrawdown))
		}
	}
	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Sector composites", strings.Join(parts, " | ")),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: splitNumber(len(xLabels))}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 4}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render composites: %w", err)
	}
	return p.Bytes()
}

// SectorShare renders each sector's share of total market cap as a pie.
func SectorShare(ds finance.Dataset) ([]byte, error) {
	sectors := ds.Sectors()
	if len(sectors) == 0 {
		return nil, ErrNothingToDraw
	}
	caps := make([]float64, len(sectors))
	total := 0.0
	for _, c := range ds {
		for i, s := range sectors {
			if c.Sector == s {
				caps[i] += c.MarketCap
				total += c.MarketCap
			}
		}
	}
	if total <= 0 {
		return nil, ErrNothingToDraw
	}

	labels := make([]string, len(sectors))
	for i, s := range sectors {
		labels[i] = fmt.Sprintf("%s (%.1f%%)", s, caps[i]/total*100)
	}
	p, err := charts.PieRender(
		caps,
		charts.TitleTextOptionFunc("Market cap by sector", "$"+humanize.CommafWithDigits(total/1e9, 1)+" B total"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}
