package finance

// Bar is one period of a company's chart.
type Bar struct {
	Date        string  `json:"date"`
	Minute      string  `json:"minute,omitempty"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	MarketClose float64 `json:"marketClose,omitempty"`
}

// Company is one tracked entity: a stock or an index fund.
type Company struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"company"`
	Sector    string  `json:"sector"`
	MarketCap float64 `json:"marketcap"`
	PE        float64 `json:"pe"`
	EPS       float64 `json:"eps"`
	Beta      float64 `json:"beta"`
	Dividend  float64 `json:"dividend"`
	Chart     []Bar   `json:"chart"`
}

// Dataset is the full set of companies. Every chart has the same length and
// index i refers to the same period across companies.
type Dataset []Company

// Field names a numeric value carried by a Bar.
type Field string

const (
	FieldOpen        Field = "open"
	FieldHigh        Field = "high"
	FieldLow         Field = "low"
	FieldClose       Field = "close"
	FieldVolume      Field = "volume"
	FieldMarketClose Field = "marketClose"
)

// Value returns the bar's value for f. The bool is false for unknown fields.
func (b *Bar) Value(f Field) (float64, bool) {
	switch f {
	case FieldOpen:
		return b.Open, true
	case FieldHigh:
		return b.High, true
	case FieldLow:
		return b.Low, true
	case FieldClose:
		return b.Close, true
	case FieldVolume:
		return b.Volume, true
	case FieldMarketClose:
		return b.MarketClose, true
	}
	return 0, false
}

// Metric names a per-company value used for sizing points.
type Metric string

const (
	MetricMarketCap Metric = "marketcap"
	MetricPE        Metric = "pe"
	MetricEPS       Metric = "eps"
	MetricBeta      Metric = "beta"
	MetricDividend  Metric = "dividend"
)

func (c *Company) Metric(m Metric) (float64, bool) {
	switch m {
	case MetricMarketCap:
		return c.MarketCap, true
	case MetricPE:
		return c.PE, true
	case MetricEPS:
		return c.EPS, true
	case MetricBeta:
		return c.Beta, true
	case MetricDividend:
		return c.Dividend, true
	}
	return 0, false
}

// yahooChartResp mirrors the Yahoo v8 chart response, trimmed to daily OHLCV.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Timezone string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
