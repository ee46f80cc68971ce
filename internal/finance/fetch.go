package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultHosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}

// Fetcher pulls daily bars from the Yahoo chart API.
type Fetcher struct {
	Client   *http.Client
	Hosts    []string
	Backoffs []time.Duration
	// Pause between symbols.
	Pause time.Duration
	Log   zerolog.Logger
}

// NewFetcher returns a fetcher for baseURL, or the public Yahoo hosts when empty.
func NewFetcher(baseURL string, log zerolog.Logger) *Fetcher {
	hosts := defaultHosts
	if baseURL != "" {
		hosts = []string{strings.TrimRight(baseURL, "/")}
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: 15 * time.Second},
		Hosts:    hosts,
		Backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
		Pause:    120 * time.Millisecond,
		Log:      log.With().Str("component", "fetcher").Logger(),
	}
}

// FetchBars fetches daily bars for symbol over rangeParam (e.g. "1y").
func (f *Fetcher) FetchBars(ctx context.Context, symbol, rangeParam string) ([]Bar, error) {
	var yc yahooChartResp
	var lastErr error
	for attempt := 0; attempt < len(f.Backoffs)+1; attempt++ {
		for _, host := range f.Hosts {
			u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=div,splits",
				host, url.PathEscape(strings.ToUpper(symbol)), url.QueryEscape(rangeParam))
			body, err := f.get(ctx, u, symbol)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				lastErr = err
				continue
			}
			if err := json.Unmarshal(body, &yc); err != nil {
				lastErr = fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
				continue
			}
			lastErr = nil
			break
		}
		if lastErr == nil {
			break
		}
		f.Log.Debug().Err(lastErr).Str("symbol", symbol).Int("attempt", attempt).Msg("yahoo fetch failed")
		if attempt < len(f.Backoffs) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.Backoffs[attempt]):
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%s: %w", symbol, lastErr)
	}
	if yc.Chart.Error != nil {
		return nil, fmt.Errorf("%s: yahoo error %s: %s", symbol, yc.Chart.Error.Code, yc.Chart.Error.Description)
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: no data", symbol)
	}
	res := yc.Chart.Result[0]
	q := res.Indicators.Quote[0]
	et := getEasternTime()
	bars := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		b := Bar{
			Date:   time.Unix(ts, 0).In(et).Format("2006-01-02"),
			Open:   at(q.Open, i),
			High:   at(q.High, i),
			Low:    at(q.Low, i),
			Close:  at(q.Close, i),
			Volume: at(q.Volume, i),
		}
		b.MarketClose = b.Close
		bars = append(bars, b)
	}
	bars = filterNonNegative(bars)
	bars = filterIQR(bars, 3, 20)
	return bars, nil
}

func (f *Fetcher) get(ctx context.Context, u, symbol string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(symbol)))
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", req.URL.Host)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", req.URL.Host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	return body, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// at dereferences v[i]; Yahoo sends null for missing values.
func at(v []*float64, i int) float64 {
	if i >= len(v) || v[i] == nil {
		return -1
	}
	return *v[i]
}

// BuildDataset fetches bars for every company in meta and aligns them on the
// dates all of them share. Metadata fields are kept as given.
func (f *Fetcher) BuildDataset(ctx context.Context, meta []Company, rangeParam string) (Dataset, error) {
	if len(meta) == 0 {
		return nil, ErrEmptyDataset
	}
	charts := make([][]Bar, len(meta))
	for i, c := range meta {
		bars, err := f.FetchBars(ctx, c.Ticker, rangeParam)
		if err != nil {
			return nil, err
		}
		f.Log.Info().Str("symbol", c.Ticker).Int("bars", len(bars)).Msg("fetched")
		charts[i] = bars
		if i < len(meta)-1 && f.Pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.Pause):
			}
		}
	}

	common := commonDates(charts)
	if len(common) < 2 {
		return nil, errors.New("not enough overlapping dates")
	}
	ds := make(Dataset, len(meta))
	for i, c := range meta {
		byDate := make(map[string]Bar, len(charts[i]))
		for _, b := range charts[i] {
			byDate[b.Date] = b
		}
		c.Chart = make([]Bar, len(common))
		for j, d := range common {
			c.Chart[j] = byDate[d]
		}
		ds[i] = c
	}
	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// commonDates intersects the dates of every chart, ascending.
func commonDates(charts [][]Bar) []string {
	count := map[string]int{}
	for _, ch := range charts {
		for _, b := range ch {
			count[b.Date]++
		}
	}
	common := make([]string, 0, len(count))
	for d, c := range count {
		if c == len(charts) {
			common = append(common, d)
		}
	}
	sort.Strings(common)
	return common
}
