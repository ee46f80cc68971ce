package finance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrMisaligned    = errors.New("charts are not aligned")
	ErrUnordered     = errors.New("chart is not in ascending time order")
	ErrZeroReference = errors.New("reference value is zero")
)

// Validate checks the invariants every cross-company statistic relies on:
// at least one company, non-empty charts of equal length with matching dates
// at each index, ascending bar times and a non-zero close at index 0.
func Validate(ds Dataset) error {
	if len(ds) == 0 {
		return ErrEmptyDataset
	}
	n := len(ds[0].Chart)
	if n == 0 {
		return fmt.Errorf("%s: %w", ds[0].Ticker, ErrEmptyDataset)
	}
	for _, c := range ds {
		if len(c.Chart) != n {
			return fmt.Errorf("%s has %d bars, expected %d: %w", c.Ticker, len(c.Chart), n, ErrMisaligned)
		}
		if c.Chart[0].Close == 0 {
			return fmt.Errorf("%s close at index 0: %w", c.Ticker, ErrZeroReference)
		}
	}

	var prev time.Time
	for i := 0; i < n; i++ {
		ref := ds[0].Chart[i]
		t, err := ref.Time()
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", ds[0].Ticker, i, err)
		}
		if i > 0 && !t.After(prev) {
			return fmt.Errorf("%s[%d] %s: %w", ds[0].Ticker, i, ref.Date, ErrUnordered)
		}
		prev = t
		for _, c := range ds[1:] {
			if c.Chart[i].Date != ref.Date || c.Chart[i].Minute != ref.Minute {
				return fmt.Errorf("%s[%d] is %s, %s[%d] is %s: %w",
					c.Ticker, i, c.Chart[i].Date, ds[0].Ticker, i, ref.Date, ErrMisaligned)
			}
		}
	}
	return nil
}

// ChartLen is the shared chart length. Zero for an empty dataset.
func (ds Dataset) ChartLen() int {
	if len(ds) == 0 {
		return 0
	}
	return len(ds[0].Chart)
}

// Times returns the bar time of every index. The dataset must be valid.
func (ds Dataset) Times() []time.Time {
	if len(ds) == 0 {
		return nil
	}
	out := make([]time.Time, len(ds[0].Chart))
	for i := range ds[0].Chart {
		out[i], _ = ds[0].Chart[i].Time()
	}
	return out
}

// Sectors lists sector names in order of first appearance.
func (ds Dataset) Sectors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range ds {
		if !seen[c.Sector] {
			seen[c.Sector] = true
			out = append(out, c.Sector)
		}
	}
	return out
}

// Find returns the index of the company with ticker, or -1.
func (ds Dataset) Find(ticker string) int {
	for i := range ds {
		if ds[i].Ticker == ticker {
			return i
		}
	}
	return -1
}

// DecodeJSON reads and validates a dataset.
func DecodeJSON(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadJSON reads and validates the dataset file at path.
func LoadJSON(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// WriteJSON encodes ds in the same shape LoadJSON reads.
func WriteJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}
