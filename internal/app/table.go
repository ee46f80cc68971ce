package app

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"marketswarm/internal/finance"
	"marketswarm/internal/playback"
)

// TableRow is one label/value line of the details table.
type TableRow struct {
	Label string
	Value string
}

// Table shows the selected company's values at the play index.
type Table struct {
	st   *State
	rows []TableRow
}

func NewTable(st *State) *Table {
	t := &Table{st: st}
	t.update()
	refresh := func() error {
		t.update()
		return nil
	}
	st.Index.OnChange(func(int) error { return refresh() })
	st.SelectedSingleCompany.OnChange(func(int) error { return refresh() })
	st.IndexPlottedRange.OnChange(func(playback.Range) error { return refresh() })
	return t
}

func (t *Table) Rows() []TableRow { return t.rows }

func (t *Table) update() {
	t.rows = t.rows[:0]
	ci := t.st.SelectedSingleCompany.Get()
	if ci == NoCompany {
		return
	}
	c := &t.st.Data.Get()[ci]
	idx := finance.ClampIndex(t.st.Index.Get(), len(c.Chart))
	bar := &c.Chart[idx]
	r := t.st.IndexPlottedRange.Get()
	dd := finance.MaxDrawdown(finance.CloseSeries(c.Chart, r.Lo, r.Hi))

	t.rows = append(t.rows,
		TableRow{"ticker", c.Ticker},
		TableRow{"company", c.Name},
		TableRow{"open", price(bar.Open)},
		TableRow{"close", price(bar.Close)},
		TableRow{"high", price(bar.High)},
		TableRow{"low", price(bar.Low)},
		TableRow{"volume", humanize.Comma(int64(bar.Volume))},
		TableRow{"pe", price(c.PE)},
		TableRow{"eps", price(c.EPS)},
		TableRow{"beta", price(c.Beta)},
		TableRow{"dividend", price(c.Dividend)},
		TableRow{"marketcap", "$" + humanize.CommafWithDigits(c.MarketCap/1e9, 3) + " B"},
		TableRow{"drawdown", fmt.Sprintf("%.2f%%", dd*100)},
	)
}

func price(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
