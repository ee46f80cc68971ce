package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketswarm/internal/app"
	"marketswarm/internal/finance"
	"marketswarm/internal/loop"
	"marketswarm/internal/playback"
	"marketswarm/internal/telegram"
)

var nopLog = zerolog.New(nil).Level(zerolog.Disabled)

func testState(t *testing.T) *app.State {
	t.Helper()
	mk := func(ticker, sector string, start float64) finance.Company {
		chart := make([]finance.Bar, 10)
		for i := range chart {
			c := start + float64(i)
			chart[i] = finance.Bar{Date: fmt.Sprintf("2021-03-%02d", i+1), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
		}
		return finance.Company{Ticker: ticker, Name: ticker, Sector: sector, MarketCap: start * 1e9, Chart: chart}
	}
	ds := finance.Dataset{mk("AAA", "Tech", 10), mk("BBB", "Health", 20), mk("CCC", "Tech", 30)}
	st, err := app.New(ds, &loop.Manual{}, app.DefaultSettings(), nopLog)
	require.NoError(t, err)
	return st
}

func TestApplySelection(t *testing.T) {
	st := testState(t)
	require.NoError(t, applySelection(st, runFlags{sectors: " Tech, ,Health", company: "BBB", lo: 2}))
	assert.Equal(t, []string{"Tech", "Health"}, st.SelectedSectors.Get().Names())
	assert.Equal(t, 1, st.SelectedSingleCompany.Get())
	assert.Equal(t, playback.Range{Lo: 2, Hi: 10}, st.IndexPlottedRange.Get())

	assert.Error(t, applySelection(st, runFlags{sectors: "Mining"}))
	assert.Error(t, applySelection(st, runFlags{company: "ZZZ"}))
}

type fakeSender struct{ sent []tgbotapi.Chattable }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestSnapshotsWrittenAndShared(t *testing.T) {
	st := testState(t)
	require.NoError(t, st.SelectCompany("CCC"))
	views, err := newViews(st, app.DefaultSettings(), nopLog)
	require.NoError(t, err)

	snaps, err := views.snapshots(st)
	require.NoError(t, err)
	var names []string
	for _, s := range snaps {
		names = append(names, s.name)
		assert.NotEmpty(t, s.data)
	}
	assert.Equal(t, []string{"beeswarm.svg", "linechart.png", "composites.png", "sectors.png", "ccc_ohlc.svg"}, names)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, writeSnapshots(dir, snaps, nopLog))
	for _, n := range names {
		_, err := os.Stat(filepath.Join(dir, n))
		assert.NoError(t, err)
	}

	f := &fakeSender{}
	require.NoError(t, shareSnapshots(telegram.NewSharerWith(f, 7, nopLog), snaps, views.table))
	require.Len(t, f.sent, len(snaps)+1)
	_, ok := f.sent[0].(tgbotapi.DocumentConfig)
	assert.True(t, ok, "svg goes as a document")
	_, ok = f.sent[1].(tgbotapi.PhotoConfig)
	assert.True(t, ok)
	msg, ok := f.sent[len(snaps)].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "*ticker*: CCC")
}
