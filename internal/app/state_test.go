package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketswarm/internal/finance"
	"marketswarm/internal/loop"
	"marketswarm/internal/playback"
	"marketswarm/internal/state"
)

func TestNewRejectsInvalidData(t *testing.T) {
	_, err := New(finance.Dataset{}, &loop.Manual{}, DefaultSettings(), nopLog)
	assert.ErrorIs(t, err, finance.ErrEmptyDataset)
}

func TestDataIsFixedAfterNew(t *testing.T) {
	st, _ := newTestState(t, 40)
	lc, err := NewLineChart(st, DefaultSettings().LineChart, nopLog)
	require.NoError(t, err)

	err = st.Data.Set(testData(20))
	require.ErrorIs(t, err, state.ErrConst)
	assert.Equal(t, 40, st.Data.Get().ChartLen())
	assert.Len(t, st.Times.Get(), 40)

	require.NoError(t, st.SetIndex(30))
	assert.Equal(t, 30, st.Index.Get())
	assert.Len(t, lc.Series()[0].Values, 40)
}

func TestDerivedFields(t *testing.T) {
	st, _ := newTestState(t, 20)

	assert.Equal(t, []string{"Tech", "Health", "Energy"}, st.AllSectors.Get())
	assert.False(t, st.GroupingBySector.Get())
	assert.Equal(t, playback.Range{Lo: 0, Hi: 20}, st.IndexPlottedRange.Get())

	dr := st.DateValueRange.Get()
	assert.Equal(t, st.Times.Get()[0], dr[0])
	assert.Equal(t, st.Times.Get()[19], dr[1])

	yr := st.YValueDataRange.Get()
	assert.InDelta(t, 40.0, yr[0], 1e-9)
	assert.InDelta(t, 119.0, yr[1], 1e-9)

	zr := st.ZValueDataRange.Get()
	assert.Equal(t, 8e10, zr[0])
	assert.Equal(t, 2e12, zr[1])

	require.NoError(t, st.ZValueName.Set(finance.MetricPE))
	zr = st.ZValueDataRange.Get()
	assert.Equal(t, [2]float64{20, 20}, zr)

	require.NoError(t, st.SetIndex(5))
	assert.Equal(t, st.Times.Get()[5], st.Date.Get())
}

func TestColorFuncIsStablePerSector(t *testing.T) {
	st, _ := newTestState(t, 5)
	color := st.ColorFunc.Get()
	assert.NotEqual(t, color("Tech"), color("Health"))
	assert.Equal(t, color("Tech"), color("Tech"))
	assert.Equal(t, "#888888", color("Unknown"))
}

func TestSelectionDrivesGrouping(t *testing.T) {
	st, _ := newTestState(t, 5)

	require.NoError(t, st.ToggleSector("Health"))
	assert.True(t, st.GroupingBySector.Get())
	assert.Equal(t, []int{2, 3}, st.VisibleRows())

	require.NoError(t, st.ToggleSector("Health"))
	assert.False(t, st.GroupingBySector.Get())
	assert.Equal(t, st.AllRows(), st.VisibleRows())

	assert.Error(t, st.ToggleSector("Utilities"))
	assert.Error(t, st.SelectSectors("Tech", "Utilities"))
	assert.Equal(t, 0, st.SelectedSectors.Get().Len())
}

func TestSelectCompany(t *testing.T) {
	st, _ := newTestState(t, 5)
	require.NoError(t, st.SelectCompany("DDD"))
	assert.Equal(t, 3, st.SelectedSingleCompany.Get())
	assert.Error(t, st.SelectCompany("ZZZ"))
	require.NoError(t, st.SelectCompany(""))
	assert.Equal(t, NoCompany, st.SelectedSingleCompany.Get())
}

func TestPlottedRangeClampsIndex(t *testing.T) {
	st, _ := newTestState(t, 30)
	require.NoError(t, st.SetIndex(25))

	require.NoError(t, st.SetPlottedRange(5, 15))
	assert.Equal(t, 14, st.Index.Get())

	require.NoError(t, st.SetPlottedRange(20, 10))
	assert.Equal(t, playback.Range{Lo: 10, Hi: 20}, st.IndexPlottedRange.Get())
	assert.Equal(t, 14, st.Index.Get())

	require.NoError(t, st.SetIndex(2))
	assert.Equal(t, 10, st.Index.Get())
}

func TestPlaybackWrapsInsidePlottedRange(t *testing.T) {
	st, sched := newTestState(t, 10)
	require.NoError(t, st.SetPlottedRange(2, 5))
	require.NoError(t, st.SetSpeed(10))
	freq := st.Frequency()
	assert.Equal(t, time.Second, freq)

	require.NoError(t, st.Play())
	assert.True(t, st.Clock().Playing())

	var seen []int
	for i := 0; i < 5; i++ {
		sched.Advance(freq)
		seen = append(seen, st.Index.Get())
	}
	assert.Equal(t, []int{3, 4, 2, 3, 4}, seen)

	require.NoError(t, st.Pause())
	assert.False(t, st.Clock().Playing())
	sched.Advance(10 * freq)
	assert.Equal(t, 4, st.Index.Get())
	assert.Equal(t, 0, sched.Active())
}

func TestSpeedChangeKeepsPlaying(t *testing.T) {
	st, sched := newTestState(t, 10)
	require.NoError(t, st.Play())
	require.NoError(t, st.SetSpeed(20))

	assert.True(t, st.Playing.Get())
	assert.True(t, st.Clock().Playing())
	assert.Equal(t, 2*time.Second, st.Clock().Interval())
	assert.Equal(t, 1, sched.Active())

	sched.Advance(2 * time.Second)
	assert.Equal(t, 1, st.Index.Get())

	assert.Error(t, st.SetSpeed(0))
	st.Close()
	assert.Equal(t, 0, sched.Active())
}
