package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func TestCheckSellSignal_ConsecutiveDays(t *testing.T) {
	bars := barsFromCloses(10.5, 9.8, 9.6, 9.4)
	series := trendSeries(bars, 10.4, 10.5, 10.4, 10.3)

	got := CheckSellSignal(bars, series, 0)
	assert.True(t, got.HasSellSignal)
	assert.Equal(t, 3, got.ConsecutiveDaysBelowWhiteLine)
	require.Len(t, got.LastTwoDaysData, 2)
	assert.Equal(t, model.SellDay{Date: bars[2].Date(), Price: 9.6, WhiteLine: 10.4, BelowWhiteLine: true}, got.LastTwoDaysData[0])
	assert.Equal(t, model.SellDay{Date: bars[3].Date(), Price: 9.4, WhiteLine: 10.3, BelowWhiteLine: true}, got.LastTwoDaysData[1])
}

func TestCheckSellSignal_Fallback(t *testing.T) {
	bars := barsFromCloses(11, 11, 9.5)
	series := []model.TrendPoint{{Time: bars[1].Time, WhiteLine: 12}}

	got := CheckSellSignal(bars, series, 10)
	assert.True(t, got.HasSellSignal)
	assert.Equal(t, 2, got.ConsecutiveDaysBelowWhiteLine)
	require.Len(t, got.LastTwoDaysData, 2)
	assert.Equal(t, 12.0, got.LastTwoDaysData[0].WhiteLine)
	assert.Equal(t, 12.0, got.LastTwoDaysData[1].WhiteLine)

	// The first bar predates the series and is compared with the fallback.
	got = CheckSellSignal(bars[:1], series, 10)
	assert.False(t, got.HasSellSignal)
	require.Len(t, got.LastTwoDaysData, 1)
	assert.Equal(t, 10.0, got.LastTwoDaysData[0].WhiteLine)
	assert.False(t, got.LastTwoDaysData[0].BelowWhiteLine)
}

func TestCheckSellSignal_LatestAbove(t *testing.T) {
	bars := barsFromCloses(9, 9, 9, 11)
	series := trendSeries(bars, 10, 10, 10, 10)

	got := CheckSellSignal(bars, series, 0)
	assert.False(t, got.HasSellSignal)
	assert.Equal(t, 0, got.ConsecutiveDaysBelowWhiteLine)
}

func TestCheckSellSignal_SingleDayIsNotASignal(t *testing.T) {
	bars := barsFromCloses(11, 9)
	series := trendSeries(bars, 10, 10)

	got := CheckSellSignal(bars, series, 0)
	assert.False(t, got.HasSellSignal)
	assert.Equal(t, 1, got.ConsecutiveDaysBelowWhiteLine)
}

func TestCheckSellSignal_NoReference(t *testing.T) {
	got := CheckSellSignal(barsFromCloses(1, 1, 1), nil, 0)
	assert.False(t, got.HasSellSignal)
	assert.Equal(t, 0, got.ConsecutiveDaysBelowWhiteLine)
}

func TestCheckSellSignal_Empty(t *testing.T) {
	got := CheckSellSignal(nil, nil, 10)
	assert.False(t, got.HasSellSignal)
	assert.NotNil(t, got.LastTwoDaysData)
	assert.Empty(t, got.LastTwoDaysData)
}

func TestCheckSellSignal_Idempotent(t *testing.T) {
	bars := barsFromCloses(10.5, 9.8, 9.6, 9.4)
	series := trendSeries(bars, 10.4, 10.5, 10.4, 10.3)
	assert.Equal(t, CheckSellSignal(bars, series, 0), CheckSellSignal(bars, series, 0))
}
