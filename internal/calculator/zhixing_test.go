package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPeriods = ZhixingOptions{M1: 5, M2: 8, M3: 13, M4: 21}

func TestZhixingOptions_Periods(t *testing.T) {
	tests := []struct {
		name string
		opts ZhixingOptions
		want [4]int
	}{
		{"defaults", ZhixingOptions{}, [4]int{14, 28, 57, 114}},
		{"custom", fastPeriods, [4]int{5, 8, 13, 21}},
		{"rounded", ZhixingOptions{M1: 4.6, M2: 8.4, M3: 12.5, M4: 20}, [4]int{5, 8, 13, 20}},
		{"clamped", ZhixingOptions{M1: 1, M2: -3, M3: 1000, M4: 5000}, [4]int{2, 2, 999, 999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Periods())
		})
	}
	assert.Equal(t, 114, ZhixingOptions{}.MaxPeriod())
	assert.Equal(t, 21, fastPeriods.MaxPeriod())
}

func TestCalculateZhixingTrend_InsufficientData(t *testing.T) {
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14, 15, 16})
	assert.Nil(t, CalculateZhixingTrend(bars, ZhixingOptions{}))

	// Exactly max period bars leaves no earlier point to compare with.
	bars = barsFromCloses(rampCloses(30, 0.3, 21, 0, 0))
	assert.Nil(t, CalculateZhixingTrend(bars, fastPeriods))
}

func TestCalculateZhixingTrend_GoldenCross(t *testing.T) {
	bars := barsFromCloses(rampCloses(30, 0.3, 45, -0.9, 6))
	require.Len(t, bars, 51)

	trend := CalculateZhixingTrend(bars, fastPeriods)
	require.NotNil(t, trend)
	assert.True(t, trend.IsGoldenCross)
	assert.False(t, trend.IsDeathCross)
	assert.InDelta(t, 40.89, trend.WhiteLine, 0.01)
	assert.InDelta(t, 40.62, trend.YellowLine, 0.01)
	assert.InDelta(t, 41.04, trend.PreviousWhiteLine, 0.01)
	assert.InDelta(t, 41.06, trend.PreviousYellowLine, 0.01)
	assert.Equal(t, bars[50].Time, trend.Time)

	require.Len(t, trend.Series, 31)
	assert.Equal(t, bars[20].Time, trend.Series[0].Time)
	last := trend.Series[len(trend.Series)-1]
	assert.Equal(t, trend.WhiteLine, last.WhiteLine)
	assert.Equal(t, trend.YellowLine, last.YellowLine)
}

func TestCalculateZhixingTrend_DeathCross(t *testing.T) {
	bars := barsFromCloses(rampCloses(50, -0.3, 45, 0.9, 6))

	trend := CalculateZhixingTrend(bars, fastPeriods)
	require.NotNil(t, trend)
	assert.False(t, trend.IsGoldenCross)
	assert.True(t, trend.IsDeathCross)
	assert.InDelta(t, 39.11, trend.WhiteLine, 0.01)
	assert.InDelta(t, 39.38, trend.YellowLine, 0.01)
	assert.InDelta(t, 38.96, trend.PreviousWhiteLine, 0.01)
	assert.InDelta(t, 38.94, trend.PreviousYellowLine, 0.01)
}

func TestCalculateZhixingTrend_NoCrossInSteadyTrend(t *testing.T) {
	bars := barsFromCloses(rampCloses(30, 0.3, 60, 0, 0))

	trend := CalculateZhixingTrend(bars, fastPeriods)
	require.NotNil(t, trend)
	assert.False(t, trend.IsGoldenCross)
	assert.False(t, trend.IsDeathCross)
	// White lags the yellow line in a steady rise.
	assert.Less(t, trend.WhiteLine, trend.YellowLine)
}

func TestCalculateZhixingTrend_SeriesCapped(t *testing.T) {
	bars := barsFromCloses(rampCloses(10, 0.05, 200, 0, 0))

	trend := CalculateZhixingTrend(bars, fastPeriods)
	require.NotNil(t, trend)
	require.Len(t, trend.Series, TrendSeriesCap)
	assert.Equal(t, bars[199].Time, trend.Series[TrendSeriesCap-1].Time)
	assert.Equal(t, bars[80].Time, trend.Series[0].Time)
}

func TestCalculateZhixingTrend_Idempotent(t *testing.T) {
	bars := barsFromCloses(rampCloses(30, 0.3, 45, -0.9, 6))
	assert.Equal(t, CalculateZhixingTrend(bars, fastPeriods), CalculateZhixingTrend(bars, fastPeriods))
}
