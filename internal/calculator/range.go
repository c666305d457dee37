package calculator

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"

	"StockSentinel/internal/model"
)

// StageHighLookback is the number of trading days (about six months) scanned
// for the stage high.
const StageHighLookback = 180

// CalculateStageHigh returns the highest high over the most recent lookback
// bars, or over all bars when fewer are available.
func CalculateStageHigh(dailyBars []model.OHLCV, lookback int) (float64, error) {
	if len(dailyBars) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	if lookback <= 0 {
		return 0, errors.New("lookback must be positive")
	}
	start := max(len(dailyBars)-lookback, 0)
	return floats.Max(extractHighs(dailyBars[start:])), nil
}

// RecentVolumes returns the volumes of the most recent n bars in bar order.
func RecentVolumes(dailyBars []model.OHLCV, n int) []float64 {
	start := max(len(dailyBars)-n, 0)
	return ExtractVolumes(dailyBars[start:])
}

// TopValues returns up to k values sorted descending. The input is not modified.
func TopValues(values []float64, k int) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}

// MeanVolume returns the average volume of the given bars, 0 when empty.
func MeanVolume(dailyBars []model.OHLCV) float64 {
	if len(dailyBars) == 0 {
		return 0
	}
	vols := ExtractVolumes(dailyBars)
	return floats.Sum(vols) / float64(len(vols))
}
