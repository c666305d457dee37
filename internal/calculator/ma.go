package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"StockSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return floats.Sum(values[len(values)-period:]) / float64(period), nil
}

// SMASeries returns the rolling simple moving average aligned with values.
// Entries before index period-1 are zero. A nil slice is returned when there
// are fewer than period values.
func SMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	if period == 1 {
		return append([]float64(nil), values...)
	}
	return talib.Sma(values, period)
}

// EMASeries returns the exponential moving average of values seeded with the
// first value, so every index is defined.
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return nil
	}
	alpha := 2.0 / float64(period+1)
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

func extractCloses(bars []model.OHLCV) []float64 {
	return lo.Map(bars, func(b model.OHLCV, _ int) float64 { return b.Close })
}

func extractHighs(bars []model.OHLCV) []float64 {
	return lo.Map(bars, func(b model.OHLCV, _ int) float64 { return b.High })
}

func extractLows(bars []model.OHLCV) []float64 {
	return lo.Map(bars, func(b model.OHLCV, _ int) float64 { return b.Low })
}

// ExtractVolumes returns the volume column of bars.
func ExtractVolumes(bars []model.OHLCV) []float64 {
	return lo.Map(bars, func(b model.OHLCV, _ int) float64 { return b.Volume })
}
