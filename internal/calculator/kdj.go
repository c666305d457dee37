package calculator

import (
	"github.com/samber/lo"

	"StockSentinel/internal/model"
)

// DefaultKDJPeriod is the RSV look-back used when none is configured.
const DefaultKDJPeriod = 9

// kdjSeed is the K and D value before the first bar.
const kdjSeed = 50.0

// CalculateKDJ computes K, D and J for every bar in one forward pass.
//
// RSV is 50 until period bars are available and whenever the window is flat.
// K and D are smoothed with weight 1/3 starting from 50; J = 3K - 2D is not
// bounded. Values are rounded to two decimals on output only.
func CalculateKDJ(bars []model.OHLCV, period int) []model.KDJ {
	if period <= 0 {
		period = DefaultKDJPeriod
	}
	result := make([]model.KDJ, 0, len(bars))
	if len(bars) == 0 {
		return result
	}

	highs := extractHighs(bars)
	lows := extractLows(bars)

	k, d := kdjSeed, kdjSeed
	for i, bar := range bars {
		rsv := 50.0
		if i >= period-1 {
			highest := lo.Max(highs[i-period+1 : i+1])
			lowest := lo.Min(lows[i-period+1 : i+1])
			if highest != lowest {
				rsv = (bar.Close - lowest) / (highest - lowest) * 100
			}
		}
		k = (2.0/3.0)*k + (1.0/3.0)*rsv
		d = (2.0/3.0)*d + (1.0/3.0)*k
		j := 3*k - 2*d

		result = append(result, model.KDJ{
			Time: bar.Time,
			K:    Round2(k),
			D:    Round2(d),
			J:    Round2(j),
		})
	}
	return result
}

// LatestKDJ returns the KDJ of the newest bar, or nil for an empty series.
func LatestKDJ(bars []model.OHLCV, period int) *model.KDJ {
	series := CalculateKDJ(bars, period)
	if len(series) == 0 {
		return nil
	}
	latest := series[len(series)-1]
	return &latest
}
