package strategy

import (
	"time"

	"StockSentinel/internal/model"
)

// SellSignalMinDays is the number of consecutive closes below the white line
// that makes a sell signal.
const SellSignalMinDays = 2

// CheckSellSignal counts how many of the newest bars closed below the white
// line.
//
// Each bar is compared with the series point of the same time, else the
// latest point before it, else fallback. A fallback of zero means none, and a
// bar without any reference is not below.
func CheckSellSignal(bars []model.OHLCV, series []model.TrendPoint, fallback float64) model.SellSignal {
	result := model.SellSignal{LastTwoDaysData: []model.SellDay{}}
	if len(bars) == 0 {
		return result
	}

	days := make([]model.SellDay, len(bars))
	for i, bar := range bars {
		white, ok := whiteLineAt(series, bar.Time, fallback)
		days[i] = model.SellDay{
			Date:           bar.Date(),
			Price:          bar.Close,
			WhiteLine:      white,
			BelowWhiteLine: ok && bar.Close < white,
		}
	}

	count := 0
	for i := len(days) - 1; i >= 0 && days[i].BelowWhiteLine; i-- {
		count++
	}

	result.HasSellSignal = count >= SellSignalMinDays
	result.ConsecutiveDaysBelowWhiteLine = count
	result.LastTwoDaysData = append(result.LastTwoDaysData, days[max(len(days)-2, 0):]...)
	return result
}

// whiteLineAt resolves the white line reference for a bar time.
func whiteLineAt(series []model.TrendPoint, at time.Time, fallback float64) (float64, bool) {
	found := -1
	for i, p := range series {
		if p.Time.Equal(at) {
			return p.WhiteLine, true
		}
		if p.Time.Before(at) && (found < 0 || p.Time.After(series[found].Time)) {
			found = i
		}
	}
	if found >= 0 {
		return series[found].WhiteLine, true
	}
	if fallback != 0 {
		return fallback, true
	}
	return 0, false
}
