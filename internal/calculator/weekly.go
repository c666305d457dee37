package calculator

import "StockSentinel/internal/model"

// AggregateWeekly folds daily bars into ISO-week bars. Each weekly bar carries
// the time of its last trading day, so the newest one may be a partial week.
func AggregateWeekly(daily []model.OHLCV) []model.OHLCV {
	var weekly []model.OHLCV
	currentKey := -1
	for _, d := range daily {
		year, week := d.Time.ISOWeek()
		key := year*100 + week
		if key != currentKey {
			weekly = append(weekly, d)
			currentKey = key
			continue
		}
		w := &weekly[len(weekly)-1]
		w.Time = d.Time
		w.High = max(w.High, d.High)
		w.Low = min(w.Low, d.Low)
		w.Close = d.Close
		w.Volume += d.Volume
	}
	return weekly
}

// LatestWeeklyKDJ computes KDJ over weekly bars and returns the newest value.
func LatestWeeklyKDJ(daily []model.OHLCV, period int) *model.KDJ {
	return LatestKDJ(AggregateWeekly(daily), period)
}
