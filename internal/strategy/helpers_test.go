package strategy

import (
	"time"

	"StockSentinel/internal/model"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}
	return bars
}

func trendSeries(bars []model.OHLCV, whites ...float64) []model.TrendPoint {
	series := make([]model.TrendPoint, len(whites))
	for i, w := range whites {
		series[i] = model.TrendPoint{Time: bars[i].Time, WhiteLine: w}
	}
	return series
}
