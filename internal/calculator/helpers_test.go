package calculator

import (
	"math"
	"time"

	"StockSentinel/internal/model"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// rampCloses builds n closes starting at start and stepping by step, then m
// closes continuing from the last one with turn as the step.
func rampCloses(start, step float64, n int, turn float64, m int) []float64 {
	closes := make([]float64, 0, n+m)
	for i := 0; i < n; i++ {
		closes = append(closes, round(start+step*float64(i)))
	}
	last := closes[len(closes)-1]
	for j := 1; j <= m; j++ {
		closes = append(closes, round(last+turn*float64(j)))
	}
	return closes
}

func round(v float64) float64 { return math.Round(v*100) / 100 }
