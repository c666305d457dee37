package strategy

import (
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// BBIStreakDays is how many recent days feed the BBI streak counter.
const BBIStreakDays = 10

// Params are the per-stock inputs of Analyze.
type Params struct {
	KDJPeriod int
	Zhixing   calculator.ZhixingOptions
	Buy       BuyConfig
	Monitors  []model.MonitorRule
}

// Analyze derives every indicator and signal from daily bars. It returns nil
// for an empty series.
func Analyze(code, name string, bars []model.OHLCV, p Params) *model.Snapshot {
	if len(bars) == 0 {
		return nil
	}
	latest := bars[len(bars)-1]

	kdj := calculator.LatestKDJ(bars, p.KDJPeriod)
	trend := calculator.CalculateZhixingTrend(bars, p.Zhixing)

	var series []model.TrendPoint
	if trend != nil {
		series = trend.Series
	}

	snap := &model.Snapshot{
		Code:         code,
		Name:         name,
		BarTime:      latest.Time,
		CurrentPrice: latest.Close,
		Volume:       latest.Volume,
		KDJ:          kdj,
		WeeklyKDJ:    calculator.LatestWeeklyKDJ(bars, p.KDJPeriod),
		BBI:          calculator.CalculateBBI(bars),
		BBIStreak:    calculator.CheckBBIConsecutiveDays(calculator.BBIHistory(bars, BBIStreakDays)),
		Trend:        trend,
		Sell:         CheckSellSignal(lastN(bars, len(series)), series, 0),
		Buy:          EvaluateBuySignal(BuyInput{Trend: trend, KDJ: kdj, Bars: bars}, p.Buy),
		StageHigh:    DetectStageHigh(bars),
		ComputedAt:   time.Now(),
	}
	snap.Monitors = EvaluateMonitors(p.Monitors, snap)
	return snap
}

func lastN(bars []model.OHLCV, n int) []model.OHLCV {
	return bars[max(len(bars)-n, 0):]
}
