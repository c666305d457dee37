package calculator

import (
	"math"

	"StockSentinel/internal/model"
)

// Zhixing trend defaults.
const (
	DefaultZhixingM1 = 14
	DefaultZhixingM2 = 28
	DefaultZhixingM3 = 57
	DefaultZhixingM4 = 114

	zhixingMinPeriod = 2
	zhixingMaxPeriod = 999
	whiteLineEMA     = 10
	// TrendSeriesCap bounds the number of points kept in ZhixingTrend.Series.
	TrendSeriesCap = 120
)

// ZhixingOptions are the yellow line's four SMA periods. A zero field takes
// its default; any other value is rounded and clamped to [2, 999].
type ZhixingOptions struct {
	M1 float64 `yaml:"m1" json:"m1"`
	M2 float64 `yaml:"m2" json:"m2"`
	M3 float64 `yaml:"m3" json:"m3"`
	M4 float64 `yaml:"m4" json:"m4"`
}

// Periods returns the normalized periods.
func (o ZhixingOptions) Periods() [4]int {
	return [4]int{
		normalizePeriod(o.M1, DefaultZhixingM1),
		normalizePeriod(o.M2, DefaultZhixingM2),
		normalizePeriod(o.M3, DefaultZhixingM3),
		normalizePeriod(o.M4, DefaultZhixingM4),
	}
}

// MaxPeriod is the longest normalized period, i.e. the bars needed to seed
// the yellow line.
func (o ZhixingOptions) MaxPeriod() int {
	longest := 0
	for _, p := range o.Periods() {
		longest = max(longest, p)
	}
	return longest
}

func normalizePeriod(v float64, def int) int {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	p := math.Round(v)
	if p < zhixingMinPeriod {
		return zhixingMinPeriod
	}
	if p > zhixingMaxPeriod {
		return zhixingMaxPeriod
	}
	return int(p)
}

// CalculateZhixingTrend computes the white line (EMA10 of EMA10 of close) and
// the yellow line (mean of four SMAs) and checks whether they crossed on the
// latest bar. Crosses are judged on unrounded values. It returns nil when
// there are fewer bars than the longest period or no earlier point exists to
// compare against.
func CalculateZhixingTrend(bars []model.OHLCV, opts ZhixingOptions) *model.ZhixingTrend {
	periods := opts.Periods()
	maxPeriod := opts.MaxPeriod()
	n := len(bars)
	if n < maxPeriod {
		return nil
	}

	closes := extractCloses(bars)
	white := EMASeries(EMASeries(closes, whiteLineEMA), whiteLineEMA)

	var smas [4][]float64
	for k, p := range periods {
		smas[k] = SMASeries(closes, p)
	}
	yellow := make([]float64, n)
	valid := make([]bool, n)
	for i := maxPeriod - 1; i < n; i++ {
		yellow[i] = (smas[0][i] + smas[1][i] + smas[2][i] + smas[3][i]) / 4
		valid[i] = true
	}

	last := n - 1
	prev := -1
	for i := last - 1; i >= 0; i-- {
		if valid[i] {
			prev = i
			break
		}
	}
	if !valid[last] || prev < 0 {
		return nil
	}

	var series []model.TrendPoint
	for i := 0; i < n; i++ {
		if !valid[i] {
			continue
		}
		series = append(series, model.TrendPoint{
			Time:       bars[i].Time,
			WhiteLine:  Round2(white[i]),
			YellowLine: Round2(yellow[i]),
		})
	}
	if len(series) > TrendSeriesCap {
		series = series[len(series)-TrendSeriesCap:]
	}

	return &model.ZhixingTrend{
		Time:               bars[last].Time,
		WhiteLine:          Round2(white[last]),
		YellowLine:         Round2(yellow[last]),
		PreviousWhiteLine:  Round2(white[prev]),
		PreviousYellowLine: Round2(yellow[prev]),
		IsGoldenCross:      white[prev] <= yellow[prev] && white[last] > yellow[last],
		IsDeathCross:       white[prev] >= yellow[prev] && white[last] < yellow[last],
		Series:             series,
	}
}
