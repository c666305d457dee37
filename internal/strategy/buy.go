package strategy

import (
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// Buy rule defaults.
const (
	DefaultJThreshold   = 20.0
	DefaultVolumePeriod = 5
	DefaultVolumeRatio  = 1.0
	MinJThreshold       = 0.0
	MaxJThreshold       = 100.0
)

// VolumePredicate decides whether the latest bar traded on contracted volume.
// It returns the latest volume and the reference it was compared against.
type VolumePredicate interface {
	Contracted(bars []model.OHLCV) (volume, reference float64, ok bool)
}

// StaticVolume compares the latest volume with a fixed reference.
type StaticVolume struct {
	Reference float64
}

func (s StaticVolume) Contracted(bars []model.OHLCV) (float64, float64, bool) {
	if len(bars) == 0 {
		return 0, s.Reference, false
	}
	v := bars[len(bars)-1].Volume
	return v, s.Reference, v < s.Reference
}

// RollingVolume compares the latest volume with Ratio times the mean volume
// of the Period bars before it. Without a full window there is no contraction.
type RollingVolume struct {
	Period int
	Ratio  float64
}

func (r RollingVolume) Contracted(bars []model.OHLCV) (float64, float64, bool) {
	if len(bars) == 0 {
		return 0, 0, false
	}
	period := r.Period
	if period <= 0 {
		period = DefaultVolumePeriod
	}
	ratio := r.Ratio
	if ratio <= 0 {
		ratio = DefaultVolumeRatio
	}
	n := len(bars)
	v := bars[n-1].Volume
	if n < period+1 {
		return v, 0, false
	}
	avg := calculator.MeanVolume(bars[n-1-period : n-1])
	return v, avg, v < ratio*avg
}

// BuyConfig holds the tunables of the buy rule.
type BuyConfig struct {
	JThreshold float64
	Volume     VolumePredicate
}

// DefaultBuyConfig returns J < 20 with a five-day rolling volume check.
func DefaultBuyConfig() BuyConfig {
	return BuyConfig{
		JThreshold: DefaultJThreshold,
		Volume:     RollingVolume{Period: DefaultVolumePeriod, Ratio: DefaultVolumeRatio},
	}
}

// NewVolumePredicate selects a static check when reference is positive and a
// rolling one otherwise.
func NewVolumePredicate(reference float64, period int, ratio float64) VolumePredicate {
	if reference > 0 {
		return StaticVolume{Reference: reference}
	}
	return RollingVolume{Period: period, Ratio: ratio}
}

// BuyInput is what the buy rule looks at. Bars end with the current quote.
type BuyInput struct {
	Trend *model.ZhixingTrend
	KDJ   *model.KDJ
	Bars  []model.OHLCV
}

// EvaluateBuySignal fires when the white line is above the yellow line, daily
// J is below the threshold and volume has contracted.
func EvaluateBuySignal(in BuyInput, cfg BuyConfig) model.BuySignal {
	result := model.BuySignal{JThreshold: cfg.JThreshold}
	if in.Trend == nil || in.KDJ == nil || len(in.Bars) == 0 {
		return result
	}
	predicate := cfg.Volume
	if predicate == nil {
		predicate = DefaultBuyConfig().Volume
	}

	volume, reference, contracted := predicate.Contracted(in.Bars)
	cond := &model.BuyConditions{
		WhiteAboveYellow:  in.Trend.WhiteLine > in.Trend.YellowLine,
		JBelowThreshold:   in.KDJ.J < cfg.JThreshold,
		VolumeContraction: contracted,
	}

	result.HasBuySignal = cond.WhiteAboveYellow && cond.JBelowThreshold && cond.VolumeContraction
	result.Conditions = cond
	result.WhiteLine = in.Trend.WhiteLine
	result.YellowLine = in.Trend.YellowLine
	result.JValue = in.KDJ.J
	result.Volume = volume
	result.AvgVolume = calculator.Round2(reference)
	return result
}
