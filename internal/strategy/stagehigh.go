package strategy

import (
	"math"
	"slices"
	"strings"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

const (
	stageHighMinBars   = 30
	volumeWindow       = 30
	topVolumeCount     = 3
	stageHighTolerance = 0.98
	highVolumeBand     = 0.2
)

// DetectStageHigh flags a bearish bar on heavy volume near the six-month high.
func DetectStageHigh(bars []model.OHLCV) model.StageHighSignal {
	if len(bars) < stageHighMinBars {
		return model.StageHighSignal{Reason: "数据不足，至少需要30个交易日"}
	}

	latest := bars[len(bars)-1]
	// bars is non-empty here.
	stageHigh, _ := calculator.CalculateStageHigh(bars, calculator.StageHighLookback)

	volumes := calculator.RecentVolumes(bars, volumeWindow)
	isHighVolume := false
	for _, top := range calculator.TopValues(volumes, topVolumeCount) {
		if math.Abs(latest.Volume-top) <= highVolumeBand*top {
			isHighVolume = true
			break
		}
	}

	sig := model.StageHighSignal{
		StageHigh:       stageHigh,
		CurrentPrice:    latest.Close,
		VolumeRank:      slices.Index(volumes, latest.Volume) + 1,
		IsBearishCandle: latest.Close < latest.Open,
		IsStageHigh:     latest.Close >= stageHigh*stageHighTolerance,
		IsHighVolume:    isHighVolume,
	}
	sig.IsSellSignal = sig.IsStageHigh && sig.IsHighVolume && sig.IsBearishCandle
	sig.Reason = stageHighReason(sig)
	return sig
}

func stageHighReason(sig model.StageHighSignal) string {
	if sig.IsSellSignal {
		return "阶段高位放量收阴，建议减仓"
	}
	var held []string
	if sig.IsStageHigh {
		held = append(held, "接近阶段高点")
	}
	if sig.IsHighVolume {
		held = append(held, "成交量处于近30日前三")
	}
	if sig.IsBearishCandle {
		held = append(held, "收阴线")
	}
	if len(held) == 0 {
		return "未触发阶段高位卖出条件"
	}
	return "仅满足：" + strings.Join(held, "、") + "，未形成卖出信号"
}
