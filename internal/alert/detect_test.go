package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func TestFromSnapshot(t *testing.T) {
	assert.Nil(t, FromSnapshot(nil))

	snap := &model.Snapshot{
		Code:    "600519",
		Name:    "贵州茅台",
		BarTime: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Buy:     model.BuySignal{HasBuySignal: true, JValue: 12.3, JThreshold: 20},
		Sell:    model.SellSignal{HasSellSignal: true, ConsecutiveDaysBelowWhiteLine: 3},
		Trend:   &model.ZhixingTrend{WhiteLine: 10.5, YellowLine: 10.4, IsGoldenCross: true},
		Monitors: []model.MonitorResult{
			{Rule: model.MonitorRule{Type: model.MonitorPrice, Condition: model.ConditionAbove, Value: 10}, Actual: 10.6, Available: true, Triggered: true},
			{Rule: model.MonitorRule{Type: model.MonitorKDJJ, Condition: model.ConditionBelow, Value: 0}, Actual: 5, Available: true},
		},
	}

	alerts := FromSnapshot(snap)
	require.Len(t, alerts, 4)

	kinds := make([]model.AlertKind, len(alerts))
	for i, a := range alerts {
		kinds[i] = a.Kind
		assert.Equal(t, "2024-05-06", a.BarDate)
		assert.Equal(t, "贵州茅台", a.Name)
	}
	assert.Equal(t, []model.AlertKind{model.AlertBuy, model.AlertSell, model.AlertGoldenCross, model.AlertMonitor}, kinds)
	assert.Equal(t, "连续 3 日收盘跌破白线", alerts[1].Message)
	assert.Equal(t, "PRICE:above:10", alerts[3].Key)
	assert.Equal(t, "价格 当前 10.60，高于 10", alerts[3].Message)
}

func TestFromSnapshot_Quiet(t *testing.T) {
	assert.Empty(t, FromSnapshot(&model.Snapshot{Code: "000001"}))
}
