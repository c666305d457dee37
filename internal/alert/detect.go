package alert

import (
	"fmt"

	"StockSentinel/internal/model"
)

// FromSnapshot lists the alerts a snapshot raises, keyed to its bar date.
func FromSnapshot(snap *model.Snapshot) []model.Alert {
	if snap == nil {
		return nil
	}
	date := snap.BarTime.Format(model.DateLayout)
	newAlert := func(kind model.AlertKind, key, msg string) model.Alert {
		return model.Alert{Code: snap.Code, Name: snap.Name, Kind: kind, Key: key, BarDate: date, Message: msg}
	}

	var alerts []model.Alert
	if snap.Buy.HasBuySignal {
		alerts = append(alerts, newAlert(model.AlertBuy, "",
			fmt.Sprintf("白线在黄线之上，J=%.2f 低于 %.0f，成交量萎缩", snap.Buy.JValue, snap.Buy.JThreshold)))
	}
	if snap.Sell.HasSellSignal {
		alerts = append(alerts, newAlert(model.AlertSell, "",
			fmt.Sprintf("连续 %d 日收盘跌破白线", snap.Sell.ConsecutiveDaysBelowWhiteLine)))
	}
	if t := snap.Trend; t != nil {
		if t.IsGoldenCross {
			alerts = append(alerts, newAlert(model.AlertGoldenCross, "",
				fmt.Sprintf("白线 %.2f 上穿黄线 %.2f", t.WhiteLine, t.YellowLine)))
		}
		if t.IsDeathCross {
			alerts = append(alerts, newAlert(model.AlertDeathCross, "",
				fmt.Sprintf("白线 %.2f 下穿黄线 %.2f", t.WhiteLine, t.YellowLine)))
		}
	}
	if snap.StageHigh.IsSellSignal {
		alerts = append(alerts, newAlert(model.AlertStageHigh, "", snap.StageHigh.Reason))
	}
	for _, r := range snap.Monitors {
		if !r.Triggered {
			continue
		}
		key := fmt.Sprintf("%s:%s:%g", r.Rule.Type, r.Rule.Condition, r.Rule.Value)
		alerts = append(alerts, newAlert(model.AlertMonitor, key,
			fmt.Sprintf("%s 当前 %.2f，%s %g", monitorLabel(r.Rule.Type), r.Actual, conditionLabel(r.Rule.Condition), r.Rule.Value)))
	}
	return alerts
}

func monitorLabel(t model.MonitorType) string {
	switch t {
	case model.MonitorKDJJ:
		return "日线J值"
	case model.MonitorWeeklyKDJJ:
		return "周线J值"
	case model.MonitorPrice:
		return "价格"
	case model.MonitorVolume:
		return "成交量"
	}
	return string(t)
}

func conditionLabel(c model.MonitorCondition) string {
	if c == model.ConditionAbove {
		return "高于"
	}
	return "低于"
}
