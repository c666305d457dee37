package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"StockSentinel/internal/model"
)

var alertTitles = map[model.AlertKind]string{
	model.AlertBuy:         "🟢 买入信号",
	model.AlertSell:        "🔴 卖出信号",
	model.AlertGoldenCross: "✨ 白黄线金叉",
	model.AlertDeathCross:  "⚠️ 白黄线死叉",
	model.AlertStageHigh:   "📉 阶段高位放量",
	model.AlertMonitor:     "🔔 监控提醒",
}

func stockLabel(code, name string) string {
	if name == "" || name == code {
		return html.EscapeString(code)
	}
	return fmt.Sprintf("%s(%s)", html.EscapeString(name), html.EscapeString(code))
}

// FormatAlerts combines the alerts of one stock into a message.
func FormatAlerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return ""
	}
	var b strings.Builder
	first := alerts[0]
	b.WriteString(fmt.Sprintf("<b>%s</b> | %s\n", stockLabel(first.Code, first.Name), first.BarDate))
	for _, a := range alerts {
		b.WriteString(fmt.Sprintf("\n%s\n  %s\n", alertTitles[a.Kind], html.EscapeString(a.Message)))
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

// FormatSnapshot renders every indicator of one stock.
func FormatSnapshot(snap *model.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", stockLabel(snap.Code, snap.Name), snap.BarTime.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("收盘价: %.2f | 成交量: %.0f\n", snap.CurrentPrice, snap.Volume))

	if snap.KDJ != nil {
		b.WriteString(fmt.Sprintf("日KDJ: K %.2f D %.2f J %.2f\n", snap.KDJ.K, snap.KDJ.D, snap.KDJ.J))
	}
	if snap.WeeklyKDJ != nil {
		b.WriteString(fmt.Sprintf("周KDJ: K %.2f D %.2f J %.2f\n", snap.WeeklyKDJ.K, snap.WeeklyKDJ.D, snap.WeeklyKDJ.J))
	}
	if !snap.BBI.IsZero() {
		b.WriteString(fmt.Sprintf("BBI: %.2f", snap.BBI.BBI))
		switch {
		case snap.BBIStreak.AboveBBIConsecutiveDays:
			b.WriteString(fmt.Sprintf(" (连续%d日站上)", snap.BBIStreak.AboveCount))
		case snap.BBIStreak.BelowBBIConsecutiveDays:
			b.WriteString(fmt.Sprintf(" (连续%d日跌破)", snap.BBIStreak.BelowCount))
		}
		b.WriteString("\n")
	}

	if t := snap.Trend; t != nil {
		b.WriteString(fmt.Sprintf("白线: %.2f | 黄线: %.2f\n", t.WhiteLine, t.YellowLine))
		if t.IsGoldenCross {
			b.WriteString("白线上穿黄线（金叉）\n")
		}
		if t.IsDeathCross {
			b.WriteString("白线下穿黄线（死叉）\n")
		}
	} else {
		b.WriteString("白黄线: 数据不足\n")
	}

	b.WriteString("\n<b>买入条件:</b>\n")
	if c := snap.Buy.Conditions; c != nil {
		b.WriteString(fmt.Sprintf("  白线在黄线上 %s\n", yesNo(c.WhiteAboveYellow)))
		b.WriteString(fmt.Sprintf("  J<%.0f %s\n", snap.Buy.JThreshold, yesNo(c.JBelowThreshold)))
		b.WriteString(fmt.Sprintf("  缩量 %s (%.0f / %.0f)\n", yesNo(c.VolumeContraction), snap.Buy.Volume, snap.Buy.AvgVolume))
	} else {
		b.WriteString("  数据不足\n")
	}

	b.WriteString(fmt.Sprintf("\n跌破白线天数: %d\n", snap.Sell.ConsecutiveDaysBelowWhiteLine))
	b.WriteString(fmt.Sprintf("阶段高位: %s\n", html.EscapeString(snap.StageHigh.Reason)))

	for _, m := range snap.Monitors {
		if !m.Available {
			continue
		}
		b.WriteString(fmt.Sprintf("监控 %s %s %g: 当前 %.2f %s\n",
			m.Rule.Type, m.Rule.Condition, m.Rule.Value, m.Actual, yesNo(m.Triggered)))
	}
	return b.String()
}

func signalFlags(snap *model.Snapshot) string {
	var flags []string
	if snap.Buy.HasBuySignal {
		flags = append(flags, "买")
	}
	if snap.Sell.HasSellSignal {
		flags = append(flags, "卖")
	}
	if snap.Trend != nil && snap.Trend.IsGoldenCross {
		flags = append(flags, "金叉")
	}
	if snap.Trend != nil && snap.Trend.IsDeathCross {
		flags = append(flags, "死叉")
	}
	if snap.StageHigh.IsSellSignal {
		flags = append(flags, "高位")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// SnapshotTable renders snapshots as a plain-text table.
func SnapshotTable(snaps []*model.Snapshot) string {
	out := &strings.Builder{}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Code", "Close", "J", "White", "Yellow", "Signal"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range snaps {
		j, white, yellow := "-", "-", "-"
		if s.KDJ != nil {
			j = fmt.Sprintf("%.2f", s.KDJ.J)
		}
		if s.Trend != nil {
			white = fmt.Sprintf("%.2f", s.Trend.WhiteLine)
			yellow = fmt.Sprintf("%.2f", s.Trend.YellowLine)
		}
		table.Append([]string{s.Code, fmt.Sprintf("%.2f", s.CurrentPrice), j, white, yellow, signalFlags(s)})
	}
	table.Render()
	return out.String()
}

// FormatDigest renders the daily watchlist summary.
func FormatDigest(snaps []*model.Snapshot, failed []string, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>StockSentinel 日报</b> | %s\n\n", now.Format(model.DateLayout)))
	if len(snaps) > 0 {
		b.WriteString("<pre>")
		b.WriteString(html.EscapeString(SnapshotTable(snaps)))
		b.WriteString("</pre>\n")
	}
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("获取失败: %s\n", html.EscapeString(strings.Join(failed, ", "))))
	}
	return b.String()
}

// FormatWatchlist lists the configured stocks.
func FormatWatchlist(items []model.WatchItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👀 <b>自选股</b> (%d)\n\n", len(items)))
	for _, it := range items {
		b.WriteString(fmt.Sprintf("• %s", stockLabel(it.Code, it.Name)))
		if len(it.Monitors) > 0 {
			b.WriteString(fmt.Sprintf(" | %d条监控", len(it.Monitors)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>StockSentinel 命令</b>\n\n" +
		"/watchlist - 查看自选股\n" +
		"/check &lt;代码&gt; - 立即计算指标\n" +
		"/report - 发送日报\n" +
		"/help - 显示帮助\n"
}
