package calculator

import "StockSentinel/internal/model"

// BBIMinBars is the history needed for the slowest BBI average.
const BBIMinBars = 24

// CalculateBBI computes the bull-bear index of the latest bar as the mean of
// the 3, 6, 12 and 24 day close averages. Fewer than 24 bars yields the zero
// sentinel.
func CalculateBBI(bars []model.OHLCV) model.BBI {
	if len(bars) < BBIMinBars {
		return model.BBI{}
	}
	closes := extractCloses(bars)

	// Lengths are checked above, so the errors cannot occur.
	ma3, _ := CalculateSMA(closes, 3)
	ma6, _ := CalculateSMA(closes, 6)
	ma12, _ := CalculateSMA(closes, 12)
	ma24, _ := CalculateSMA(closes, 24)

	return model.BBI{
		BBI:  Round2((ma3 + ma6 + ma12 + ma24) / 4),
		MA3:  Round2(ma3),
		MA6:  Round2(ma6),
		MA12: Round2(ma12),
		MA24: Round2(ma24),
	}
}

// BBIHistory returns the close and BBI of each of the last days bars that
// have enough history for BBI, oldest first.
func BBIHistory(bars []model.OHLCV, days int) []model.BBIDay {
	start := len(bars) - days
	if start < BBIMinBars-1 {
		start = BBIMinBars - 1
	}
	var history []model.BBIDay
	for i := start; i < len(bars); i++ {
		bbi := CalculateBBI(bars[:i+1])
		history = append(history, model.BBIDay{
			Date:  bars[i].Date(),
			Close: bars[i].Close,
			BBI:   bbi.BBI,
		})
	}
	return history
}

// CheckBBIConsecutiveDays counts the streak of closes on one side of BBI,
// walking back from the newest day. A tie or a day on the other side ends
// the streak. A streak counts as consecutive from two days.
func CheckBBIConsecutiveDays(history []model.BBIDay) model.BBIStreak {
	var above, below int
	for i := len(history) - 1; i >= 0; i-- {
		day := history[i]
		if day.Close > day.BBI {
			if below > 0 {
				break
			}
			above++
		} else if day.Close < day.BBI {
			if above > 0 {
				break
			}
			below++
		} else {
			break
		}
	}
	return model.BBIStreak{
		AboveBBIConsecutiveDays: above >= 2,
		BelowBBIConsecutiveDays: below >= 2,
		AboveCount:              above,
		BelowCount:              below,
	}
}
