package model

import "time"

// DateLayout is the trading-date format used for display and de-duplication keys.
const DateLayout = "2006-01-02"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Date returns the bar's trading date.
func (b OHLCV) Date() string {
	return b.Time.Format(DateLayout)
}

// PriceSeries holds raw price data for one watched stock.
type PriceSeries struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	DailyBars []OHLCV   `json:"daily_bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Latest returns the newest bar, or false if the series is empty.
func (s *PriceSeries) Latest() (OHLCV, bool) {
	if s == nil || len(s.DailyBars) == 0 {
		return OHLCV{}, false
	}
	return s.DailyBars[len(s.DailyBars)-1], true
}
