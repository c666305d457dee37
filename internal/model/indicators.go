package model

import "time"

// KDJ is one bar's stochastic oscillator reading.
type KDJ struct {
	Time time.Time `json:"time"`
	K    float64   `json:"k"`
	D    float64   `json:"d"`
	J    float64   `json:"j"`
}

// BBI holds the bull-bear index of the latest bar and its component averages.
// All fields are zero when fewer than 24 bars are available.
type BBI struct {
	BBI  float64 `json:"bbi"`
	MA3  float64 `json:"ma3"`
	MA6  float64 `json:"ma6"`
	MA12 float64 `json:"ma12"`
	MA24 float64 `json:"ma24"`
}

// IsZero reports whether b is the insufficient-data sentinel.
func (b BBI) IsZero() bool {
	return b == BBI{}
}

// BBIDay pairs a day's close with that day's BBI.
type BBIDay struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
	BBI   float64 `json:"bbi"`
}

// BBIStreak counts how many of the most recent days closed on one side of BBI.
type BBIStreak struct {
	AboveBBIConsecutiveDays bool `json:"above_bbi_consecutive_days"`
	BelowBBIConsecutiveDays bool `json:"below_bbi_consecutive_days"`
	AboveCount              int  `json:"above_count"`
	BelowCount              int  `json:"below_count"`
}

// TrendPoint is one white/yellow line pair of the Zhixing trend.
type TrendPoint struct {
	Time       time.Time `json:"time"`
	WhiteLine  float64   `json:"white_line"`
	YellowLine float64   `json:"yellow_line"`
}

// ZhixingTrend is the dual-line trend state at the latest bar.
type ZhixingTrend struct {
	Time               time.Time    `json:"time"`
	WhiteLine          float64      `json:"white_line"`
	YellowLine         float64      `json:"yellow_line"`
	PreviousWhiteLine  float64      `json:"previous_white_line"`
	PreviousYellowLine float64      `json:"previous_yellow_line"`
	IsGoldenCross      bool         `json:"is_golden_cross"`
	IsDeathCross       bool         `json:"is_death_cross"`
	Series             []TrendPoint `json:"series"`
}

// Snapshot is everything computed for one watched stock on one run.
type Snapshot struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	BarTime      time.Time       `json:"bar_time"`
	CurrentPrice float64         `json:"current_price"`
	Volume       float64         `json:"volume"`
	KDJ          *KDJ            `json:"kdj,omitempty"`
	WeeklyKDJ    *KDJ            `json:"weekly_kdj,omitempty"`
	BBI          BBI             `json:"bbi"`
	BBIStreak    BBIStreak       `json:"bbi_streak"`
	Trend        *ZhixingTrend   `json:"trend,omitempty"`
	Sell         SellSignal      `json:"sell"`
	Buy          BuySignal       `json:"buy"`
	StageHigh    StageHighSignal `json:"stage_high"`
	Monitors     []MonitorResult `json:"monitors,omitempty"`
	ComputedAt   time.Time       `json:"computed_at"`
}
