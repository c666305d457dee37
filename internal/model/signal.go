package model

// SellDay is one enriched bar of the sell-signal detector, kept for display.
type SellDay struct {
	Date           string  `json:"date"`
	Price          float64 `json:"price"`
	WhiteLine      float64 `json:"white_line"`
	BelowWhiteLine bool    `json:"below_white_line"`
}

// SellSignal flags sustained closes below the white line.
type SellSignal struct {
	HasSellSignal                 bool      `json:"has_sell_signal"`
	ConsecutiveDaysBelowWhiteLine int       `json:"consecutive_days_below_white_line"`
	LastTwoDaysData               []SellDay `json:"last_two_days_data"`
}

// BuyConditions are the three legs of the composite buy rule.
type BuyConditions struct {
	WhiteAboveYellow  bool `json:"white_above_yellow"`
	JBelowThreshold   bool `json:"j_below_threshold"`
	VolumeContraction bool `json:"volume_contraction"`
}

// BuySignal is the composite buy decision and the values it was made from.
// Conditions is nil when an input was missing.
type BuySignal struct {
	HasBuySignal bool           `json:"has_buy_signal"`
	Conditions   *BuyConditions `json:"conditions,omitempty"`
	WhiteLine    float64        `json:"white_line"`
	YellowLine   float64        `json:"yellow_line"`
	JValue       float64        `json:"j_value"`
	Volume       float64        `json:"volume"`
	AvgVolume    float64        `json:"avg_volume"`
	JThreshold   float64        `json:"j_threshold"`
}

// StageHighSignal is the stage-high / heavy-volume / bearish-bar heuristic.
type StageHighSignal struct {
	IsSellSignal    bool    `json:"is_sell_signal"`
	Reason          string  `json:"reason"`
	StageHigh       float64 `json:"stage_high"`
	CurrentPrice    float64 `json:"current_price"`
	VolumeRank      int     `json:"volume_rank"`
	IsBearishCandle bool    `json:"is_bearish_candle"`
	IsStageHigh     bool    `json:"is_stage_high"`
	IsHighVolume    bool    `json:"is_high_volume"`
}

// MonitorType selects which value a monitor rule watches.
type MonitorType string

const (
	MonitorKDJJ       MonitorType = "KDJ_J"
	MonitorWeeklyKDJJ MonitorType = "WEEKLY_KDJ_J"
	MonitorPrice      MonitorType = "PRICE"
	MonitorVolume     MonitorType = "VOLUME"
)

// MonitorCondition is the comparison applied by a monitor rule.
type MonitorCondition string

const (
	ConditionAbove MonitorCondition = "above"
	ConditionBelow MonitorCondition = "below"
)

// MonitorRule is a user-defined threshold alert on a watched stock.
type MonitorRule struct {
	Type      MonitorType      `yaml:"type" json:"type"`
	Condition MonitorCondition `yaml:"condition" json:"condition"`
	Value     float64          `yaml:"value" json:"value"`
}

// MonitorResult is the outcome of evaluating one rule against a snapshot.
type MonitorResult struct {
	Rule      MonitorRule `json:"rule"`
	Actual    float64     `json:"actual"`
	Available bool        `json:"available"`
	Triggered bool        `json:"triggered"`
}
