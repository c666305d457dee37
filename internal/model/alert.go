package model

import "time"

// AlertKind indicates what raised an alert.
type AlertKind string

const (
	AlertBuy         AlertKind = "BUY"
	AlertSell        AlertKind = "SELL"
	AlertGoldenCross AlertKind = "GOLDEN_CROSS"
	AlertDeathCross  AlertKind = "DEATH_CROSS"
	AlertStageHigh   AlertKind = "STAGE_HIGH"
	AlertMonitor     AlertKind = "MONITOR"
)

// Alert is a single notification-worthy event for one stock.
type Alert struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Kind    AlertKind `json:"kind"`
	Key     string    `json:"key"` // distinguishes several alerts of the same kind, e.g. monitor rules
	BarDate string    `json:"bar_date"`
	Message string    `json:"message"`
}

// AlertState remembers the last bar date each alert fired on.
type AlertState struct {
	LastFired map[string]string `json:"last_fired"`
	Sent      int               `json:"sent"`
	UpdatedAt time.Time         `json:"updated_at"`
}
