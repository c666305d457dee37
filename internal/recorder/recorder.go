package recorder

import (
	"time"

	"StockSentinel/internal/model"
)

// AlertRecord is a stored alert with the time it was sent.
type AlertRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Code      string          `json:"code"`
	Kind      model.AlertKind `json:"kind"`
	BarDate   string          `json:"bar_date"`
	Message   string          `json:"message"`
}

// Recorder persists snapshots and sent alerts for later analysis.
type Recorder interface {
	RecordSnapshot(snap *model.Snapshot) error
	RecordAlert(a model.Alert) error
	RecentAlerts(code string, limit int) ([]AlertRecord, error)
	Close() error
}
