package recorder

import "StockSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *model.Snapshot) error              { return nil }
func (n *NoopRecorder) RecordAlert(_ model.Alert) error                     { return nil }
func (n *NoopRecorder) RecentAlerts(_ string, _ int) ([]AlertRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                        { return nil }
