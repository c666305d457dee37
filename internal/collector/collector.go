package collector

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// DefaultHistoryDays covers the slowest yellow-line average and the
// six-month stage-high window.
const DefaultHistoryDays = 300

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, code string, days int) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars := m.DailyData
	if bars == nil {
		bars = generateMockBars(m.Price, days)
	}
	return &model.PriceSeries{Code: code, Name: "mock " + code, DailyBars: bars, FetchedAt: time.Now()}, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Target is one watched stock and the parameters to analyse it with.
type Target struct {
	Code   string
	Name   string
	Params strategy.Params
}

// Collector fetches K-lines and turns them into snapshots.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
}

// NewCollector creates a Collector reading DefaultHistoryDays of history.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, HistoryDays: DefaultHistoryDays}
}

// Collect fetches daily bars for the target and computes every indicator.
func (c *Collector) Collect(ctx context.Context, t Target) (*model.Snapshot, error) {
	series, err := c.Fetcher.FetchDailyBars(ctx, t.Code, c.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %w", t.Code, err)
	}
	latest, ok := series.Latest()
	if !ok {
		return nil, fmt.Errorf("fetch daily bars %s: %w", t.Code, ErrNoData)
	}

	name := t.Name
	if name == "" {
		name = series.Name
	}
	snap := strategy.Analyze(t.Code, name, series.DailyBars, t.Params)

	entry := log.WithFields(log.Fields{"code": t.Code, "bar": latest.Date()})
	if snap.Trend == nil {
		entry.Warnf("only %d bars, zhixing trend not available", len(series.DailyBars))
	}
	if snap.BBI.IsZero() {
		entry.Warn("BBI not available, fewer than 24 bars")
	}
	return snap, nil
}
