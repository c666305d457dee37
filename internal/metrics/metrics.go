// Package metrics exposes Prometheus collectors for fetches, checks and alerts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentinel_fetch_total",
			Help: "K-line fetches by source and result",
		},
		[]string{"source", "result"},
	)

	cacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentinel_cache_total",
			Help: "K-line cache lookups by result",
		},
		[]string{"result"},
	)

	checkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stocksentinel_check_duration_seconds",
			Help:    "Duration of one watchlist check run",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	checkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentinel_check_errors_total",
			Help: "Failed per-stock checks",
		},
		[]string{"code"},
	)

	alertTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksentinel_alert_total",
			Help: "Alerts sent by kind",
		},
		[]string{"kind"},
	)

	signalGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stocksentinel_signal_active",
			Help: "1 when the latest check raised the signal for the stock",
		},
		[]string{"code", "signal"},
	)
)

// RecordFetch counts one fetch attempt.
func RecordFetch(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fetchTotal.WithLabelValues(source, result).Inc()
}

// RecordCache counts a cache hit or miss.
func RecordCache(hit bool) {
	if hit {
		cacheTotal.WithLabelValues("hit").Inc()
		return
	}
	cacheTotal.WithLabelValues("miss").Inc()
}

func ObserveCheck(d time.Duration) { checkDuration.Observe(d.Seconds()) }

func RecordCheckError(code string) { checkErrors.WithLabelValues(code).Inc() }

func RecordAlert(kind string) { alertTotal.WithLabelValues(kind).Inc() }

// SetSignal publishes whether a signal is active for a stock.
func SetSignal(code, signal string, active bool) {
	v := 0.0
	if active {
		v = 1
	}
	signalGauge.WithLabelValues(code, signal).Set(v)
}
