// Package api serves the read-only JSON query endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/alert"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
)

const defaultAlertLimit = 20

// SnapshotSource provides the watchlist and the latest computed snapshots.
type SnapshotSource interface {
	Watchlist() []model.WatchItem
	Latest(code string) (*model.Snapshot, bool)
	Check(ctx context.Context, code string) (*model.Snapshot, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	Source   SnapshotSource
	Recorder recorder.Recorder
	// Alerts is optional; when set, /healthz reports delivery state.
	Alerts *alert.Manager
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/watchlist", h.GetWatchlist)
		api.GET("/stocks/:code/snapshot", h.GetSnapshot)
		api.GET("/stocks/:code/alerts", h.GetAlerts)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("http request")
	}
}

// Health reports liveness and how many alerts have been delivered.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "watchlist": len(h.Source.Watchlist())}
	if h.Alerts != nil {
		st := h.Alerts.GetState()
		body["alerts_sent"] = st.Sent
		body["alerts_updated_at"] = st.UpdatedAt
	}
	c.JSON(http.StatusOK, body)
}

// GetWatchlist lists the configured stocks.
func (h *Handler) GetWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Source.Watchlist()})
}

// GetSnapshot returns the latest snapshot of a stock. A missing snapshot,
// or refresh=1, computes a fresh one.
func (h *Handler) GetSnapshot(c *gin.Context) {
	code := c.Param("code")
	if c.Query("refresh") != "1" {
		if snap, ok := h.Source.Latest(code); ok {
			c.JSON(http.StatusOK, gin.H{"data": snap, "fromCache": true})
			return
		}
	}

	snap, err := h.Source.Check(c.Request.Context(), code)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, collector.ErrNoData) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap, "fromCache": false})
}

// GetAlerts returns the most recent alerts recorded for a stock.
func (h *Handler) GetAlerts(c *gin.Context) {
	limit := defaultAlertLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.Recorder.RecentAlerts(c.Param("code"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []recorder.AlertRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
