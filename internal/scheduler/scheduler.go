package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/alert"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
)

// SnapshotCollector computes a snapshot for one watched stock.
type SnapshotCollector interface {
	Collect(ctx context.Context, t collector.Target) (*model.Snapshot, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist checks on cron and answers commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector SnapshotCollector
	Alerts    *alert.Manager
	Notifier  Sender
	Recorder  recorder.Recorder
	Config    *config.Config
	Ctx       context.Context

	mu     sync.RWMutex
	latest map[string]*model.Snapshot
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, col SnapshotCollector, am *alert.Manager, sender Sender, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Alerts:    am,
		Notifier:  sender,
		Recorder:  rec,
		Config:    cfg,
		Ctx:       ctx,
		latest:    map[string]*model.Snapshot{},
	}
}

// RegisterAll registers the intraday check and the closing report.
func (s *Scheduler) RegisterAll(checkCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(checkCron, s.checkTask); err != nil {
		return fmt.Errorf("register check task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunCheckNow executes the check task immediately (for RUN_ON_START).
func (s *Scheduler) RunCheckNow() {
	s.checkTask()
}

type checkResult struct {
	item model.WatchItem
	snap *model.Snapshot
	err  error
}

// checkAll analyses every watch item with at most schedule.workers fetches
// in flight. Results keep watchlist order.
func (s *Scheduler) checkAll(ctx context.Context) []checkResult {
	items := s.Config.Watchlist
	results := make([]checkResult, len(items))
	sem := make(chan struct{}, max(s.Config.Schedule.Workers, 1))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = checkResult{item: item, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			snap, err := s.collect(ctx, item)
			results[i] = checkResult{item: item, snap: snap, err: err}
		}()
	}
	wg.Wait()
	return results
}

func (s *Scheduler) collect(ctx context.Context, item model.WatchItem) (*model.Snapshot, error) {
	snap, err := s.Collector.Collect(ctx, collector.Target{
		Code:   item.Code,
		Name:   item.Name,
		Params: s.Config.Params(item),
	})
	if err != nil {
		metrics.RecordCheckError(item.Code)
		return nil, err
	}

	s.mu.Lock()
	s.latest[item.Code] = snap
	s.mu.Unlock()

	metrics.SetSignal(item.Code, "buy", snap.Buy.HasBuySignal)
	metrics.SetSignal(item.Code, "sell", snap.Sell.HasSellSignal)
	metrics.SetSignal(item.Code, "stage_high", snap.StageHigh.IsSellSignal)
	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		log.WithField("code", item.Code).Errorf("record snapshot: %v", err)
	}
	return snap, nil
}

func (s *Scheduler) checkTask() {
	start := time.Now()
	log.Infof("running watchlist check (%d stocks)", len(s.Config.Watchlist))

	failed := 0
	for _, r := range s.checkAll(s.Ctx) {
		if r.err != nil {
			failed++
			log.WithField("code", r.item.Code).Errorf("check failed: %v", r.err)
			continue
		}
		s.dispatchAlerts(r.snap)
	}

	metrics.ObserveCheck(time.Since(start))
	log.Infof("watchlist check done in %v, %d failed", time.Since(start).Round(time.Millisecond), failed)
}

// dispatchAlerts sends the snapshot's new alerts in one message.
func (s *Scheduler) dispatchAlerts(snap *model.Snapshot) {
	var fresh []model.Alert
	for _, a := range alert.FromSnapshot(snap) {
		if s.Alerts.ShouldNotify(a) {
			fresh = append(fresh, a)
		}
	}
	if len(fresh) == 0 {
		return
	}

	if err := s.Notifier.SendWithRetry(s.Ctx, notifier.FormatAlerts(fresh), s.Config.Alert.MaxRetries); err != nil {
		log.WithField("code", snap.Code).Errorf("send alerts: %v", err)
		return
	}
	for _, a := range fresh {
		s.Alerts.MarkSent(a)
		metrics.RecordAlert(string(a.Kind))
		if err := s.Recorder.RecordAlert(a); err != nil {
			log.WithField("code", a.Code).Errorf("record alert: %v", err)
		}
	}
}

func (s *Scheduler) reportTask() {
	log.Info("running daily report")
	s.trySend(s.buildReport(s.Ctx))
}

func (s *Scheduler) buildReport(ctx context.Context) string {
	var snaps []*model.Snapshot
	var failed []string
	for _, r := range s.checkAll(ctx) {
		if r.err != nil {
			failed = append(failed, r.item.Code)
			continue
		}
		snaps = append(snaps, r.snap)
	}
	return notifier.FormatDigest(snaps, failed, time.Now())
}

// Check analyses one code on demand. Codes outside the watchlist use the
// global signal settings and are neither cached, recorded nor exported as
// metrics, so arbitrary codes leave no state behind.
func (s *Scheduler) Check(ctx context.Context, code string) (*model.Snapshot, error) {
	if item, ok := s.Config.Find(code); ok {
		return s.collect(ctx, item)
	}
	return s.Collector.Collect(ctx, collector.Target{
		Code:   code,
		Params: s.Config.Params(model.WatchItem{Code: code}),
	})
}

// Latest returns the most recent snapshot of a code, if any.
func (s *Scheduler) Latest(code string) (*model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.latest[code]
	return snap, ok
}

// Watchlist returns the configured watch items.
func (s *Scheduler) Watchlist() []model.WatchItem {
	return s.Config.Watchlist
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Commands sent in groups carry a bot suffix, e.g. /check@SentinelBot.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/watchlist", "自选股":
		return notifier.FormatWatchlist(s.Config.Watchlist)
	case "/check", "查询":
		if len(fields) < 2 {
			return "用法: /check &lt;代码&gt;"
		}
		snap, err := s.Check(ctx, fields[1])
		if err != nil {
			return fmt.Sprintf("❌ %s 获取失败: %s", html.EscapeString(fields[1]), html.EscapeString(err.Error()))
		}
		return notifier.FormatSnapshot(snap)
	case "/report", "日报":
		return s.buildReport(ctx)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, s.Config.Alert.MaxRetries); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
