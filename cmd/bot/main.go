package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/alert"
	"StockSentinel/internal/api"
	"StockSentinel/internal/cache"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scheduler"
)

func setupLogging(level, format string) {
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	timeout := time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second
	switch cfg.DataSource.Provider {
	case config.ProviderEastMoney:
		return collector.NewEastMoneyFetcher(timeout)
	case config.ProviderYahoo:
		return collector.NewYahooFetcher(cfg.Proxy, timeout)
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 10}
	default:
		return &collector.RoutedFetcher{
			AShare: collector.NewEastMoneyFetcher(timeout),
			Other:  collector.NewYahooFetcher(cfg.Proxy, timeout),
		}
	}
}

func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.Prefix)
	if err != nil {
		log.Warnf("redis unavailable, using in-memory cache: %v", err)
		return cache.NewMemoryCache()
	}
	log.Infof("K-line cache: redis %s", cfg.Cache.RedisAddr)
	return rc
}

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	setupLogging(cfg.Log.Level, cfg.Log.Format)
	log.Info("StockSentinel starting...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := newFetcher(cfg)
	kc := newCache(ctx, cfg)
	defer kc.Close()
	log.Infof("data source: %s", fetcher.Name())

	col := collector.NewCollector(collector.NewCachedFetcher(fetcher, kc, time.Duration(cfg.Cache.TTLMinutes)*time.Minute))
	col.HistoryDays = cfg.DataSource.HistoryDays

	am, err := alert.NewManager(cfg.Alert.StateFile)
	if err != nil {
		log.Fatalf("init alert manager: %v", err)
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sched := scheduler.NewScheduler(ctx, cfg, col, am, tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.CheckCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(&api.Handler{Source: sched, Recorder: rec, Alerts: am}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("query API listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server: %v", err)
		}
	}()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing watchlist check now")
		go sched.RunCheckNow()
	}

	log.Infof("StockSentinel is running with %d stocks. Press Ctrl+C to stop.", len(cfg.Watchlist))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	log.Info("StockSentinel stopped")
}
