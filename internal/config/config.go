package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// Data source providers.
const (
	ProviderAuto      = "auto"
	ProviderEastMoney = "eastmoney"
	ProviderYahoo     = "yahoo"
	ProviderMock      = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider       string `yaml:"provider"`
		HistoryDays    int    `yaml:"history_days"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		Prefix        string `yaml:"prefix"`
		TTLMinutes    int    `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Schedule struct {
		CheckCron  string `yaml:"check_cron"`
		ReportCron string `yaml:"report_cron"`
		Workers    int    `yaml:"workers"`
	} `yaml:"schedule"`
	Signal    SignalConfig      `yaml:"signal"`
	Watchlist []model.WatchItem `yaml:"watchlist"`
	Alert     struct {
		StateFile  string `yaml:"state_file"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"alert"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// SignalConfig holds the indicator and buy-rule parameters.
type SignalConfig struct {
	KDJPeriod       int                       `yaml:"kdj_period"`
	JThreshold      *float64                  `yaml:"j_threshold"`
	VolumeReference float64                   `yaml:"volume_reference"`
	VolumePeriod    int                       `yaml:"volume_period"`
	VolumeRatio     float64                   `yaml:"volume_ratio"`
	Zhixing         calculator.ZhixingOptions `yaml:"zhixing"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("CRON_CHECK"); v != "" {
		cfg.Schedule.CheckCron = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("J_THRESHOLD"); v != "" {
		var j float64
		if _, err := fmt.Sscanf(v, "%f", &j); err == nil {
			cfg.Signal.JThreshold = &j
		}
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = nil
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				cfg.Watchlist = append(cfg.Watchlist, model.WatchItem{Code: code})
			}
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderAuto
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 300
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 10
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "stocksentinel:"
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 10
	}
	if cfg.Schedule.CheckCron == "" {
		cfg.Schedule.CheckCron = "0 */30 9-15 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 30 15 * * 1-5"
	}
	if cfg.Schedule.Workers == 0 {
		cfg.Schedule.Workers = 4
	}
	if cfg.Signal.KDJPeriod == 0 {
		cfg.Signal.KDJPeriod = calculator.DefaultKDJPeriod
	}
	if cfg.Signal.JThreshold == nil {
		j := strategy.DefaultJThreshold
		cfg.Signal.JThreshold = &j
	}
	if cfg.Signal.VolumePeriod == 0 {
		cfg.Signal.VolumePeriod = strategy.DefaultVolumePeriod
	}
	if cfg.Signal.VolumeRatio == 0 {
		cfg.Signal.VolumeRatio = strategy.DefaultVolumeRatio
	}
	if cfg.Alert.StateFile == "" {
		cfg.Alert.StateFile = "data/alert_state.json"
	}
	if cfg.Alert.MaxRetries == 0 {
		cfg.Alert.MaxRetries = 3
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_sentinel.db"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func validJThreshold(j float64) bool {
	return j >= strategy.MinJThreshold && j <= strategy.MaxJThreshold
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case ProviderAuto, ProviderEastMoney, ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Signal.KDJPeriod <= 0 {
		return fmt.Errorf("signal.kdj_period must be positive")
	}
	if c.Signal.JThreshold != nil && !validJThreshold(*c.Signal.JThreshold) {
		return fmt.Errorf("signal.j_threshold must be within [0, 100]")
	}
	if c.Signal.VolumeReference < 0 {
		return fmt.Errorf("signal.volume_reference must not be negative")
	}
	if c.Schedule.Workers <= 0 {
		return fmt.Errorf("schedule.workers must be positive")
	}
	for name, spec := range map[string]string{"check_cron": c.Schedule.CheckCron, "report_cron": c.Schedule.ReportCron} {
		if _, err := cronParser.Parse(spec); err != nil {
			return fmt.Errorf("schedule.%s: %w", name, err)
		}
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must contain at least one stock")
	}
	for i, item := range c.Watchlist {
		if item.Code == "" {
			return fmt.Errorf("watchlist[%d].code is required", i)
		}
		if item.JThreshold != nil && !validJThreshold(*item.JThreshold) {
			return fmt.Errorf("watchlist[%d].j_threshold must be within [0, 100]", i)
		}
		for _, rule := range item.Monitors {
			if !strategy.ValidMonitorRule(rule) {
				return fmt.Errorf("watchlist[%d]: invalid monitor rule %s/%s", i, rule.Type, rule.Condition)
			}
		}
	}
	return nil
}

// Find returns the watch item with the given code.
func (c *Config) Find(code string) (model.WatchItem, bool) {
	for _, item := range c.Watchlist {
		if strings.EqualFold(item.Code, code) {
			return item, true
		}
	}
	return model.WatchItem{}, false
}

// Params builds the analysis parameters for one watch item.
func (c *Config) Params(item model.WatchItem) strategy.Params {
	j := strategy.DefaultJThreshold
	if c.Signal.JThreshold != nil {
		j = *c.Signal.JThreshold
	}
	if item.JThreshold != nil {
		j = *item.JThreshold
	}
	return strategy.Params{
		KDJPeriod: c.Signal.KDJPeriod,
		Zhixing:   c.Signal.Zhixing,
		Buy: strategy.BuyConfig{
			JThreshold: j,
			Volume:     strategy.NewVolumePredicate(c.Signal.VolumeReference, c.Signal.VolumePeriod, c.Signal.VolumeRatio),
		},
		Monitors: item.Monitors,
	}
}
