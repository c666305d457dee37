package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/cache"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
)

// CachedFetcher serves recent K-lines from a cache before asking the source.
type CachedFetcher struct {
	Source Fetcher
	Cache  cache.Cache
	TTL    time.Duration
}

// NewCachedFetcher wraps source with c.
func NewCachedFetcher(source Fetcher, c cache.Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Source: source, Cache: c, TTL: ttl}
}

func (f *CachedFetcher) Name() string { return f.Source.Name() }

func (f *CachedFetcher) FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error) {
	key := fmt.Sprintf("kline:%s:%s:%d", f.Source.Name(), code, days)

	var series model.PriceSeries
	err := f.Cache.Get(ctx, key, &series)
	switch {
	case err == nil:
		metrics.RecordCache(true)
		return &series, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCache(false)
	default:
		metrics.RecordCache(false)
		log.WithField("code", code).Warnf("cache read failed: %v", err)
	}

	fetched, err := f.Source.FetchDailyBars(ctx, code, days)
	metrics.RecordFetch(f.Source.Name(), err)
	if err != nil {
		return nil, err
	}
	if err := f.Cache.Set(ctx, key, fetched, f.TTL); err != nil {
		log.WithField("code", code).Warnf("cache write failed: %v", err)
	}
	return fetched, nil
}
