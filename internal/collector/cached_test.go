package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/cache"
	"StockSentinel/internal/model"
)

type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error) {
	c.calls++
	return c.MockFetcher.FetchDailyBars(ctx, code, days)
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	src := &countingFetcher{MockFetcher: MockFetcher{Price: 10}}
	f := NewCachedFetcher(src, cache.NewMemoryCache(), time.Minute)

	first, err := f.FetchDailyBars(ctx, "000001", 30)
	require.NoError(t, err)
	second, err := f.FetchDailyBars(ctx, "000001", 30)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "mock", f.Name())
	require.Len(t, second.DailyBars, 30)
	assert.Equal(t, first.DailyBars[29].Close, second.DailyBars[29].Close)
	assert.True(t, first.DailyBars[29].Time.Equal(second.DailyBars[29].Time))

	_, err = f.FetchDailyBars(ctx, "000001", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}
