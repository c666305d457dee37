package collector

import (
	"context"
	"errors"
	"regexp"

	"StockSentinel/internal/model"
)

// ErrNoData is returned when a source has no bars for a code.
var ErrNoData = errors.New("no data")

// Fetcher loads daily K-lines for a stock code.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error)
	Name() string
}

var aShareCode = regexp.MustCompile(`^\d{6}$`)

// IsAShareCode reports whether code is a six-digit Shanghai/Shenzhen code.
func IsAShareCode(code string) bool {
	return aShareCode.MatchString(code)
}

// RoutedFetcher sends A-share codes to one source and everything else to another.
type RoutedFetcher struct {
	AShare Fetcher
	Other  Fetcher
}

func (r *RoutedFetcher) Name() string { return "auto" }

func (r *RoutedFetcher) FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error) {
	if IsAShareCode(code) {
		return r.AShare.FetchDailyBars(ctx, code, days)
	}
	return r.Other.FetchDailyBars(ctx, code, days)
}
