package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"StockSentinel/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher loads daily bars for non A-share tickers (HK, US, indices).
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a fetcher, optionally routed through an HTTP proxy.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client:  &http.Client{Timeout: timeout, Transport: transport},
		BaseURL: yahooChartURL,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooRange picks the smallest chart range that covers days trading days.
func yahooRange(days int) string {
	switch {
	case days <= 20:
		return "1mo"
	case days <= 60:
		return "3mo"
	case days <= 120:
		return "6mo"
	case days <= 250:
		return "1y"
	case days <= 500:
		return "2y"
	default:
		return "5y"
	}
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error) {
	if days <= 0 {
		return nil, fmt.Errorf("yahoo: invalid days %d", days)
	}
	u := fmt.Sprintf("%s%s?interval=1d&range=%s", f.BaseURL, url.PathEscape(code), yahooRange(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	series, err := parseYahooChart(body, code)
	if err != nil {
		return nil, err
	}
	if len(series.DailyBars) > days {
		series.DailyBars = series.DailyBars[len(series.DailyBars)-days:]
	}
	return series, nil
}

func parseYahooChart(body []byte, code string) (*model.PriceSeries, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo %s: invalid JSON", code)
	}
	chart := gjson.GetBytes(body, "chart")
	if desc := chart.Get("error.description"); desc.Exists() {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	result := chart.Get("result.0")
	quote := result.Get("indicators.quote.0")
	if !quote.Exists() {
		return nil, fmt.Errorf("yahoo %s: %w", code, ErrNoData)
	}

	column := func(name string) []gjson.Result { return quote.Get(name).Array() }
	opens, highs, lows, closes, volumes := column("open"), column("high"), column("low"), column("close"), column("volume")

	series := &model.PriceSeries{Code: code, Name: result.Get("meta.shortName").String(), FetchedAt: time.Now()}
	for i, ts := range result.Get("timestamp").Array() {
		// null rows mark holidays and halts
		if isNull(opens, i) || isNull(highs, i) || isNull(lows, i) || isNull(closes, i) {
			continue
		}
		bar := model.OHLCV{
			Time:  time.Unix(ts.Int(), 0),
			Open:  opens[i].Float(),
			High:  highs[i].Float(),
			Low:   lows[i].Float(),
			Close: closes[i].Float(),
		}
		if i < len(volumes) {
			bar.Volume = volumes[i].Float()
		}
		series.DailyBars = append(series.DailyBars, bar)
	}
	if len(series.DailyBars) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", code, ErrNoData)
	}
	sort.Slice(series.DailyBars, func(i, j int) bool {
		return series.DailyBars[i].Time.Before(series.DailyBars[j].Time)
	})
	return series, nil
}

func isNull(col []gjson.Result, i int) bool {
	return i >= len(col) || col[i].Type == gjson.Null
}
