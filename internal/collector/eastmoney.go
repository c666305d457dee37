package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"StockSentinel/internal/model"
)

const (
	eastMoneyKLineURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	eastMoneyMaxBars  = 1000
	eastMoneyReferer  = "https://quote.eastmoney.com/"
)

// EastMoneyFetcher loads forward-adjusted A-share daily K-lines.
type EastMoneyFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewEastMoneyFetcher creates a fetcher with the given request timeout.
func NewEastMoneyFetcher(timeout time.Duration) *EastMoneyFetcher {
	return &EastMoneyFetcher{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: eastMoneyKLineURL,
	}
}

func (f *EastMoneyFetcher) Name() string { return "eastmoney" }

// SecID maps a code to the exchange-prefixed id: 1.x for Shanghai, 0.x for Shenzhen.
func SecID(code string) string {
	code = strings.TrimSpace(code)
	if code != "" && (code[0] == '6' || code[0] == '5' || code[0] == '9') {
		return "1." + code
	}
	return "0." + code
}

func (f *EastMoneyFetcher) FetchDailyBars(ctx context.Context, code string, days int) (*model.PriceSeries, error) {
	if days <= 0 {
		return nil, fmt.Errorf("eastmoney: invalid days %d", days)
	}
	days = min(days, eastMoneyMaxBars)
	u := fmt.Sprintf("%s?secid=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56&klt=101&fqt=1&end=20500101&lmt=%d",
		f.BaseURL, SecID(code), days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", eastMoneyReferer)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eastmoney fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("eastmoney read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eastmoney: status %d", resp.StatusCode)
	}
	return parseEastMoneyKLines(body, code)
}

// parseEastMoneyKLines reads data.klines rows of "date,open,close,high,low,volume".
func parseEastMoneyKLines(body []byte, code string) (*model.PriceSeries, error) {
	klines := gjson.GetBytes(body, "data.klines")
	if !klines.IsArray() {
		return nil, fmt.Errorf("eastmoney %s: %w", code, ErrNoData)
	}

	series := &model.PriceSeries{
		Code:      code,
		Name:      gjson.GetBytes(body, "data.name").String(),
		FetchedAt: time.Now(),
	}
	for _, row := range klines.Array() {
		bar, err := parseEastMoneyRow(row.String())
		if err != nil {
			return nil, fmt.Errorf("eastmoney %s: %w", code, err)
		}
		series.DailyBars = append(series.DailyBars, bar)
	}
	if len(series.DailyBars) == 0 {
		return nil, fmt.Errorf("eastmoney %s: %w", code, ErrNoData)
	}
	return series, nil
}

func parseEastMoneyRow(row string) (model.OHLCV, error) {
	parts := strings.Split(strings.TrimSpace(row), ",")
	if len(parts) < 6 {
		return model.OHLCV{}, fmt.Errorf("malformed kline %q", row)
	}
	t, err := time.ParseInLocation(model.DateLayout, parts[0], time.Local)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("kline date %q: %w", parts[0], err)
	}
	var v [5]float64
	for i := range v {
		v[i], err = strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("kline field %q: %w", parts[i+1], err)
		}
	}
	return model.OHLCV{Time: t, Open: v[0], Close: v[1], High: v[2], Low: v[3], Volume: v[4]}, nil
}
