package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eastMoneyBody = `{"rc":0,"data":{"code":"600519","market":1,"name":"贵州茅台","klines":[
"2024-05-06,1700.00,1710.50,1720.00,1695.00,35000,5.9E9",
"2024-05-07,1711.00,1705.20,1715.00,1700.10,28000,4.8E9"]}}`

func TestParseEastMoneyKLines(t *testing.T) {
	series, err := parseEastMoneyKLines([]byte(eastMoneyBody), "600519")
	require.NoError(t, err)

	assert.Equal(t, "贵州茅台", series.Name)
	require.Len(t, series.DailyBars, 2)
	bar := series.DailyBars[0]
	assert.Equal(t, "2024-05-06", bar.Date())
	assert.Equal(t, 1700.0, bar.Open)
	assert.Equal(t, 1710.5, bar.Close)
	assert.Equal(t, 1720.0, bar.High)
	assert.Equal(t, 1695.0, bar.Low)
	assert.Equal(t, 35000.0, bar.Volume)
}

func TestParseEastMoneyKLines_NoData(t *testing.T) {
	_, err := parseEastMoneyKLines([]byte(`{"rc":0,"data":null}`), "999999")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = parseEastMoneyKLines([]byte(`{"data":{"klines":[]}}`), "999999")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = parseEastMoneyKLines([]byte(`{"data":{"klines":["2024-05-06,x"]}}`), "999999")
	assert.Error(t, err)
}

func TestSecID(t *testing.T) {
	assert.Equal(t, "1.600519", SecID("600519"))
	assert.Equal(t, "0.000001", SecID("000001"))
	assert.Equal(t, "0.300750", SecID(" 300750 "))
}

func TestEastMoneyFetcher_FetchDailyBars(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(eastMoneyBody))
	}))
	defer srv.Close()

	f := NewEastMoneyFetcher(5 * time.Second)
	f.BaseURL = srv.URL
	series, err := f.FetchDailyBars(context.Background(), "600519", 2)
	require.NoError(t, err)
	assert.Len(t, series.DailyBars, 2)
	assert.Contains(t, gotQuery, "secid=1.600519")
	assert.Contains(t, gotQuery, "lmt=2")
}

func TestEastMoneyFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewEastMoneyFetcher(5 * time.Second)
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "600519", 10)
	assert.Error(t, err)
}
