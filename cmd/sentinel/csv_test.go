package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/strategy"
)

func TestReadBarsCSV(t *testing.T) {
	in := "date,open,high,low,close,volume\n" +
		"2024-05-06, 10, 11, 9.5, 10.5, 1200\n" +
		"2024-05-07,10.5,10.8,10.1,10.2,900\n"
	bars, err := readBarsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-05-06", bars[0].Date())
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 900.0, bars[1].Volume)
}

func TestReadBarsCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad date", "05/06/2024,1,1,1,1,1\n"},
		{"bad number", "2024-05-06,1,x,1,1,1\n"},
		{"short row", "2024-05-06,1,1,1,1\n"},
		{"descending", "2024-05-07,1,1,1,1,1\n2024-05-06,1,1,1,1,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBarsCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestPrintSnapshot(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var rows strings.Builder
	for i := 0; i < 40; i++ {
		c := 10 + float64(i)*0.1
		fmt.Fprintf(&rows, "%s,%.2f,%.2f,%.2f,%.2f,1000\n", start.AddDate(0, 0, i).Format("2006-01-02"), c, c+0.2, c-0.2, c)
	}
	bars, err := readBarsCSV(strings.NewReader(rows.String()))
	require.NoError(t, err)

	snap := strategy.Analyze("600519", "", bars, strategy.Params{Buy: strategy.DefaultBuyConfig()})
	require.NotNil(t, snap)

	var out bytes.Buffer
	printSnapshot(&out, snap)
	assert.Contains(t, out.String(), "600519")
	assert.Contains(t, out.String(), "stage high:")
}
