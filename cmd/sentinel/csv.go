package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"StockSentinel/internal/model"
)

// readBarsCSV parses rows of date,open,high,low,close,volume in ascending
// date order. A leading header row is skipped.
func readBarsCSV(r io.Reader) ([]model.OHLCV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var bars []model.OHLCV
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(rec[0], "date") {
			continue
		}

		t, err := time.Parse(model.DateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var v [5]float64
		for i := range v {
			if v[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, i+2, err)
			}
		}
		if n := len(bars); n > 0 && !t.After(bars[n-1].Time) {
			return nil, fmt.Errorf("line %d: dates must be ascending", line)
		}
		bars = append(bars, model.OHLCV{Time: t, Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]})
	}
	return bars, nil
}
