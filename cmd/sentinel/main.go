package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/strategy"
)

func main() {
	app := &cli.App{
		Name:     "sentinel",
		HelpName: "sentinel",
		Usage:    "Offline indicator and signal analysis",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Compute indicators and signals for one stock",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "CSV of daily bars: date,open,high,low,close,volume"},
					&cli.StringFlag{Name: "code", Aliases: []string{"c"}, Usage: "fetch bars online, eg. 600519 or AAPL"},
					&cli.IntFlag{Name: "days", Value: collector.DefaultHistoryDays, Usage: "history to fetch with --code"},
					&cli.Float64Flag{Name: "m1", Value: calculator.DefaultZhixingM1},
					&cli.Float64Flag{Name: "m2", Value: calculator.DefaultZhixingM2},
					&cli.Float64Flag{Name: "m3", Value: calculator.DefaultZhixingM3},
					&cli.Float64Flag{Name: "m4", Value: calculator.DefaultZhixingM4},
					&cli.IntFlag{Name: "kdj-period", Value: calculator.DefaultKDJPeriod},
					&cli.Float64Flag{Name: "j-threshold", Value: strategy.DefaultJThreshold},
					&cli.Float64Flag{Name: "volume-reference", Usage: "static average volume; 0 compares against the rolling mean"},
					&cli.IntFlag{Name: "volume-period", Value: strategy.DefaultVolumePeriod},
					&cli.Float64Flag{Name: "volume-ratio", Value: strategy.DefaultVolumeRatio},
					&cli.BoolFlag{Name: "json", Usage: "print the snapshot as JSON"},
				},
				Action: analyze,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyze(c *cli.Context) error {
	code, name, bars, err := loadBars(c.Context, c.String("file"), c.String("code"), c.Int("days"))
	if err != nil {
		return err
	}

	j := c.Float64("j-threshold")
	if j < strategy.MinJThreshold || j > strategy.MaxJThreshold {
		return fmt.Errorf("--j-threshold must be within [%g, %g]", strategy.MinJThreshold, strategy.MaxJThreshold)
	}
	params := strategy.Params{
		KDJPeriod: c.Int("kdj-period"),
		Zhixing: calculator.ZhixingOptions{
			M1: c.Float64("m1"),
			M2: c.Float64("m2"),
			M3: c.Float64("m3"),
			M4: c.Float64("m4"),
		},
		Buy: strategy.BuyConfig{
			JThreshold: j,
			Volume:     strategy.NewVolumePredicate(c.Float64("volume-reference"), c.Int("volume-period"), c.Float64("volume-ratio")),
		},
	}

	snap := strategy.Analyze(code, name, bars, params)
	if snap == nil {
		return fmt.Errorf("no bars to analyze")
	}
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSnapshot(c.App.Writer, snap)
	return nil
}

func loadBars(ctx context.Context, file, code string, days int) (string, string, []model.OHLCV, error) {
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", "", nil, err
		}
		defer f.Close()
		bars, err := readBarsCSV(f)
		if err != nil {
			return "", "", nil, fmt.Errorf("read %s: %w", file, err)
		}
		if code == "" {
			code = file
		}
		return code, "", bars, nil
	case code != "":
		fetcher := &collector.RoutedFetcher{
			AShare: collector.NewEastMoneyFetcher(10 * time.Second),
			Other:  collector.NewYahooFetcher(os.Getenv("HTTPS_PROXY"), 10*time.Second),
		}
		series, err := fetcher.FetchDailyBars(ctx, code, days)
		if err != nil {
			return "", "", nil, err
		}
		return code, series.Name, series.DailyBars, nil
	default:
		return "", "", nil, fmt.Errorf("either --file or --code is required")
	}
}

func printSnapshot(w io.Writer, snap *model.Snapshot) {
	fmt.Fprint(w, notifier.SnapshotTable([]*model.Snapshot{snap}))
	fmt.Fprintf(w, "date:        %s\n", snap.BarTime.Format(model.DateLayout))
	if !snap.BBI.IsZero() {
		fmt.Fprintf(w, "BBI:         %.2f (above %d, below %d of last %d days)\n",
			snap.BBI.BBI, snap.BBIStreak.AboveCount, snap.BBIStreak.BelowCount, strategy.BBIStreakDays)
	}
	if snap.WeeklyKDJ != nil {
		fmt.Fprintf(w, "weekly J:    %.2f\n", snap.WeeklyKDJ.J)
	}
	fmt.Fprintf(w, "buy:         %t (J %.2f < %.0f, volume %.0f vs %.0f)\n",
		snap.Buy.HasBuySignal, snap.Buy.JValue, snap.Buy.JThreshold, snap.Buy.Volume, snap.Buy.AvgVolume)
	fmt.Fprintf(w, "sell:        %t (%d days below white line)\n",
		snap.Sell.HasSellSignal, snap.Sell.ConsecutiveDaysBelowWhiteLine)
	fmt.Fprintf(w, "stage high:  %t %s\n", snap.StageHigh.IsSellSignal, snap.StageHigh.Reason)
}
