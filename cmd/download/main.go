package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/quantfold/momo/pkg/marketdata"
	"github.com/quantfold/momo/pkg/marketdata/provider"
	"github.com/quantfold/momo/pkg/marketdata/writer"
)

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	config := marketdata.Config{
		Ticker:     cmd.String("ticker"),
		StartTime:  cmd.Timestamp("start"),
		EndTime:    cmd.Timestamp("end"),
		Provider:   provider.Type(cmd.String("provider")),
		Writer:     writer.Type(cmd.String("writer")),
		OutputPath: cmd.String("output"),
		APIKey:     os.Getenv("POLYGON_API_KEY"),
	}

	if dir := filepath.Dir(config.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	log.Printf("Downloading %s from %s to %s via %s",
		config.Ticker,
		config.StartTime.Format("2006-01-02"),
		config.EndTime.Format("2006-01-02"),
		config.Provider,
	)

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowCount(),
	)

	onProgress := func(current float64, total float64, message string) {
		if total > 0 {
			bar.Set(int(current / total * 100))
		}
	}

	path, err := marketdata.Download(ctx, config, onProgress)
	if err != nil {
		return err
	}

	bar.Finish()
	fmt.Printf("\nDownloaded data to %s\n", path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download daily OHLCV bars for backtesting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol (e.g. BTCUSDT for binance, X:BTCUSD for polygon)",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s or %s)", provider.TypeBinance, provider.TypePolygon),
				Value:   string(provider.TypeBinance),
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Output writer (%s or %s)", writer.TypeCSV, writer.TypeDuckDB),
				Value:   string(writer.TypeCSV),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (.csv or .parquet)",
				Value:   "data/bars.csv",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
