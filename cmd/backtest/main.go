package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	engine_v1 "github.com/quantfold/momo/internal/backtest/engine/engine_v1"
	"github.com/quantfold/momo/internal/types"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	output := cmd.String("output")

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	eng := engine_v1.NewBacktestEngineV1()
	if err := eng.Initialize(string(content)); err != nil {
		return err
	}

	if err := eng.SetDataPath(dataPath); err != nil {
		return err
	}

	if err := eng.SetResultsFolder(output); err != nil {
		return err
	}

	summary, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary)

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := engine_v1.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	summaryPath := cmd.String("summary")

	summary, err := types.ReadSummary(summaryPath)
	if err != nil {
		return err
	}

	printSummary(&summary)

	if summary.TradeResult.KellyFraction > 0 {
		fmt.Printf("\nSuggested sizing: kelly mode with sizing_param %.4f\n", summary.TradeResult.KellyFraction)
	} else {
		fmt.Println("\nNo positive Kelly fraction: the rule loses money at any size.")
	}

	return nil
}

func printSummary(summary *types.Summary) {
	fmt.Printf("Backtest %s (%s, %s)\n", summary.ID, summary.Symbol, summary.Strategy)
	fmt.Printf("  Trades:          %d (%d wins / %d losses, win rate %.2f%%)\n",
		summary.TradeResult.NumberOfTrades,
		summary.TradeResult.NumberOfWinningTrades,
		summary.TradeResult.NumberOfLosingTrades,
		summary.TradeResult.WinRate*100,
	)
	fmt.Printf("  Avg win/loss:    %.4f / %.4f (ratio %.2f, profit factor %.2f)\n",
		summary.TradeResult.AverageWin,
		summary.TradeResult.AverageLoss,
		summary.TradeResult.WinLossRatio,
		summary.TradeResult.ProfitFactor,
	)
	fmt.Printf("  Kelly fraction:  %.4f\n", summary.TradeResult.KellyFraction)
	fmt.Printf("  PnL:             realized %.2f, unrealized %.2f, total %.2f\n",
		summary.TradePnl.RealizedPnL,
		summary.TradePnl.UnrealizedPnL,
		summary.TradePnl.TotalPnL,
	)
	fmt.Printf("  Equity:          %.2f -> %.2f (return %.2f%%, sharpe %.2f)\n",
		summary.Equity.InitialCapital,
		summary.Equity.FinalEquity,
		summary.Equity.TotalReturn*100,
		summary.Equity.SharpeRatio,
	)
	fmt.Printf("  Max drawdown:    %.2f%%\n", summary.Equity.MaxDrawdown*100)
	fmt.Printf("  Holding days:    min %d / max %d / avg %d\n",
		summary.TradeHoldingTime.Min,
		summary.TradeHoldingTime.Max,
		summary.TradeHoldingTime.Avg,
	)
	fmt.Printf("  Total fees:      %.2f\n", summary.TotalFees)
	fmt.Printf("  Buy and hold:    %.2f\n", summary.BuyAndHoldPnl)

	if summary.TradesFilePath != "" {
		fmt.Printf("  Trade log:       %s\n", summary.TradesFilePath)
	}

	if summary.ChartFilePath != "" {
		fmt.Printf("  Chart:           %s\n", summary.ChartFilePath)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run RSI momentum backtests over daily bar data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest and write its results",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the YAML backtest configuration",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the OHLCV data file (csv or parquet)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for run artifacts (summary, trade log, chart)",
						Value:   "results",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest configuration",
				Action: schemaAction,
			},
			{
				Name:  "analyze",
				Usage: "Print statistics and sizing suggestions from a previous run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "summary",
						Aliases:  []string{"s"},
						Usage:    "Path to a summary.yaml from a previous run",
						Required: true,
					},
				},
				Action: analyzeAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
