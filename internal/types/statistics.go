package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TradeResult aggregates the closed trades of a run.
type TradeResult struct {
	// Count of all closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of winning trades that have positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of losing trades with zero or negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate as a fraction of all closed trades.
	WinRate float64 `yaml:"win_rate"`
	// Average winning trade return, as a fraction of cost basis.
	AverageWin float64 `yaml:"average_win"`
	// Average losing trade return magnitude, as a fraction of cost basis.
	AverageLoss float64 `yaml:"average_loss"`
	// AverageWin divided by AverageLoss.
	WinLossRatio float64 `yaml:"win_loss_ratio"`
	// Gross profits divided by gross losses.
	ProfitFactor float64 `yaml:"profit_factor"`
	// Kelly criterion fraction derived from win rate and win/loss ratio.
	KellyFraction float64 `yaml:"kelly_fraction"`
}

// TradePnl aggregates realized and unrealized profit.
type TradePnl struct {
	// Realized PnL, summed over all closed trades.
	RealizedPnL float64 `yaml:"realized_pnl"`
	// Unrealized PnL of the position still open at the end of the data.
	UnrealizedPnL float64 `yaml:"unrealized_pnl"`
	// Total PnL. RealizedPnL plus UnrealizedPnL.
	TotalPnL float64 `yaml:"total_pnl"`
	// Maximum loss. Minimum realized pnl over all closed trades.
	MaximumLoss float64 `yaml:"maximum_loss"`
	// Maximum profit. Maximum realized pnl over all closed trades.
	MaximumProfit float64 `yaml:"maximum_profit"`
}

// EquityResult describes the equity curve of a run.
type EquityResult struct {
	InitialCapital float64 `yaml:"initial_capital"`
	FinalEquity    float64 `yaml:"final_equity"`
	// Total return over the run, as a fraction of initial capital.
	TotalReturn float64 `yaml:"total_return"`
	// Annualized Sharpe ratio of daily equity returns.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// Maximum peak-to-trough drawdown, as a negative fraction.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// Drawdown at the last bar, as a negative fraction.
	CurrentDrawdown float64 `yaml:"current_drawdown"`
}

// TradeHoldingTime summarizes holding periods in days.
type TradeHoldingTime struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
	Avg int `yaml:"avg"`
}

// Summary is the full statistics report of a backtest run.
type Summary struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Symbol of the traded asset.
	Symbol string `yaml:"symbol"`
	// Strategy is the name of the strategy that produced the signals.
	Strategy string `yaml:"strategy"`
	// DataPath is the path to the market data file used for this run.
	DataPath string `yaml:"data_path"`

	TradeResult      TradeResult      `yaml:"trade_result"`
	TradePnl         TradePnl         `yaml:"trade_pnl"`
	Equity           EquityResult     `yaml:"equity"`
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time"`

	// Total fees paid over the run.
	TotalFees float64 `yaml:"total_fees"`
	// Buy and hold PnL over the same period, for comparison.
	BuyAndHoldPnl float64 `yaml:"buy_and_hold_pnl"`

	// TradesFilePath is the path to the exported trade log.
	TradesFilePath string `yaml:"trades_file_path"`
	// ChartFilePath is the path to the rendered report chart.
	ChartFilePath string `yaml:"chart_file_path"`
}

// WriteSummary writes the summary to the given path as YAML.
func WriteSummary(path string, summary Summary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary to file: %w", err)
	}

	return nil
}

// ReadSummary reads a summary previously written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read summary file: %w", err)
	}

	var summary Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return Summary{}, fmt.Errorf("failed to parse summary file: %w", err)
	}

	return summary, nil
}
