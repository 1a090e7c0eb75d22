// Package engine implements the sequential single-asset backtest engine.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantfold/momo/internal/analytics"
	"github.com/quantfold/momo/internal/backtest/engine"
	"github.com/quantfold/momo/internal/backtest/engine/engine_v1/cost"
	"github.com/quantfold/momo/internal/backtest/engine/engine_v1/ledger"
	"github.com/quantfold/momo/internal/backtest/engine/engine_v1/sizing"
	"github.com/quantfold/momo/internal/chart"
	"github.com/quantfold/momo/internal/datasource"
	"github.com/quantfold/momo/internal/indicator"
	"github.com/quantfold/momo/internal/logger"
	"github.com/quantfold/momo/internal/strategy"
	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// quantityPrecision limits fills to eight decimal places, the finest lot
// size of the crypto venues the data comes from.
const quantityPrecision = 8

type BacktestEngineV1 struct {
	config            BacktestConfigV1
	log               *logger.Logger
	indicatorRegistry indicator.IndicatorRegistry
	dataSource        datasource.DataSource
	dataPath          string
	resultsFolder     string
	initialized       bool
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{}
}

// NewBacktestEngineV1WithLogger creates an engine with an injected logger.
func NewBacktestEngineV1WithLogger(log *logger.Logger) engine.Engine {
	return &BacktestEngineV1{log: log}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed

	if b.log == nil {
		b.log, err = logger.NewLogger()
		if err != nil {
			return err
		}
	}

	b.indicatorRegistry = indicator.NewIndicatorRegistry()

	rsi, err := indicator.NewRSI(b.config.RSIPeriod)
	if err != nil {
		return err
	}

	if err := b.indicatorRegistry.RegisterIndicator(rsi); err != nil {
		return err
	}

	b.initialized = true
	b.log.Debug("Backtest engine initialized",
		zap.String("symbol", b.config.Symbol),
		zap.Int("rsi_period", b.config.RSIPeriod),
		zap.Float64("rsi_threshold", b.config.RSIThreshold),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(source datasource.DataSource) error {
	if source == nil {
		return errors.New(errors.ErrCodeBacktestNoDataSource, "data source is nil")
	}

	b.dataSource = source

	return nil
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	if !b.initialized {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine not initialized")
	}

	var (
		source datasource.DataSource
		err    error
	)

	if strings.HasSuffix(path, ".parquet") {
		source, err = datasource.NewDuckDBDataSource(b.log)
		if err != nil {
			return err
		}
	} else {
		source = datasource.NewCSVDataSource(b.log)
	}

	if err := source.Initialize(path); err != nil {
		return err
	}

	b.dataSource = source
	b.dataPath = path

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := DefaultConfig()

	return config.GenerateSchemaJSON()
}

// Run implements engine.Engine. Bars are processed strictly in time order:
// the engine holds at most one long position and applies each signal at the
// close of the bar that produced it.
func (b *BacktestEngineV1) Run(ctx context.Context) (*types.Summary, error) {
	if !b.initialized {
		return nil, errors.New(errors.ErrCodeBacktestNotInitialized, "engine not initialized")
	}

	if b.dataSource == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDataSource, "no data source set")
	}

	bars, err := b.dataSource.ReadAll(b.config.StartTime, b.config.EndTime)
	if err != nil {
		return nil, err
	}

	rsi, err := b.indicatorRegistry.GetIndicator(types.IndicatorTypeRSI)
	if err != nil {
		return nil, err
	}

	values, err := rsi.Compute(bars)
	if err != nil {
		return nil, err
	}

	strat, err := strategy.NewRSIThreshold(b.config.RSIThreshold)
	if err != nil {
		return nil, err
	}

	sizer, err := sizing.NewSizer(b.config.SizingMode, b.config.SizingParam)
	if err != nil {
		return nil, err
	}

	costModel, err := cost.NewPercentage(b.config.FeePct, b.config.SlippagePct)
	if err != nil {
		return nil, err
	}

	tradeLedger, err := ledger.NewLedger(b.log)
	if err != nil {
		return nil, err
	}
	defer tradeLedger.Close()

	if err := tradeLedger.Initialize(); err != nil {
		return nil, err
	}

	b.log.Info("Backtest started",
		zap.String("symbol", b.config.Symbol),
		zap.Int("bars", len(bars)),
	)

	cash := b.config.InitialCapital

	var (
		position  types.Position
		entryFees float64
	)

	equity := make([]types.EquityPoint, 0, len(bars))

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknown, "backtest cancelled", err)
		}

		signal := strat.OnBar(bar, values[i], position.IsOpen())

		switch signal.Type {
		case types.SignalTypeEnterLong:
			currentEquity := cash + position.MarketValue(bar.Close)

			amount := sizer.Size(currentEquity, cash)
			effectiveEntry := costModel.EffectiveEntryPrice(bar.Close)
			quantity := ledger.RoundQuantity(amount/effectiveEntry, quantityPrecision)

			if quantity > 0 {
				costBasis := quantity * effectiveEntry
				cash -= costBasis
				entryFees = quantity * bar.Close * costModel.FeeRate()
				position = types.Position{
					EntryTime:           bar.Time,
					EntryPrice:          bar.Close,
					EffectiveEntryPrice: effectiveEntry,
					Quantity:            quantity,
					CostBasis:           costBasis,
				}

				b.log.Debug("Entered long",
					zap.Time("time", bar.Time),
					zap.Float64("price", bar.Close),
					zap.Float64("quantity", quantity),
					zap.Float64("rsi", signal.RawValue),
				)
			}

		case types.SignalTypeExitLong:
			effectiveExit := costModel.EffectiveExitPrice(bar.Close)
			proceeds := position.Quantity * effectiveExit
			cash += proceeds

			pnl := proceeds - position.CostBasis
			fees := entryFees + position.Quantity*bar.Close*costModel.FeeRate()

			_, err := tradeLedger.Record(types.Trade{
				EntryTime:           position.EntryTime,
				ExitTime:            bar.Time,
				EntryPrice:          position.EntryPrice,
				ExitPrice:           bar.Close,
				EffectiveEntryPrice: position.EffectiveEntryPrice,
				EffectiveExitPrice:  effectiveExit,
				Quantity:            position.Quantity,
				CostBasis:           position.CostBasis,
				Fees:                fees,
				PnL:                 pnl,
				ReturnPct:           pnl / position.CostBasis,
			})
			if err != nil {
				return nil, err
			}

			b.log.Debug("Exited long",
				zap.Time("time", bar.Time),
				zap.Float64("price", bar.Close),
				zap.Float64("pnl", pnl),
				zap.Float64("rsi", signal.RawValue),
			)

			position = types.Position{}
			entryFees = 0

		case types.SignalTypeHold:
		}

		equity = append(equity, types.EquityPoint{
			Time:  bar.Time,
			Value: cash + position.MarketValue(bar.Close),
		})
	}

	summary, err := b.buildSummary(bars, values, tradeLedger, equity, position, entryFees, strat.Name())
	if err != nil {
		return nil, err
	}

	if b.resultsFolder != "" {
		if err := b.writeResults(summary, bars, values, tradeLedger, equity); err != nil {
			return nil, err
		}
	}

	b.log.Info("Backtest finished",
		zap.Int("trades", summary.TradeResult.NumberOfTrades),
		zap.Float64("total_return", summary.Equity.TotalReturn),
	)

	return summary, nil
}

func (b *BacktestEngineV1) buildSummary(
	bars []types.Bar,
	values []float64,
	tradeLedger *ledger.Ledger,
	equity []types.EquityPoint,
	position types.Position,
	entryFees float64,
	strategyName string,
) (*types.Summary, error) {
	tradeResult, err := tradeLedger.TradeResult()
	if err != nil {
		return nil, err
	}

	tradeResult.KellyFraction = analytics.KellyFraction(tradeResult.WinRate, tradeResult.WinLossRatio)

	realized, maxLoss, maxProfit, err := tradeLedger.PnlStats()
	if err != nil {
		return nil, err
	}

	totalFees, err := tradeLedger.TotalFees()
	if err != nil {
		return nil, err
	}

	holdingTime, err := tradeLedger.HoldingTime()
	if err != nil {
		return nil, err
	}

	var unrealized float64
	if position.IsOpen() && len(bars) > 0 {
		unrealized = position.UnrealizedPnL(bars[len(bars)-1].Close)
		totalFees += entryFees
	}

	finalEquity := b.config.InitialCapital
	if len(equity) > 0 {
		finalEquity = equity[len(equity)-1].Value
	}

	drawdowns := analytics.DrawdownSeries(equity)

	currentDrawdown := 0.0
	if len(drawdowns) > 0 {
		currentDrawdown = drawdowns[len(drawdowns)-1]
	}

	summary := &types.Summary{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Symbol:      b.config.Symbol,
		Strategy:    strategyName,
		DataPath:    b.dataPath,
		TradeResult: tradeResult,
		TradePnl: types.TradePnl{
			RealizedPnL:   realized,
			UnrealizedPnL: unrealized,
			TotalPnL:      realized + unrealized,
			MaximumLoss:   maxLoss,
			MaximumProfit: maxProfit,
		},
		Equity: types.EquityResult{
			InitialCapital:  b.config.InitialCapital,
			FinalEquity:     finalEquity,
			TotalReturn:     finalEquity/b.config.InitialCapital - 1,
			SharpeRatio:     analytics.SharpeRatio(analytics.DailyReturns(equity), b.config.RiskFreeRate),
			MaxDrawdown:     analytics.MaxDrawdown(drawdowns),
			CurrentDrawdown: currentDrawdown,
		},
		TradeHoldingTime: holdingTime,
		TotalFees:        totalFees,
		BuyAndHoldPnl:    analytics.BuyAndHoldPnl(bars, b.config.InitialCapital),
	}

	return summary, nil
}

func (b *BacktestEngineV1) writeResults(
	summary *types.Summary,
	bars []types.Bar,
	values []float64,
	tradeLedger *ledger.Ledger,
	equity []types.EquityPoint,
) error {
	if err := os.MkdirAll(b.resultsFolder, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNoResultsDir, "failed to create results folder", err)
	}

	tradesPath := filepath.Join(b.resultsFolder, "trades.csv")
	if err := tradeLedger.ExportCSV(tradesPath); err != nil {
		return err
	}

	summary.TradesFilePath = tradesPath

	trades, err := tradeLedger.Trades()
	if err != nil {
		return err
	}

	chartPath := filepath.Join(b.resultsFolder, "chart.html")
	err = chart.Render(chartPath, chart.ReportData{
		Symbol:          b.config.Symbol,
		Bars:            bars,
		IndicatorValues: values,
		Threshold:       b.config.RSIThreshold,
		Trades:          trades,
		Equity:          equity,
		Drawdowns:       analytics.DrawdownSeries(equity),
	})
	if err != nil {
		return err
	}

	summary.ChartFilePath = chartPath

	summaryPath := filepath.Join(b.resultsFolder, "summary.yaml")
	if err := types.WriteSummary(summaryPath, *summary); err != nil {
		return err
	}

	b.log.Info("Results written", zap.String("folder", b.resultsFolder))

	return nil
}
