// Package ledger stores the closed trades of a backtest run in an in-memory
// DuckDB database and computes aggregate trade statistics with SQL.
package ledger

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quantfold/momo/internal/logger"
	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// Ledger is the trade log of a single backtest run.
type Ledger struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewLedger opens an in-memory DuckDB database for the trade log.
func NewLedger(log *logger.Logger) (*Ledger, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerFailed, "failed to open ledger database", err)
	}

	return &Ledger{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trades table. Safe to call again: it drops any
// trades from a previous run.
func (l *Ledger) Initialize() error {
	_, err := l.db.Exec(`DROP TABLE IF EXISTS trades`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerFailed, "failed to drop trades table", err)
	}

	_, err = l.db.Exec(`
		CREATE TABLE trades (
			id TEXT PRIMARY KEY,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			effective_entry_price DOUBLE,
			effective_exit_price DOUBLE,
			quantity DOUBLE,
			cost_basis DOUBLE,
			fees DOUBLE,
			pnl DOUBLE,
			return_pct DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerFailed, "failed to create trades table", err)
	}

	return nil
}

// Record inserts a closed trade. The trade is assigned a fresh ID, which is
// returned in the stored copy.
func (l *Ledger) Record(trade types.Trade) (types.Trade, error) {
	trade.ID = uuid.New().String()

	insert := l.sq.
		Insert("trades").
		Columns(
			"id", "entry_time", "exit_time", "entry_price", "exit_price",
			"effective_entry_price", "effective_exit_price", "quantity",
			"cost_basis", "fees", "pnl", "return_pct",
		).
		Values(
			trade.ID, trade.EntryTime, trade.ExitTime, trade.EntryPrice, trade.ExitPrice,
			trade.EffectiveEntryPrice, trade.EffectiveExitPrice, trade.Quantity,
			trade.CostBasis, trade.Fees, trade.PnL, trade.ReturnPct,
		).
		RunWith(l.db)

	if _, err := insert.Exec(); err != nil {
		return types.Trade{}, errors.Wrap(errors.ErrCodeLedgerFailed, "failed to insert trade", err)
	}

	l.logger.Debug("Trade recorded",
		zap.String("id", trade.ID),
		zap.Float64("pnl", trade.PnL),
	)

	return trade, nil
}

// Trades returns all recorded trades in entry order.
func (l *Ledger) Trades() ([]types.Trade, error) {
	query := l.sq.
		Select(
			"id", "entry_time", "exit_time", "entry_price", "exit_price",
			"effective_entry_price", "effective_exit_price", "quantity",
			"cost_basis", "fees", "pnl", "return_pct",
		).
		From("trades").
		OrderBy("entry_time").
		RunWith(l.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var trade types.Trade

		err := rows.Scan(
			&trade.ID, &trade.EntryTime, &trade.ExitTime, &trade.EntryPrice, &trade.ExitPrice,
			&trade.EffectiveEntryPrice, &trade.EffectiveExitPrice, &trade.Quantity,
			&trade.CostBasis, &trade.Fees, &trade.PnL, &trade.ReturnPct,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// TradeResult computes the aggregate trade statistics. Trades with positive
// pnl count as wins; zero or negative pnl counts as a loss. The Kelly
// fraction is left for the caller to fill from win rate and win/loss ratio.
func (l *Ledger) TradeResult() (types.TradeResult, error) {
	// Raw SQL for the CTE: squirrel doesn't natively support CTEs well.
	query := `
		WITH trade_stats AS (
			SELECT
				COUNT(*) as total_trades,
				SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END) as winning_trades,
				SUM(CASE WHEN pnl <= 0 THEN 1 ELSE 0 END) as losing_trades,
				COALESCE(AVG(CASE WHEN pnl > 0 THEN return_pct END), 0) as avg_win,
				COALESCE(AVG(CASE WHEN pnl <= 0 THEN return_pct END), 0) as avg_loss,
				COALESCE(SUM(CASE WHEN pnl > 0 THEN pnl ELSE 0 END), 0) as gross_profit,
				COALESCE(SUM(CASE WHEN pnl <= 0 THEN pnl ELSE 0 END), 0) as gross_loss
			FROM trades
		)
		SELECT
			total_trades,
			COALESCE(winning_trades, 0),
			COALESCE(losing_trades, 0),
			CASE WHEN total_trades > 0 THEN CAST(winning_trades AS DOUBLE) / total_trades ELSE 0 END as win_rate,
			avg_win,
			avg_loss,
			gross_profit,
			gross_loss
		FROM trade_stats
	`

	var result types.TradeResult

	var grossProfit, grossLoss float64

	err := l.db.QueryRow(query).Scan(
		&result.NumberOfTrades,
		&result.NumberOfWinningTrades,
		&result.NumberOfLosingTrades,
		&result.WinRate,
		&result.AverageWin,
		&result.AverageLoss,
		&grossProfit,
		&grossLoss,
	)
	if err != nil {
		return types.TradeResult{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to calculate trade result", err)
	}

	result.AverageLoss = math.Abs(result.AverageLoss)

	if result.AverageLoss > 0 {
		result.WinLossRatio = result.AverageWin / result.AverageLoss
	}

	if grossLoss != 0 {
		result.ProfitFactor = grossProfit / math.Abs(grossLoss)
	} else if grossProfit > 0 {
		result.ProfitFactor = math.Inf(1)
	}

	return result, nil
}

// PnlStats returns the realized pnl sum and the extreme single-trade
// outcomes, using decimal arithmetic for the sum.
func (l *Ledger) PnlStats() (realized, maxLoss, maxProfit float64, err error) {
	query := l.sq.
		Select(
			"COALESCE(SUM(pnl), 0) as realized",
			"COALESCE(MIN(pnl), 0) as max_loss",
			"COALESCE(MAX(pnl), 0) as max_profit",
		).
		From("trades").
		RunWith(l.db)

	if err := query.QueryRow().Scan(&realized, &maxLoss, &maxProfit); err != nil {
		return 0, 0, 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to calculate pnl stats", err)
	}

	return realized, maxLoss, maxProfit, nil
}

// TotalFees returns the commission paid over all recorded trades.
func (l *Ledger) TotalFees() (float64, error) {
	query := l.sq.
		Select("COALESCE(SUM(fees), 0)").
		From("trades").
		RunWith(l.db)

	var total float64
	if err := query.QueryRow().Scan(&total); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to calculate total fees", err)
	}

	return total, nil
}

// HoldingTime returns min/max/avg holding periods in days.
func (l *Ledger) HoldingTime() (types.TradeHoldingTime, error) {
	query := `
		SELECT
			COALESCE(MIN(EXTRACT(EPOCH FROM (exit_time - entry_time)) / 86400), 0),
			COALESCE(MAX(EXTRACT(EPOCH FROM (exit_time - entry_time)) / 86400), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (exit_time - entry_time)) / 86400), 0)
		FROM trades
	`

	var minDays, maxDays, avgDays float64
	if err := l.db.QueryRow(query).Scan(&minDays, &maxDays, &avgDays); err != nil {
		return types.TradeHoldingTime{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to calculate holding time", err)
	}

	return types.TradeHoldingTime{
		Min: int(math.Round(minDays)),
		Max: int(math.Round(maxDays)),
		Avg: int(math.Round(avgDays)),
	}, nil
}

// ExportCSV writes the trade log to the given path as CSV.
func (l *Ledger) ExportCSV(path string) error {
	query := fmt.Sprintf(`COPY (SELECT * FROM trades ORDER BY entry_time) TO '%s' (FORMAT CSV, HEADER)`, path)

	if _, err := l.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerFailed, "failed to export trades", err)
	}

	l.logger.Debug("Trades exported", zap.String("path", path))

	return nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RoundQuantity truncates a quantity to the given number of decimal places,
// matching how exchange lot sizes limit fills.
func RoundQuantity(quantity float64, precision int) float64 {
	result, _ := decimal.NewFromFloat(quantity).RoundDown(int32(precision)).Float64()

	return result
}
