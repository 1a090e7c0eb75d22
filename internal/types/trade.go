package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents the single open long position of the backtest.
// The zero value means flat.
type Position struct {
	// EntryTime is the time of the bar that opened the position.
	EntryTime time.Time `csv:"entry_time"`
	// EntryPrice is the raw close price at entry.
	EntryPrice float64 `csv:"entry_price"`
	// EffectiveEntryPrice is the entry price adjusted for fees and slippage.
	EffectiveEntryPrice float64 `csv:"effective_entry_price"`
	// Quantity is the number of units held.
	Quantity float64 `csv:"quantity"`
	// CostBasis is the amount of cash committed to open the position.
	CostBasis float64 `csv:"cost_basis"`
}

// IsOpen reports whether the position holds any quantity.
func (p Position) IsOpen() bool {
	return p.Quantity > 0
}

// MarketValue returns the mark-to-market value of the position at the given price.
func (p Position) MarketValue(price float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	value, _ := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(price)).Float64()

	return value
}

// UnrealizedPnL returns the mark-to-market profit relative to the cost basis.
func (p Position) UnrealizedPnL(price float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	value := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(price))
	pnl, _ := value.Sub(decimal.NewFromFloat(p.CostBasis)).Float64()

	return pnl
}

// Trade is a closed round trip. Immutable once recorded.
type Trade struct {
	ID string `csv:"id"`
	// EntryTime and ExitTime are the bar times of the opening and closing fills.
	EntryTime time.Time `csv:"entry_time"`
	ExitTime  time.Time `csv:"exit_time"`
	// EntryPrice and ExitPrice are raw close prices; the effective prices
	// include fees and slippage.
	EntryPrice          float64 `csv:"entry_price"`
	ExitPrice           float64 `csv:"exit_price"`
	EffectiveEntryPrice float64 `csv:"effective_entry_price"`
	EffectiveExitPrice  float64 `csv:"effective_exit_price"`
	Quantity            float64 `csv:"quantity"`
	// CostBasis is the cash committed at entry.
	CostBasis float64 `csv:"cost_basis"`
	// Fees is the total commission paid on both sides.
	Fees float64 `csv:"fees"`
	// PnL is the realized profit: exit proceeds minus cost basis.
	PnL float64 `csv:"pnl"`
	// ReturnPct is PnL divided by the cost basis, as a fraction.
	ReturnPct float64 `csv:"return_pct"`
}

// HoldingDays returns the number of days the trade was held.
func (t Trade) HoldingDays() int {
	return int(t.ExitTime.Sub(t.EntryTime).Hours() / 24)
}

// EquityPoint is one sample of the equity curve: cash plus open-position
// mark-to-market at a bar close.
type EquityPoint struct {
	Time  time.Time `csv:"time"`
	Value float64   `csv:"value"`
}
