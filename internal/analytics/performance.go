// Package analytics computes performance statistics from equity curves and
// trade aggregates.
package analytics

import (
	"math"

	"github.com/quantfold/momo/internal/types"
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// DailyReturns computes bar-over-bar fractional returns of the equity curve.
// The result has len(equity)-1 entries.
func DailyReturns(equity []types.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)

			continue
		}

		returns = append(returns, equity[i].Value/prev-1)
	}

	return returns
}

// SharpeRatio annualizes the mean excess daily return over its sample
// standard deviation. riskFreeRate is annual; it is spread evenly over
// TradingDaysPerYear. Returns 0 when there are fewer than two returns or
// the returns have no variance.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	dailyRiskFree := riskFreeRate / TradingDaysPerYear

	mean := 0.0
	for _, r := range returns {
		mean += r - dailyRiskFree
	}

	mean /= float64(len(returns))

	variance := 0.0

	for _, r := range returns {
		diff := (r - dailyRiskFree) - mean
		variance += diff * diff
	}

	variance /= float64(len(returns) - 1)

	if variance == 0 {
		return 0
	}

	return math.Sqrt(TradingDaysPerYear) * mean / math.Sqrt(variance)
}

// DrawdownSeries returns the fractional decline from the running equity peak
// at each point. Values are zero or negative.
func DrawdownSeries(equity []types.EquityPoint) []float64 {
	drawdowns := make([]float64, len(equity))

	peak := math.Inf(-1)

	for i, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}

		if peak > 0 {
			drawdowns[i] = (point.Value - peak) / peak
		}
	}

	return drawdowns
}

// MaxDrawdown returns the deepest (most negative) drawdown in the series.
func MaxDrawdown(drawdowns []float64) float64 {
	maxDD := 0.0

	for _, dd := range drawdowns {
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

// KellyFraction computes the optimal bet fraction K = W - (1-W)/R from the
// win rate W and the win/loss ratio R. Returns 0 when the ratio is not
// positive. The result can be negative: a losing rule has no positive
// optimal size.
func KellyFraction(winRate, winLossRatio float64) float64 {
	if winLossRatio <= 0 {
		return 0
	}

	return winRate - (1-winRate)/winLossRatio
}

// BuyAndHoldPnl returns the profit of investing the full initial capital at
// the first close and holding to the last close.
func BuyAndHoldPnl(bars []types.Bar, initialCapital float64) float64 {
	if len(bars) < 2 || bars[0].Close <= 0 {
		return 0
	}

	quantity := initialCapital / bars[0].Close

	return quantity*bars[len(bars)-1].Close - initialCapital
}
