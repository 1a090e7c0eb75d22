package indicator

import (
	"math"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with the given period.
func NewRSI(period int) (*RSI, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &RSI{period: period}, nil
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Period returns the warmup period of the indicator.
func (r *RSI) Period() int {
	return r.period
}

// Compute calculates the RSI series aligned to the bars. The first `period`
// values are NaN: the RSI needs period+1 closes before it is defined.
// The first average gain/loss is a simple average; subsequent values use
// Wilder's smoothing method.
func (r *RSI) Compute(bars []types.Bar) ([]float64, error) {
	if len(bars) < r.period+1 {
		return nil, errors.NewInsufficientDataErrorf(r.period+1, len(bars),
			"insufficient data for RSI(%d): need %d bars, have %d", r.period, r.period+1, len(bars))
	}

	values := make([]float64, len(bars))
	for i := 0; i < r.period; i++ {
		values[i] = math.NaN()
	}

	// Price changes split into gains and losses
	gains := make([]float64, len(bars))
	losses := make([]float64, len(bars))

	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// First average over the initial window
	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= r.period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	values[r.period] = rsiFromAverages(avgGain, avgLoss)

	for i := r.period + 1; i < len(bars); i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		values[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return values, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100 // no losses in the window
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
