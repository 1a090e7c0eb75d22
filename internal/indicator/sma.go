package indicator

import (
	"math"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// SMA implements a simple moving average of closes.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator with the given period.
func NewSMA(period int) (*SMA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &SMA{period: period}, nil
}

// Name returns the name of the indicator.
func (m *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Period returns the warmup period of the indicator.
func (m *SMA) Period() int {
	return m.period
}

// Compute calculates the SMA series aligned to the bars. The first period-1
// values are NaN.
func (m *SMA) Compute(bars []types.Bar) ([]float64, error) {
	if len(bars) < m.period {
		return nil, errors.NewInsufficientDataErrorf(m.period, len(bars),
			"insufficient data for SMA(%d): need %d bars, have %d", m.period, m.period, len(bars))
	}

	values := make([]float64, len(bars))

	sum := 0.0

	for i, bar := range bars {
		sum += bar.Close
		if i >= m.period {
			sum -= bars[i-m.period].Close
		}

		if i >= m.period-1 {
			values[i] = sum / float64(m.period)
		} else {
			values[i] = math.NaN()
		}
	}

	return values, nil
}
