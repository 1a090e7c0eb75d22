package indicator

import (
	"github.com/quantfold/momo/internal/types"
)

// Indicator computes a derived numeric series aligned to a bar series.
// Values inside the warmup window are NaN.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Period returns the warmup period of the indicator
	Period() int
	// Compute returns a series of the same length as bars
	Compute(bars []types.Bar) ([]float64, error)
}
