package strategy

import (
	"fmt"
	"math"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

const StrategyNameRSIThreshold = "rsi_threshold"

// RSIThreshold is a long-only momentum rule: enter when the RSI rises above
// the threshold while flat, exit when it falls back below while in a
// position. A value exactly on the threshold holds.
type RSIThreshold struct {
	threshold float64
}

// NewRSIThreshold creates the threshold rule. The threshold must lie strictly
// inside the RSI's 0-100 range.
func NewRSIThreshold(threshold float64) (*RSIThreshold, error) {
	if threshold <= 0 || threshold >= 100 {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "threshold must be within (0, 100), got %v", threshold)
	}

	return &RSIThreshold{threshold: threshold}, nil
}

// Name implements Strategy.
func (s *RSIThreshold) Name() string {
	return StrategyNameRSIThreshold
}

// Indicator implements Strategy.
func (s *RSIThreshold) Indicator() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// OnBar implements Strategy.
func (s *RSIThreshold) OnBar(bar types.Bar, indicatorValue float64, inPosition bool) types.Signal {
	signal := types.Signal{
		Time:      bar.Time,
		Type:      types.SignalTypeHold,
		Name:      s.Name(),
		Reason:    "no signal",
		Indicator: types.IndicatorTypeRSI,
		RawValue:  indicatorValue,
	}

	if math.IsNaN(indicatorValue) {
		signal.Reason = "indicator warming up"

		return signal
	}

	switch {
	case !inPosition && indicatorValue > s.threshold:
		signal.Type = types.SignalTypeEnterLong
		signal.Reason = fmt.Sprintf("RSI overbought (value=%.2f, threshold=%.2f)", indicatorValue, s.threshold)
	case inPosition && indicatorValue < s.threshold:
		signal.Type = types.SignalTypeExitLong
		signal.Reason = fmt.Sprintf("RSI no longer overbought (value=%.2f, threshold=%.2f)", indicatorValue, s.threshold)
	}

	return signal
}
