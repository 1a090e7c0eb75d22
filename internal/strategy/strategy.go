// Package strategy converts indicator values into trading signals.
package strategy

import (
	"github.com/quantfold/momo/internal/types"
)

// Strategy maps a bar and its indicator value to a signal. Implementations
// are stateless: the engine passes in whether a position is currently open.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string
	// Indicator returns the indicator type the strategy consumes.
	Indicator() types.IndicatorType
	// OnBar returns the signal for the given bar. indicatorValue is the
	// bar-aligned value of the strategy's indicator; inPosition reports
	// whether a long position is currently open.
	OnBar(bar types.Bar, indicatorValue float64, inPosition bool) types.Signal
}
