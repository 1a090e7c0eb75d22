// Package cost models per-side execution costs: commission and slippage.
package cost

import "github.com/quantfold/momo/pkg/errors"

// Model adjusts fill prices for trading costs. Entries pay up, exits
// receive less.
type Model interface {
	// EffectiveEntryPrice returns the buy fill price including costs
	EffectiveEntryPrice(price float64) float64
	// EffectiveExitPrice returns the sell fill price net of costs
	EffectiveExitPrice(price float64) float64
	// FeeRate returns the commission fraction charged per side
	FeeRate() float64
}

// NewZero returns a cost model with no fees or slippage.
func NewZero() Model {
	return &Percentage{feePct: 0, slippagePct: 0}
}

// Percentage charges a commission fraction plus a slippage fraction on each
// side of a round trip.
type Percentage struct {
	feePct      float64
	slippagePct float64
}

// NewPercentage creates a percentage cost model. Both rates are fractions
// per side (0.001 means 0.1%).
func NewPercentage(feePct, slippagePct float64) (Model, error) {
	if feePct < 0 || feePct >= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fee rate must be within [0, 1), got %v", feePct)
	}

	if slippagePct < 0 || slippagePct >= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "slippage rate must be within [0, 1), got %v", slippagePct)
	}

	return &Percentage{feePct: feePct, slippagePct: slippagePct}, nil
}

// EffectiveEntryPrice implements Model.
func (c *Percentage) EffectiveEntryPrice(price float64) float64 {
	return price * (1 + c.feePct + c.slippagePct)
}

// EffectiveExitPrice implements Model.
func (c *Percentage) EffectiveExitPrice(price float64) float64 {
	return price * (1 - c.feePct - c.slippagePct)
}

// FeeRate implements Model.
func (c *Percentage) FeeRate() float64 {
	return c.feePct
}
