// Package sizing decides how many dollars to commit to a new position.
package sizing

import (
	"math"

	"github.com/quantfold/momo/pkg/errors"
)

// Sizer returns the dollar amount to commit for a new position given the
// current total equity and available cash. The result never exceeds cash.
type Sizer interface {
	// Size returns the dollar amount to commit
	Size(equity float64, cash float64) float64
}

type Mode string

const (
	// ModeFixed commits a fixed dollar amount per trade.
	ModeFixed Mode = "fixed"
	// ModeFraction commits a fixed fraction of current equity.
	ModeFraction Mode = "fraction"
	// ModeKelly commits the Kelly-optimal fraction of current equity.
	ModeKelly Mode = "kelly"
)

var AllModes = []any{
	ModeFixed,
	ModeFraction,
	ModeKelly,
}

// NewSizer constructs the sizer for the given mode. param is the dollar
// amount for ModeFixed and the equity fraction for ModeFraction and
// ModeKelly.
func NewSizer(mode Mode, param float64) (Sizer, error) {
	switch mode {
	case ModeFixed:
		return NewFixedDollar(param)
	case ModeFraction:
		return NewFractionOfEquity(param)
	case ModeKelly:
		return NewKellyFraction(param)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidSizingMode, "unknown sizing mode: %s", mode)
	}
}

// FixedDollar commits the same dollar amount on every entry. Used by the
// fixed-size analysis that derives the Kelly fraction.
type FixedDollar struct {
	amount float64
}

func NewFixedDollar(amount float64) (Sizer, error) {
	if amount <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fixed trade size must be positive, got %v", amount)
	}

	return &FixedDollar{amount: amount}, nil
}

// Size implements Sizer.
func (s *FixedDollar) Size(equity float64, cash float64) float64 {
	return math.Min(s.amount, cash)
}

// FractionOfEquity commits a constant fraction of current total equity.
type FractionOfEquity struct {
	fraction float64
}

func NewFractionOfEquity(fraction float64) (Sizer, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "equity fraction must be within (0, 1], got %v", fraction)
	}

	return &FractionOfEquity{fraction: fraction}, nil
}

// Size implements Sizer.
func (s *FractionOfEquity) Size(equity float64, cash float64) float64 {
	return math.Min(equity*s.fraction, cash)
}

// KellyFraction sizes like FractionOfEquity but carries the Kelly intent in
// the type, so the run summary can report which mode produced it. The
// fraction is typically derived from a prior fixed-size run via
// analytics.KellyFraction.
type KellyFraction struct {
	fraction float64
}

func NewKellyFraction(fraction float64) (Sizer, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "kelly fraction must be within (0, 1], got %v", fraction)
	}

	return &KellyFraction{fraction: fraction}, nil
}

// Size implements Sizer.
func (s *KellyFraction) Size(equity float64, cash float64) float64 {
	return math.Min(equity*s.fraction, cash)
}
