package types

import (
	"time"

	"github.com/quantfold/momo/pkg/errors"
)

// Bar is a single daily OHLCV bar. Bars are immutable once loaded.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Validate checks a single bar for structural sanity.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return errors.New(errors.ErrCodeInvalidBar, "bar has zero timestamp")
	}

	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar at %s has non-positive price", b.Time.Format(time.DateOnly))
	}

	if b.High < b.Low {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar at %s has high < low", b.Time.Format(time.DateOnly))
	}

	if b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar at %s has negative volume", b.Time.Format(time.DateOnly))
	}

	return nil
}

// ValidateBars checks every bar and requires strictly increasing timestamps.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidBar, "bar at index %d is not after its predecessor", i)
		}
	}

	return nil
}
