// Package datasource loads OHLCV bar series from flat files.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/quantfold/momo/internal/types"
)

// DataSource provides the bar series a backtest runs over. Implementations
// return bars sorted by time ascending.
type DataSource interface {
	// Initialize loads the data file at the given path
	Initialize(path string) error
	// ReadAll returns every bar within the optional time range, inclusive
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error)
	// Count returns the number of bars within the optional time range
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases any resources held by the data source
	Close() error
}

func inRange(t time.Time, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
