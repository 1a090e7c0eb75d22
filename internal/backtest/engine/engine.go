// Package engine defines the backtest engine contract.
package engine

import (
	"context"

	"github.com/quantfold/momo/internal/datasource"
	"github.com/quantfold/momo/internal/types"
)

type Engine interface {
	// Initialize the engine with the given YAML configuration content.
	Initialize(config string) error
	// SetDataSource sets the bar series the backtest runs over.
	SetDataSource(source datasource.DataSource) error
	// SetDataPath opens the data file at the given path as the data source.
	// CSV and Parquet files are supported.
	SetDataPath(path string) error
	// SetResultsFolder sets the output directory for run artifacts
	// (summary, trade log, chart). Empty means no files are written.
	SetResultsFolder(folder string) error
	// Run executes the backtest and returns the run summary.
	// The context can be used to cancel a long run.
	Run(ctx context.Context) (*types.Summary, error)
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
