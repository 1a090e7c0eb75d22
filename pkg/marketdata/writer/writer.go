// Package writer persists downloaded bar series to flat files.
package writer

import (
	"github.com/quantfold/momo/internal/types"
)

// Writer defines the destination for downloaded bars.
type Writer interface {
	// Initialize sets up the writer, creating tables or buffers.
	Initialize() error
	// Write buffers a single bar.
	Write(bar types.Bar) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// OutputPath returns the configured output file path.
	OutputPath() string
}

// Type selects the writer implementation.
type Type string

const (
	TypeCSV    Type = "csv"
	TypeDuckDB Type = "duckdb"
)
