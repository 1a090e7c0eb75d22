// Package provider downloads daily bar history from market data vendors.
package provider

import (
	"context"
	"time"

	"github.com/quantfold/momo/pkg/errors"
	"github.com/quantfold/momo/pkg/marketdata/writer"
)

// Type selects the market data vendor.
type Type string

const (
	TypePolygon Type = "polygon"
	TypeBinance Type = "binance"
)

// OnDownloadProgress reports download progress. current and total are in
// vendor units (days or milliseconds); message describes the current step.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads daily bars for one ticker into a configured writer.
type Provider interface {
	// ConfigWriter sets the destination the downloaded bars are written to.
	ConfigWriter(w writer.Writer)
	// Download fetches daily bars for the ticker over the date range and
	// returns the output path produced by the writer. The context cancels
	// the download.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error)
}

// NewProvider creates a market data provider. apiKey is required for
// polygon and ignored by binance.
func NewProvider(providerType Type, apiKey string) (Provider, error) {
	switch providerType {
	case TypePolygon:
		return NewPolygonClient(apiKey)
	case TypeBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
