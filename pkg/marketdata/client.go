// Package marketdata ties a provider and a writer together into one
// download operation.
package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quantfold/momo/pkg/errors"
	"github.com/quantfold/momo/pkg/marketdata/provider"
	"github.com/quantfold/momo/pkg/marketdata/writer"
)

// Config describes one download: which ticker, from which vendor, over
// which range, written where.
type Config struct {
	Ticker     string        `validate:"required"`
	StartTime  time.Time     `validate:"required"`
	EndTime    time.Time     `validate:"required,gtfield=StartTime"`
	Provider   provider.Type `validate:"oneof=polygon binance"`
	Writer     writer.Type   `validate:"oneof=csv duckdb"`
	OutputPath string        `validate:"required"`
	APIKey     string
}

// Validate checks the download configuration.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid download configuration", err)
	}

	return nil
}

// Download fetches the configured bar series and returns the output path.
func Download(ctx context.Context, config Config, onProgress provider.OnDownloadProgress) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	p, err := provider.NewProvider(config.Provider, config.APIKey)
	if err != nil {
		return "", err
	}

	w, err := writer.NewWriter(config.Writer, config.OutputPath)
	if err != nil {
		return "", err
	}
	defer w.Close()

	p.ConfigWriter(w)

	return p.Download(ctx, config.Ticker, config.StartTime, config.EndTime, onProgress)
}
