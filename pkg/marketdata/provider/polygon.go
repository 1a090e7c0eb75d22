package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
	"github.com/quantfold/momo/pkg/marketdata/writer"
)

type PolygonClient struct {
	client *polygon.Client
	writer writer.Writer
}

// NewPolygonClient creates a polygon.io provider.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key")
	}

	return &PolygonClient{client: polygon.New(apiKey)}, nil
}

// ConfigWriter implements Provider.
func (c *PolygonClient) ConfigWriter(w writer.Writer) {
	c.writer = w
}

// Download implements Provider. Bars come back as daily aggregates in a
// single paginated listing.
func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidWriter, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}

	params := models.ListAggsParams{
		Ticker:     ticker,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
		Multiplier: 1,
		Timespan:   models.Day,
	}

	totalDays := float64(endDate.Sub(startDate).Hours() / 24)

	iter := c.client.ListAggs(ctx, &params)
	for iter.Next() {
		agg := iter.Item()
		barTime := time.Time(agg.Timestamp).UTC()

		err := c.writer.Write(types.Bar{
			Time:   barTime,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
		if err != nil {
			return "", err
		}

		if onProgress != nil {
			onProgress(barTime.Sub(startDate).Hours()/24, totalDays, "downloading "+ticker+" daily bars from polygon")
		}
	}

	if err := iter.Err(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to list aggregates for %s", ticker)
	}

	return c.writer.Finalize()
}
