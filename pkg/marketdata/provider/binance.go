package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
	"github.com/quantfold/momo/pkg/marketdata/writer"
)

// binancePageSize is the maximum number of klines one request returns.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
	writer writer.Writer
}

// NewBinanceClient creates a Binance provider. Historical klines need no
// API credentials.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{client: binance.NewClient("", "")}, nil
}

// ConfigWriter implements Provider.
func (c *BinanceClient) ConfigWriter(w writer.Writer) {
	c.writer = w
}

// Download implements Provider. Daily klines are paged through 500 at a
// time until the end of the range.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidWriter, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	currentStart := startMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval("1d").
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", ticker)
		}

		for _, kline := range klines {
			bar, err := klineToBar(kline)
			if err != nil {
				return "", err
			}

			if err := c.writer.Write(bar); err != nil {
				return "", err
			}
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), "downloading "+ticker+" daily klines from binance")
		}

		if len(klines) < binancePageSize {
			break
		}

		// next page starts right after the last close to avoid duplicates
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	return c.writer.Finalize()
}

func klineToBar(kline *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(kline.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to parse kline open", err)
	}

	high, err := strconv.ParseFloat(kline.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to parse kline high", err)
	}

	low, err := strconv.ParseFloat(kline.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to parse kline low", err)
	}

	closePrice, err := strconv.ParseFloat(kline.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to parse kline close", err)
	}

	volume, err := strconv.ParseFloat(kline.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to parse kline volume", err)
	}

	return types.Bar{
		Time:   time.UnixMilli(kline.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
