package provider

import (
	"context"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (suite *ProviderTestSuite) TestNewProvider() {
	p, err := NewProvider(TypeBinance, "")
	suite.NoError(err)
	suite.NotNil(p)

	p, err = NewProvider(TypePolygon, "test-key")
	suite.NoError(err)
	suite.NotNil(p)

	_, err = NewProvider(TypePolygon, "")
	suite.Error(err)

	_, err = NewProvider("yahoo", "")
	suite.Error(err)
}

func (suite *ProviderTestSuite) TestDownloadWithoutWriter() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	p, err := NewBinanceClient()
	suite.Require().NoError(err)

	_, err = p.Download(context.Background(), "BTCUSDT", start, end, nil)
	suite.Error(err)

	p, err = NewPolygonClient("test-key")
	suite.Require().NoError(err)

	_, err = p.Download(context.Background(), "AAPL", start, end, nil)
	suite.Error(err)
}

func (suite *ProviderTestSuite) TestKlineToBar() {
	kline := &binance.Kline{
		OpenTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Open:     "42000.5",
		High:     "43000",
		Low:      "41500.25",
		Close:    "42750.75",
		Volume:   "1234.5",
	}

	bar, err := klineToBar(kline)
	suite.Require().NoError(err)

	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bar.Time)
	suite.InDelta(42000.5, bar.Open, 1e-9)
	suite.InDelta(43000.0, bar.High, 1e-9)
	suite.InDelta(41500.25, bar.Low, 1e-9)
	suite.InDelta(42750.75, bar.Close, 1e-9)
	suite.InDelta(1234.5, bar.Volume, 1e-9)
}

func (suite *ProviderTestSuite) TestKlineToBarBadNumber() {
	kline := &binance.Kline{
		OpenTime: time.Now().UnixMilli(),
		Open:     "not-a-number",
		High:     "1",
		Low:      "1",
		Close:    "1",
		Volume:   "1",
	}

	_, err := klineToBar(kline)
	suite.Error(err)
}
