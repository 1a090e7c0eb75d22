package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestWriteSummary() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "summary.yaml")

	summary := Summary{
		ID:        "run-1",
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Symbol:    "BTC-USD",
		Strategy:  "rsi_threshold",
		TradeResult: TradeResult{
			NumberOfTrades:        10,
			NumberOfWinningTrades: 4,
			NumberOfLosingTrades:  6,
			WinRate:               0.4,
		},
		Equity: EquityResult{
			InitialCapital: 100000,
			FinalEquity:    112000,
			TotalReturn:    0.12,
		},
	}

	suite.NoError(WriteSummary(path, summary))

	data, err := os.ReadFile(path)
	suite.NoError(err)

	var loaded Summary
	suite.NoError(yaml.Unmarshal(data, &loaded))
	suite.Equal("run-1", loaded.ID)
	suite.Equal("BTC-USD", loaded.Symbol)
	suite.Equal(10, loaded.TradeResult.NumberOfTrades)
	suite.InDelta(0.12, loaded.Equity.TotalReturn, 1e-9)
}

func (suite *StatisticsTestSuite) TestWriteSummaryBadPath() {
	err := WriteSummary("/nonexistent-dir/summary.yaml", Summary{})
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestReadSummary() {
	path := filepath.Join(suite.T().TempDir(), "summary.yaml")

	summary := Summary{
		ID:     "run-2",
		Symbol: "ETH-USD",
		TradeResult: TradeResult{
			KellyFraction: 0.3244,
		},
	}
	suite.Require().NoError(WriteSummary(path, summary))

	loaded, err := ReadSummary(path)
	suite.NoError(err)
	suite.Equal("run-2", loaded.ID)
	suite.InDelta(0.3244, loaded.TradeResult.KellyFraction, 1e-9)
}

func (suite *StatisticsTestSuite) TestReadSummaryMissingFile() {
	_, err := ReadSummary(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}
