package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSIThresholdTestSuite struct {
	suite.Suite
	strategy *RSIThreshold
}

func TestRSIThresholdSuite(t *testing.T) {
	suite.Run(t, new(RSIThresholdTestSuite))
}

func (suite *RSIThresholdTestSuite) SetupTest() {
	s, err := NewRSIThreshold(70)
	suite.Require().NoError(err)
	suite.strategy = s
}

func (suite *RSIThresholdTestSuite) bar() types.Bar {
	return types.Bar{
		Time:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Open:  100,
		High:  101,
		Low:   99,
		Close: 100,
	}
}

func (suite *RSIThresholdTestSuite) TestInvalidThreshold() {
	for _, threshold := range []float64{0, -10, 100, 150} {
		_, err := NewRSIThreshold(threshold)
		suite.Error(err, "threshold %v", threshold)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidThreshold))
	}
}

func (suite *RSIThresholdTestSuite) TestEnterWhenFlatAboveThreshold() {
	signal := suite.strategy.OnBar(suite.bar(), 75, false)
	suite.Equal(types.SignalTypeEnterLong, signal.Type)
	suite.Equal(75.0, signal.RawValue)
	suite.Equal(types.IndicatorTypeRSI, signal.Indicator)
}

func (suite *RSIThresholdTestSuite) TestHoldWhenFlatBelowThreshold() {
	signal := suite.strategy.OnBar(suite.bar(), 60, false)
	suite.Equal(types.SignalTypeHold, signal.Type)
}

func (suite *RSIThresholdTestSuite) TestExitWhenInPositionBelowThreshold() {
	signal := suite.strategy.OnBar(suite.bar(), 65, true)
	suite.Equal(types.SignalTypeExitLong, signal.Type)
}

func (suite *RSIThresholdTestSuite) TestHoldWhenInPositionAboveThreshold() {
	signal := suite.strategy.OnBar(suite.bar(), 85, true)
	suite.Equal(types.SignalTypeHold, signal.Type)
}

func (suite *RSIThresholdTestSuite) TestExactThresholdHolds() {
	// A value exactly on the threshold neither enters nor exits.
	suite.Equal(types.SignalTypeHold, suite.strategy.OnBar(suite.bar(), 70, false).Type)
	suite.Equal(types.SignalTypeHold, suite.strategy.OnBar(suite.bar(), 70, true).Type)
}

func (suite *RSIThresholdTestSuite) TestWarmupHolds() {
	signal := suite.strategy.OnBar(suite.bar(), math.NaN(), false)
	suite.Equal(types.SignalTypeHold, signal.Type)
	suite.Equal("indicator warming up", signal.Reason)
}

func (suite *RSIThresholdTestSuite) TestMetadata() {
	suite.Equal(StrategyNameRSIThreshold, suite.strategy.Name())
	suite.Equal(types.IndicatorTypeRSI, suite.strategy.Indicator())
}
