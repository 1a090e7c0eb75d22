package indicator

import (
	"testing"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry IndicatorRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewIndicatorRegistry()
}

func (suite *RegistryTestSuite) TestRegisterAndGet() {
	rsi, err := NewRSI(5)
	suite.NoError(err)
	suite.NoError(suite.registry.RegisterIndicator(rsi))

	got, err := suite.registry.GetIndicator(types.IndicatorTypeRSI)
	suite.NoError(err)
	suite.Equal(rsi, got)
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	rsi, err := NewRSI(5)
	suite.NoError(err)
	suite.NoError(suite.registry.RegisterIndicator(rsi))

	other, err := NewRSI(14)
	suite.NoError(err)

	err = suite.registry.RegisterIndicator(other)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))
}

func (suite *RegistryTestSuite) TestGetMissing() {
	_, err := suite.registry.GetIndicator(types.IndicatorTypeEMA)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestListIndicators() {
	suite.Empty(suite.registry.ListIndicators())

	rsi, _ := NewRSI(5)
	sma, _ := NewSMA(20)
	suite.NoError(suite.registry.RegisterIndicator(rsi))
	suite.NoError(suite.registry.RegisterIndicator(sma))

	names := suite.registry.ListIndicators()
	suite.Len(names, 2)
	suite.Contains(names, types.IndicatorTypeRSI)
	suite.Contains(names, types.IndicatorTypeSMA)
}
