package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func barsFromCloses(closes []float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}

	return bars
}

func (suite *RSITestSuite) TestNewRSIInvalidPeriod() {
	_, err := NewRSI(0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = NewRSI(-5)
	suite.Error(err)
}

func (suite *RSITestSuite) TestName() {
	rsi, err := NewRSI(5)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeRSI, rsi.Name())
	suite.Equal(5, rsi.Period())
}

func (suite *RSITestSuite) TestInsufficientData() {
	rsi, err := NewRSI(5)
	suite.NoError(err)

	_, err = rsi.Compute(barsFromCloses([]float64{10, 11, 12}))
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *RSITestSuite) TestWarmupIsNaN() {
	rsi, err := NewRSI(5)
	suite.NoError(err)

	values, err := rsi.Compute(barsFromCloses([]float64{10, 11, 12, 13, 14, 15, 16}))
	suite.NoError(err)
	suite.Len(values, 7)

	for i := 0; i < 5; i++ {
		suite.True(math.IsNaN(values[i]), "index %d should be NaN", i)
	}

	suite.False(math.IsNaN(values[5]))
}

func (suite *RSITestSuite) TestPerfectUptrend() {
	rsi, err := NewRSI(5)
	suite.NoError(err)

	values, err := rsi.Compute(barsFromCloses([]float64{10, 11, 12, 13, 14, 15, 16, 17}))
	suite.NoError(err)

	for i := 5; i < len(values); i++ {
		suite.Equal(100.0, values[i])
	}
}

func (suite *RSITestSuite) TestPerfectDowntrend() {
	rsi, err := NewRSI(5)
	suite.NoError(err)

	values, err := rsi.Compute(barsFromCloses([]float64{17, 16, 15, 14, 13, 12, 11, 10}))
	suite.NoError(err)

	for i := 5; i < len(values); i++ {
		suite.Equal(0.0, values[i])
	}
}

func (suite *RSITestSuite) TestKnownSeries() {
	// Expected values computed independently with an initial simple average
	// followed by Wilder smoothing.
	closes := []float64{
		44.0, 44.34, 44.09, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28,
	}
	expected := []float64{
		68.122271, 72.216936, 76.658673, 81.508747, 83.898539,
		74.385206, 76.807417, 56.700717, 71.551122, 71.551122,
	}

	rsi, err := NewRSI(5)
	suite.NoError(err)

	values, err := rsi.Compute(barsFromCloses(closes))
	suite.NoError(err)

	for i, want := range expected {
		suite.InDelta(want, values[5+i], 1e-4, "rsi at index %d", 5+i)
	}
}

func (suite *RSITestSuite) TestBoundedBetween0And100() {
	closes := []float64{50, 48, 53, 47, 55, 44, 58, 43, 60, 42, 61, 41}

	rsi, err := NewRSI(3)
	suite.NoError(err)

	values, err := rsi.Compute(barsFromCloses(closes))
	suite.NoError(err)

	for i := 3; i < len(values); i++ {
		suite.GreaterOrEqual(values[i], 0.0)
		suite.LessOrEqual(values[i], 100.0)
	}
}
