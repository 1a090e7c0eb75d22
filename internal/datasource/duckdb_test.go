package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/quantfold/momo/internal/logger"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	source DataSource
	path   string
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "bars.csv")
	data := "time,open,high,low,close,volume\n" +
		"2024-01-01 00:00:00,100,105,99,104,1000\n" +
		"2024-01-02 00:00:00,104,106,100,102,1100\n" +
		"2024-01-03 00:00:00,102,108,101,107,1200\n"
	suite.Require().NoError(os.WriteFile(suite.path, []byte(data), 0o644))

	source, err := NewDuckDBDataSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBDataSourceTestSuite) TestReadAll() {
	suite.Require().NoError(suite.source.Initialize(suite.path))

	bars, err := suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 3)
	suite.InDelta(104.0, bars[0].Close, 1e-9)
	suite.InDelta(107.0, bars[2].Close, 1e-9)
	suite.True(bars[0].Time.Before(bars[1].Time))
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllTimeRange() {
	suite.Require().NoError(suite.source.Initialize(suite.path))

	bars, err := suite.source.ReadAll(
		optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
	)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.InDelta(102.0, bars[0].Close, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestCount() {
	suite.Require().NoError(suite.source.Initialize(suite.path))

	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(3, count)
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeMissingFile() {
	suite.Error(suite.source.Initialize(filepath.Join(suite.T().TempDir(), "missing.csv")))
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeTwice() {
	suite.Require().NoError(suite.source.Initialize(suite.path))
	suite.Require().NoError(suite.source.Initialize(suite.path))

	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(3, count)
}
