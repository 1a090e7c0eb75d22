package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantfold/momo/internal/backtest/engine/engine_v1/sizing"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseConfig() {
	content := `
symbol: BTC-USD
initial_capital: 100000
rsi_period: 5
rsi_threshold: 70
sizing_mode: kelly
sizing_param: 0.3244
fee_pct: 0.001
slippage_pct: 0.001
risk_free_rate: 0.02
start_time: 2020-01-01T00:00:00Z
end_time: 2024-01-01T00:00:00Z
`

	config, err := ParseConfig(content)
	suite.Require().NoError(err)

	suite.Equal("BTC-USD", config.Symbol)
	suite.InDelta(100000.0, config.InitialCapital, 1e-9)
	suite.Equal(5, config.RSIPeriod)
	suite.InDelta(70.0, config.RSIThreshold, 1e-9)
	suite.Equal(sizing.ModeKelly, config.SizingMode)
	suite.InDelta(0.3244, config.SizingParam, 1e-9)
	suite.True(config.StartTime.IsSome())
	suite.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	suite.True(config.EndTime.IsSome())
}

func (suite *ConfigTestSuite) TestParseConfigDefaults() {
	// partial config falls back to defaults for the rest
	config, err := ParseConfig("symbol: ETH-USD\ninitial_capital: 5000\n")
	suite.Require().NoError(err)

	suite.Equal("ETH-USD", config.Symbol)
	suite.InDelta(5000.0, config.InitialCapital, 1e-9)
	suite.Equal(5, config.RSIPeriod)
	suite.Equal(sizing.ModeKelly, config.SizingMode)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestParseConfigInvalidYAML() {
	_, err := ParseConfig(":\n  - not yaml")
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestValidateRejectsBadValues() {
	cases := []struct {
		name   string
		mutate func(*BacktestConfigV1)
	}{
		{"zero capital", func(c *BacktestConfigV1) { c.InitialCapital = 0 }},
		{"negative capital", func(c *BacktestConfigV1) { c.InitialCapital = -1 }},
		{"zero period", func(c *BacktestConfigV1) { c.RSIPeriod = 0 }},
		{"threshold too high", func(c *BacktestConfigV1) { c.RSIThreshold = 100 }},
		{"threshold too low", func(c *BacktestConfigV1) { c.RSIThreshold = 0 }},
		{"unknown sizing mode", func(c *BacktestConfigV1) { c.SizingMode = "martingale" }},
		{"zero sizing param", func(c *BacktestConfigV1) { c.SizingParam = 0 }},
		{"fraction above one", func(c *BacktestConfigV1) { c.SizingParam = 1.5 }},
		{"negative fee", func(c *BacktestConfigV1) { c.FeePct = -0.001 }},
		{"fee of one", func(c *BacktestConfigV1) { c.FeePct = 1 }},
		{"empty symbol", func(c *BacktestConfigV1) { c.Symbol = "" }},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			config := DefaultConfig()
			tc.mutate(&config)
			suite.Error(config.Validate())
		})
	}
}

func (suite *ConfigTestSuite) TestValidateRejectsInvertedTimeRange() {
	content := `
start_time: 2024-01-01T00:00:00Z
end_time: 2020-01-01T00:00:00Z
`

	_, err := ParseConfig(content)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestValidateAllowsLargeFixedParam() {
	config := DefaultConfig()
	config.SizingMode = sizing.ModeFixed
	config.SizingParam = 10000

	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "rsi_threshold")
	suite.Contains(schema, "kelly")
	suite.Contains(schema, "date-time")
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	config := DefaultConfig()
	suite.NoError(config.Validate())
}
