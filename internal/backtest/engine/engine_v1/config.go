package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/quantfold/momo/internal/backtest/engine/engine_v1/sizing"
	"github.com/quantfold/momo/pkg/errors"
)

// BacktestConfigV1 configures a single backtest run.
type BacktestConfigV1 struct {
	Symbol         string                     `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Ticker of the traded asset" validate:"required"`
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in USD,minimum=0" validate:"gt=0"`
	RSIPeriod      int                        `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,description=Lookback period of the RSI indicator,minimum=1" validate:"gt=0"`
	RSIThreshold   float64                    `yaml:"rsi_threshold" json:"rsi_threshold" jsonschema:"title=RSI Threshold,description=Momentum threshold for entries and exits,minimum=0,maximum=100" validate:"gt=0,lt=100"`
	SizingMode     sizing.Mode                `yaml:"sizing_mode" json:"sizing_mode" jsonschema:"title=Sizing Mode,description=How position size is determined" validate:"oneof=fixed fraction kelly"`
	SizingParam    float64                    `yaml:"sizing_param" json:"sizing_param" jsonschema:"title=Sizing Parameter,description=Dollar amount for fixed mode or equity fraction for fraction and kelly modes" validate:"gt=0"`
	FeePct         float64                    `yaml:"fee_pct" json:"fee_pct" jsonschema:"title=Fee Percentage,description=Commission fraction charged per side,minimum=0" validate:"gte=0,lt=1"`
	SlippagePct    float64                    `yaml:"slippage_pct" json:"slippage_pct" jsonschema:"title=Slippage Percentage,description=Slippage fraction applied per side,minimum=0" validate:"gte=0,lt=1"`
	RiskFreeRate   float64                    `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Annual risk free rate used in the Sharpe ratio"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling so optional times map onto
// optional.Option.
func (c *BacktestConfigV1) UnmarshalYAML(value *yaml.Node) error {
	type plainConfig struct {
		Symbol         string      `yaml:"symbol"`
		InitialCapital float64     `yaml:"initial_capital"`
		RSIPeriod      int         `yaml:"rsi_period"`
		RSIThreshold   float64     `yaml:"rsi_threshold"`
		SizingMode     sizing.Mode `yaml:"sizing_mode"`
		SizingParam    float64     `yaml:"sizing_param"`
		FeePct         float64     `yaml:"fee_pct"`
		SlippagePct    float64     `yaml:"slippage_pct"`
		RiskFreeRate   float64     `yaml:"risk_free_rate"`
		StartTime      *time.Time  `yaml:"start_time"`
		EndTime        *time.Time  `yaml:"end_time"`
	}

	var plain plainConfig
	if err := value.Decode(&plain); err != nil {
		return err
	}

	c.Symbol = plain.Symbol
	c.InitialCapital = plain.InitialCapital
	c.RSIPeriod = plain.RSIPeriod
	c.RSIThreshold = plain.RSIThreshold
	c.SizingMode = plain.SizingMode
	c.SizingParam = plain.SizingParam
	c.FeePct = plain.FeePct
	c.SlippagePct = plain.SlippagePct
	c.RiskFreeRate = plain.RiskFreeRate

	if plain.StartTime != nil {
		c.StartTime = optional.Some(*plain.StartTime)
	}

	if plain.EndTime != nil {
		c.EndTime = optional.Some(*plain.EndTime)
	}

	return nil
}

// ParseConfig decodes and validates YAML configuration content.
func ParseConfig(content string) (BacktestConfigV1, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestConfigV1{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestConfigV1{}, err
	}

	return config, nil
}

// Validate checks the configuration against its constraints.
func (c *BacktestConfigV1) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time must not be before start_time")
	}

	if (c.SizingMode == sizing.ModeFraction || c.SizingMode == sizing.ModeKelly) && c.SizingParam > 1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "sizing_param must be within (0, 1] for %s mode", c.SizingMode)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the configuration.
func (c *BacktestConfigV1) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if t == reflect.TypeOf(sizing.Mode("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: sizing.AllModes,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config-v1"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *BacktestConfigV1) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns the configuration matching the reference momentum
// rule: RSI(5) crossing 70, Kelly-fraction sizing, 0.1% fee and slippage
// per side.
func DefaultConfig() BacktestConfigV1 {
	return BacktestConfigV1{
		Symbol:         "BTC-USD",
		InitialCapital: 100000,
		RSIPeriod:      5,
		RSIThreshold:   70,
		SizingMode:     sizing.ModeKelly,
		SizingParam:    0.3244,
		FeePct:         0.001,
		SlippagePct:    0.001,
		RiskFreeRate:   0.02,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}
