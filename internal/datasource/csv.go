package datasource

import (
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantfold/momo/internal/logger"
	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// timestampLayouts are tried in order when parsing the time column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp parses the CSV time column, accepting RFC3339 as well as plain
// date formats.
type Timestamp struct {
	time.Time
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Timestamp) UnmarshalCSV(value string) error {
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			t.Time = parsed.UTC()

			return nil
		}
	}

	return errors.Newf(errors.ErrCodeDataParseFailed, "unrecognized time format %q", value)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Timestamp) MarshalCSV() (string, error) {
	return t.Format(time.RFC3339), nil
}

type csvBar struct {
	Time   Timestamp `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

// CSVDataSource reads a bar series from an OHLCV CSV file. The whole file is
// loaded into memory on Initialize; daily series stay small.
type CSVDataSource struct {
	logger *logger.Logger
	bars   []types.Bar
}

// NewCSVDataSource creates an uninitialized CSV data source.
func NewCSVDataSource(log *logger.Logger) DataSource {
	return &CSVDataSource{logger: log}
}

// Initialize implements DataSource. Bars are validated and sorted by time;
// duplicate timestamps are rejected.
func (c *CSVDataSource) Initialize(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open data file %s", path)
	}
	defer file.Close()

	var rows []csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse data file %s", path)
	}

	bars := make([]types.Bar, 0, len(rows))

	for _, row := range rows {
		bar := types.Bar{
			Time:   row.Time.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}

		if err := bar.Validate(); err != nil {
			return err
		}

		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	if err := types.ValidateBars(bars); err != nil {
		return err
	}

	c.bars = bars
	c.logger.Debug("Loaded bars from CSV",
		zap.String("path", path),
		zap.Int("count", len(bars)),
	)

	return nil
}

// ReadAll implements DataSource.
func (c *CSVDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	if c.bars == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source not initialized")
	}

	var out []types.Bar

	for _, bar := range c.bars {
		if inRange(bar.Time, start, end) {
			out = append(out, bar)
		}
	}

	return out, nil
}

// Count implements DataSource.
func (c *CSVDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	bars, err := c.ReadAll(start, end)
	if err != nil {
		return 0, err
	}

	return len(bars), nil
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	c.bars = nil

	return nil
}
