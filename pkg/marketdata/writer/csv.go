package writer

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

type csvRow struct {
	Time   csvTime `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

type csvTime struct {
	time.Time
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t csvTime) MarshalCSV() (string, error) {
	return t.Format(time.RFC3339), nil
}

// CSVWriter buffers bars in memory and writes them as one CSV file on
// Finalize.
type CSVWriter struct {
	path string
	rows []csvRow
}

// NewCSVWriter creates a CSV writer targeting the given path.
func NewCSVWriter(path string) Writer {
	return &CSVWriter{path: path}
}

// Initialize implements Writer.
func (w *CSVWriter) Initialize() error {
	w.rows = w.rows[:0]

	return nil
}

// Write implements Writer.
func (w *CSVWriter) Write(bar types.Bar) error {
	w.rows = append(w.rows, csvRow{
		Time:   csvTime{bar.Time},
		Open:   bar.Open,
		High:   bar.High,
		Low:    bar.Low,
		Close:  bar.Close,
		Volume: bar.Volume,
	})

	return nil
}

// Finalize implements Writer.
func (w *CSVWriter) Finalize() (string, error) {
	file, err := os.Create(w.path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create output file %s", w.path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&w.rows, file); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write csv", err)
	}

	return w.path, nil
}

// Close implements Writer.
func (w *CSVWriter) Close() error {
	w.rows = nil

	return nil
}

// OutputPath implements Writer.
func (w *CSVWriter) OutputPath() string {
	return w.path
}
