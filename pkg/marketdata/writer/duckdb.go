package writer

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// DuckDBWriter stages bars in an in-memory DuckDB table and exports them on
// Finalize. Paths ending in .parquet export as Parquet, everything else as
// CSV.
type DuckDBWriter struct {
	path string
	db   *sql.DB
	stmt *sql.Stmt
}

// NewDuckDBWriter creates a DuckDB-backed writer targeting the given path.
func NewDuckDBWriter(path string) (Writer, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open duckdb", err)
	}

	return &DuckDBWriter{path: path, db: db}, nil
}

// Initialize implements Writer.
func (w *DuckDBWriter) Initialize() error {
	_, err := w.db.Exec(`
		CREATE OR REPLACE TABLE bars (
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create bars table", err)
	}

	w.stmt, err = w.db.Prepare(`INSERT INTO bars VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to prepare insert", err)
	}

	return nil
}

// Write implements Writer.
func (w *DuckDBWriter) Write(bar types.Bar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	_, err := w.stmt.Exec(bar.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to insert bar", err)
	}

	return nil
}

// Finalize implements Writer.
func (w *DuckDBWriter) Finalize() (string, error) {
	format := "CSV, HEADER"
	if strings.HasSuffix(w.path, ".parquet") {
		format = "PARQUET"
	}

	query := fmt.Sprintf(`COPY (SELECT * FROM bars ORDER BY time) TO '%s' (FORMAT %s)`, w.path, format)

	if _, err := w.db.Exec(query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to export bars to %s", w.path)
	}

	return w.path, nil
}

// Close implements Writer.
func (w *DuckDBWriter) Close() error {
	if w.stmt != nil {
		w.stmt.Close()
	}

	return w.db.Close()
}

// OutputPath implements Writer.
func (w *DuckDBWriter) OutputPath() string {
	return w.path
}

// NewWriter constructs the writer for the given type.
func NewWriter(writerType Type, path string) (Writer, error) {
	switch writerType {
	case TypeCSV:
		return NewCSVWriter(path), nil
	case TypeDuckDB:
		return NewDuckDBWriter(path)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidWriter, "unsupported writer type: %s", writerType)
	}
}
