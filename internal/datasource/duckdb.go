package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantfold/momo/internal/logger"
	"github.com/quantfold/momo/internal/types"
	"github.com/quantfold/momo/pkg/errors"
)

// DuckDBDataSource queries bars straight from a CSV or Parquet file through
// a DuckDB view, without loading the series into Go memory up front.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDuckDBDataSource opens an in-memory DuckDB instance. Initialize binds
// it to a data file.
func NewDuckDBDataSource(log *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{db: db, logger: log}, nil
}

// Initialize implements DataSource. Parquet files are read with
// read_parquet, anything else goes through read_csv_auto.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS bars`); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	reader := "read_csv_auto"
	if strings.HasSuffix(path, ".parquet") {
		reader = "read_parquet"
	}

	// CREATE VIEW takes no placeholders, the path goes in directly.
	query := fmt.Sprintf(`
		CREATE VIEW bars AS
		SELECT time, open, high, low, close, volume FROM %s('%s')
	`, reader, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read data file %s", path)
	}

	return nil
}

func timeFilter(start optional.Option[time.Time], end optional.Option[time.Time]) (string, []any) {
	var conditions []string

	var params []any

	if start.IsSome() {
		conditions = append(conditions, fmt.Sprintf("time >= $%d", len(params)+1))
		params = append(params, start.Unwrap())
	}

	if end.IsSome() {
		conditions = append(conditions, fmt.Sprintf("time <= $%d", len(params)+1))
		params = append(params, end.Unwrap())
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), params
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	where, params := timeFilter(start, end)
	query := `SELECT time, open, high, low, close, volume FROM bars` + where + ` ORDER BY time ASC`

	rows, err := d.db.Query(query, params...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar

		err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bar.Time = bar.Time.UTC()

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	where, params := timeFilter(start, end)

	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM bars`+where, params...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
