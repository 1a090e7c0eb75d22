package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidBar           ErrorCode = 102
	ErrCodeInsufficientData     ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104
	ErrCodeInvalidThreshold     ErrorCode = 105
	ErrCodeInvalidSizingMode    ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDataParseFailed       ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Backtest errors (400-499)
	ErrCodeBacktestConfigError   ErrorCode = 400
	ErrCodeBacktestNoDataSource  ErrorCode = 401
	ErrCodeBacktestNoResultsDir  ErrorCode = 402
	ErrCodeBacktestNotInitialized ErrorCode = 403
	ErrCodeLedgerFailed          ErrorCode = 404

	// Market data errors (500-599)
	ErrCodeMarketDataFetchFailed ErrorCode = 500
	ErrCodeMarketDataWriteFailed ErrorCode = 501
	ErrCodeInvalidProvider       ErrorCode = 502
	ErrCodeInvalidWriter         ErrorCode = 503

	// Report errors (600-699)
	ErrCodeChartRenderFailed ErrorCode = 600
)
