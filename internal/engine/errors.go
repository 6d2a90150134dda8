package engine

import (
	"errors"
	"fmt"
)

// SearchError represents a failed search.
type SearchError struct {
	// Code identifies the error category.
	Code SearchErrorCode

	// SearchID identifies the search in the logs.
	SearchID string

	// SQL is the statement that was being run, if any.
	SQL string

	// Err is the underlying error.
	Err error
}

// SearchErrorCode categorizes search errors.
type SearchErrorCode string

const (
	// ErrCodeExecute indicates the store failed to run the statement.
	ErrCodeExecute SearchErrorCode = "EXECUTE_FAILED"

	// ErrCodeScanLimit indicates a slow search would scan more rows than
	// the engine allows.
	ErrCodeScanLimit SearchErrorCode = "SCAN_LIMIT_EXCEEDED"
)

// Error implements the error interface.
func (e *SearchError) Error() string {
	if e.SearchID != "" {
		return fmt.Sprintf("%s: %v (search=%s)", e.Code, e.Err, e.SearchID)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying error.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// ScanLimitError reports a slow search that returned more rows than the
// configured limit.
type ScanLimitError struct {
	Rows  int
	Limit int
}

// Error implements the error interface.
func (e *ScanLimitError) Error() string {
	return fmt.Sprintf("slow search scanned %d rows, limit is %d", e.Rows, e.Limit)
}

// IsScanLimitError returns true if the error is a scan limit error.
// Uses errors.As to handle wrapped errors.
func IsScanLimitError(err error) bool {
	var se *ScanLimitError
	return errors.As(err, &se)
}
