package oracle

import (
	"errors"
	"fmt"
)

// Error codes for oracle failures
const (
	// ErrCodeNetworkFailure indicates the oracle was unreachable or answered with a non-success status
	ErrCodeNetworkFailure = "NETWORK_FAILURE"
	// ErrCodeParseFailure indicates the oracle body was malformed or carried no usable tier
	ErrCodeParseFailure = "PARSE_FAILURE"
)

// OracleError represents an oracle failure with the code, the side it was
// fetched for and the underlying error.
type OracleError struct {
	Code       string // Error code identifying the failure class
	Message    string // Human readable error message
	Err        error  // Underlying error if any
	StatusCode int    // HTTP status when the oracle answered
	Side       string // Chain side the request was made for
}

func (e *OracleError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("[%s] %s for %s side: %v", e.Code, e.Message, e.Side, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// NewOracleError creates a new OracleError.
func NewOracleError(code, message string, err error, side string) *OracleError {
	return &OracleError{
		Code:    code,
		Message: message,
		Err:     err,
		Side:    side,
	}
}

// IsOracleError reports whether err is, or wraps, an OracleError with the given code.
func IsOracleError(err error, code string) bool {
	var oe *OracleError
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}
