// Package bridge reads configuration values from a deployed bridge contract.
package bridge

import (
	"errors"
	"fmt"
)

// Error codes for bridge contract operations
const (
	// ErrCodeRPCError indicates an RPC connection or call failed
	ErrCodeRPCError = "RPC_ERROR"
	// ErrCodeInvalidAddress indicates the bridge address is malformed
	ErrCodeInvalidAddress = "INVALID_ADDRESS"
	// ErrCodeInvalidABI indicates invalid or malformed contract ABI
	ErrCodeInvalidABI = "INVALID_ABI"
	// ErrCodeContractCallFailure indicates the read call reverted or returned garbage
	ErrCodeContractCallFailure = "CONTRACT_CALL_FAILURE"
)

// ContractError represents a bridge contract error with additional context
// about the error type, message, underlying error and chain side.
type ContractError struct {
	Code    string // Error code identifying the type of error
	Message string // Human readable error message
	Err     error  // Underlying error if any
	Side    string // Chain side where the error occurred
}

// Error implements the error interface for ContractError.
func (e *ContractError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("[%s] %s on %s side: %v", e.Code, e.Message, e.Side, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// NewContractError creates a new ContractError with the given parameters.
func NewContractError(code string, message string, err error, side string) *ContractError {
	return &ContractError{
		Code:    code,
		Message: message,
		Err:     err,
		Side:    side,
	}
}

// IsContractError checks if an error is, or wraps, a ContractError matching the given code.
func IsContractError(err error, code string) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
