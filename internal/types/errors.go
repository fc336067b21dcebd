package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Synapse framework errors.
type ErrorCode string

// Action error codes
const (
	ACTION_NOT_FOUND      ErrorCode = "UNKNOWN_ACTION"
	ACTION_ALREADY_EXISTS ErrorCode = "ACTION_ALREADY_EXISTS"
	ACTION_INVALID_PARAM  ErrorCode = "INVALID_PARAM"
	ACTION_INTERNAL       ErrorCode = "INTERNAL"
	ACTION_TIMEOUT        ErrorCode = "ACTION_TIMEOUT"
)

// Oracle error codes
const (
	ORACLE_TIMEOUT      ErrorCode = "ORACLE_TIMEOUT"
	ORACLE_CALL_FAILED  ErrorCode = "ORACLE_CALL_FAILED"
	ORACLE_PARSE_FAILED ErrorCode = "ORACLE_PARSE_FAILED"
	ORACLE_QUOTA        ErrorCode = "ORACLE_QUOTA_EXCEEDED"
)

// Authorization error codes
const (
	APPROVAL_REQUIRED ErrorCode = "APPROVAL_REQUIRED"
	APPROVAL_DENIED   ErrorCode = "APPROVAL_DENIED"
	APPROVAL_EXPIRED  ErrorCode = "APPROVAL_EXPIRED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Scenario error codes
const (
	SCENARIO_NOT_FOUND  ErrorCode = "SCENARIO_NOT_FOUND"
	SCENARIO_DISALLOWED ErrorCode = "TOOL_NOT_ALLOWED"
)

// SynapseError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type SynapseError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *SynapseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *SynapseError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *SynapseError) Is(target error) bool {
	var synErr *SynapseError
	if errors.As(target, &synErr) {
		return e.Code == synErr.Code
	}
	return false
}

// NewError creates a new non-retryable SynapseError with the given code and message.
func NewError(code ErrorCode, message string) *SynapseError {
	return &SynapseError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable SynapseError with the given code and message.
// Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *SynapseError {
	return &SynapseError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable SynapseError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *SynapseError {
	return &SynapseError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns an empty code if the error is not a SynapseError.
func CodeOf(err error) ErrorCode {
	var synErr *SynapseError
	if errors.As(err, &synErr) {
		return synErr.Code
	}
	return ""
}

// IsRetryable reports whether the error chain contains a retryable SynapseError.
func IsRetryable(err error) bool {
	var synErr *SynapseError
	if errors.As(err, &synErr) {
		return synErr.Retryable
	}
	return false
}
