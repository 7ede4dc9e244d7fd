package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Backend errors
	ErrCodeBackendInit ErrorCode = "BACKEND_INIT_FAILED"

	// Store errors
	ErrCodeStoreUnreadable ErrorCode = "STORE_UNREADABLE"
	ErrCodeStoreWrite      ErrorCode = "STORE_WRITE_FAILED"

	// Monitor errors
	ErrCodeMonitorNotRunning ErrorCode = "MONITOR_NOT_RUNNING"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// CrashError represents a structured error with context
type CrashError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *CrashError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CrashError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *CrashError) WithDetail(key string, value interface{}) *CrashError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *CrashError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new CrashError
func New(code ErrorCode, message string) *CrashError {
	return &CrashError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CrashError
func Wrap(err error, code ErrorCode, message string) *CrashError {
	return &CrashError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific CrashError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	crashErr, ok := err.(*CrashError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return crashErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	crashErr, ok := err.(*CrashError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return crashErr.Code
}
