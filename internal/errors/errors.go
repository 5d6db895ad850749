// Package errors provides the application error taxonomy for eegprep.
//
// Every failure surfaced by the loaders, the diagnostics engine and the
// filter engine is wrapped in an AppError carrying one of the categories
// below, so batch callers can decide per category whether a failure is
// fatal for the file or merely reportable.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error
type ErrorType string

const (
	ErrTypeAccess      ErrorType = "ACCESS"
	ErrTypeFormat      ErrorType = "FORMAT"
	ErrTypeContent     ErrorType = "CONTENT"
	ErrTypeFilterRange ErrorType = "FILTER_RANGE"
	ErrTypeFilterApply ErrorType = "FILTER_APPLY"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeConfig      ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewAccessError creates a file access error. Access errors are fatal for
// the affected file and short-circuit the remaining checks.
func NewAccessError(message string, cause error) *AppError {
	return NewAppError(ErrTypeAccess, message, cause)
}

// NewFormatError creates a table structure error
func NewFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFormat, message, cause)
}

// NewContentError creates a data content error
func NewContentError(message string, cause error) *AppError {
	return NewAppError(ErrTypeContent, message, cause)
}

// NewFilterRangeError creates an invalid-band error. Filter range errors are
// fatal for the filtering pass of the affected file.
func NewFilterRangeError(message string) *AppError {
	return NewAppError(ErrTypeFilterRange, message, nil)
}

// NewFilterApplyError creates a per-channel filter failure error
func NewFilterApplyError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFilterApply, message, cause)
}

// NewStorageError creates a persistence error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of err when it wraps an AppError, or an
// empty ErrorType otherwise.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries the given error category
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
