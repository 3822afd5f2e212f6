package errors

import (
	"errors"
	"fmt"
)

// NewNotConfiguredError reports that a feature was used before its credentials were set
func NewNotConfiguredError(feature string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotConfigured,
		Message: fmt.Sprintf("%s is not configured", feature),
		Code:    "NOT_CONFIGURED",
		Context: map[string]interface{}{
			"feature": feature,
		},
	}
}

// NewAuthError creates an error for an invalid or expired credential
func NewAuthError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Message: message,
		Code:    "AUTH_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewPermissionError creates an error for a credential lacking a required scope
func NewPermissionError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypePermission,
		Message: message,
		Code:    "PERMISSION_DENIED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewRateLimitError creates an error for an exhausted request quota
func NewRateLimitError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeRateLimit,
		Message: message,
		Code:    "RATE_LIMITED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewFormatError creates an error for a malformed import or stored payload
func NewFormatError(what string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: fmt.Sprintf("malformed %s", what),
		Code:    "FORMAT_INVALID",
		Cause:   cause,
		Context: map[string]interface{}{
			"payload": what,
		},
	}
}

// NewUnknownError creates an error for anything outside the closed taxonomy
func NewUnknownError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnknown,
		Message: message,
		Code:    "UNKNOWN_ERROR",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewStorageError creates a new durable storage error
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeStorage:
			return "Saving to local storage failed. Changes are kept for this session only."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		case ErrorTypeUnknown:
			if appErr.Message != "" {
				return appErr.Message
			}
			return "An unexpected error occurred. Please try again."
		default:
			return appErr.Message
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeNotConfigured, ErrorTypeFormat:
			return false // These are user errors, not system errors
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
