package cli

import (
	"fmt"

	"dashboard/internal/errors"
	"dashboard/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("failed to %s: %s%s", operation, errors.GetUserMessage(err), eh.hint(err))
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s%s", errors.GetUserMessage(err), eh.hint(err))
	}

	return err
}

// hint suggests the command that fixes a missing configuration
func (eh *ErrorHandler) hint(err error) string {
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Type != errors.ErrorTypeNotConfigured {
		return ""
	}
	feature, _ := appErr.GetContext("feature")
	switch feature {
	case "Azure DevOps":
		return " (run 'dash devops configure')"
	case "Microsoft Graph":
		return " (run 'dash calendar configure')"
	case "Chat":
		return " (run 'dash chat configure')"
	case "News":
		return " (run 'dash news configure')"
	}
	return ""
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) ||
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStorageError checks if an error came from the slot repository
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}

// IsNotConfiguredError checks if a provider was used before it was configured
func (eh *ErrorHandler) IsNotConfiguredError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotConfigured)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
