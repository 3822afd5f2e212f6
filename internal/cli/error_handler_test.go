package cli

import (
	"errors"
	"testing"

	apperrors "dashboard/internal/errors"
	"dashboard/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Invalid input error",
			operation: "add task",
			err:       apperrors.NewInvalidInputError("due", "soon", "use YYYY-MM-DD"),
			expected:  "failed to add task: invalid input for due: use YYYY-MM-DD",
		},
		{
			name:      "Not found error",
			operation: "edit task",
			err:       apperrors.NewNotFoundError("task", "abc"),
			expected:  "failed to edit task: task not found: abc",
		},
		{
			name:      "Storage error",
			operation: "save task",
			err:       apperrors.NewStorageError("write", errors.New("disk full")),
			expected:  "failed to save task: Saving to local storage failed. Changes are kept for this session only.",
		},
		{
			name:      "Not configured error carries a hint",
			operation: "fetch work items",
			err:       apperrors.NewNotConfiguredError("Azure DevOps"),
			expected:  "failed to fetch work items: Azure DevOps is not configured (run 'dash devops configure')",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Rate limit error",
			err:      apperrors.NewRateLimitError("rate limit reached", nil),
			expected: "rate limit reached",
		},
		{
			name:     "Calendar not configured",
			err:      apperrors.NewNotConfiguredError("Microsoft Graph"),
			expected: "Microsoft Graph is not configured (run 'dash calendar configure')",
		},
		{
			name:     "Chat not configured",
			err:      apperrors.NewNotConfiguredError("Chat"),
			expected: "Chat is not configured (run 'dash chat configure')",
		},
		{
			name:     "News not configured",
			err:      apperrors.NewNotConfiguredError("News"),
			expected: "News is not configured (run 'dash news configure')",
		},
		{
			name:     "Timeout error",
			err:      apperrors.NewTimeoutError("fetch", "10s"),
			expected: "The operation timed out. Please try again.",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.HandleSimple(tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.HandleSimple() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_IsValidationError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "AppError validation",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: true,
		},
		{
			name:     "Invalid input",
			err:      apperrors.NewInvalidInputError("priority", "urgent", "unknown priority"),
			expected: true,
		},
		{
			name: "Field validation error",
			err: &validation.ValidationError{
				Errors: []validation.FieldError{
					{Field: "title", Message: "title is required"},
				},
			},
			expected: true,
		},
		{
			name:     "Storage error",
			err:      apperrors.NewStorageError("write", nil),
			expected: false,
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.IsValidationError(tt.err)
			if result != tt.expected {
				t.Errorf("ErrorHandler.IsValidationError() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestErrorHandler_ErrorKinds(t *testing.T) {
	eh := NewErrorHandler()

	notFound := apperrors.NewNotFoundError("coworker", "ana")
	storage := apperrors.NewStorageError("write", nil)
	notConfigured := apperrors.NewNotConfiguredError("News")
	regular := errors.New("regular error")

	if !eh.IsNotFoundError(notFound) || eh.IsNotFoundError(storage) || eh.IsNotFoundError(regular) {
		t.Errorf("IsNotFoundError classified errors incorrectly")
	}
	if !eh.IsStorageError(storage) || eh.IsStorageError(notFound) || eh.IsStorageError(regular) {
		t.Errorf("IsStorageError classified errors incorrectly")
	}
	if !eh.IsNotConfiguredError(notConfigured) || eh.IsNotConfiguredError(storage) {
		t.Errorf("IsNotConfiguredError classified errors incorrectly")
	}
}

func TestErrorHandler_GetErrorCode(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "App error",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: "VALIDATION_FAILED",
		},
		{
			name:     "Not configured",
			err:      apperrors.NewNotConfiguredError("Chat"),
			expected: "NOT_CONFIGURED",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "UNKNOWN_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.GetErrorCode(tt.err)
			if result != tt.expected {
				t.Errorf("ErrorHandler.GetErrorCode() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleValidationError(t *testing.T) {
	eh := NewErrorHandler()

	validationErr := &validation.ValidationError{
		Errors: []validation.FieldError{
			{Field: "timezone", Message: "timezone is required"},
		},
	}

	result := eh.Handle("add coworker", validationErr)
	expected := "failed to add coworker: timezone is required"

	if result.Error() != expected {
		t.Errorf("ErrorHandler.Handle() with validation error = %v, want %v", result.Error(), expected)
	}
}

func TestErrorHandler_HandleNilError(t *testing.T) {
	eh := NewErrorHandler()

	if result := eh.Handle("test operation", nil); result != nil {
		t.Errorf("ErrorHandler.Handle() with nil error = %v, want nil", result)
	}
	if result := eh.HandleSimple(nil); result != nil {
		t.Errorf("ErrorHandler.HandleSimple() with nil error = %v, want nil", result)
	}
}
