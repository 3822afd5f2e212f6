package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode string
		wantMsg  string
	}{
		{"not configured", NewNotConfiguredError("Azure DevOps"), ErrorTypeNotConfigured, "NOT_CONFIGURED", "Azure DevOps is not configured"},
		{"auth", NewAuthError("token expired", cause), ErrorTypeAuth, "AUTH_FAILED", "token expired"},
		{"permission", NewPermissionError("missing scope", nil), ErrorTypePermission, "PERMISSION_DENIED", "missing scope"},
		{"not found", NewNotFoundError("task", "abc"), ErrorTypeNotFound, "NOT_FOUND", "task not found: abc"},
		{"validation", NewValidationError("bad query", nil), ErrorTypeValidation, "VALIDATION_FAILED", "bad query"},
		{"rate limit", NewRateLimitError("slow down", nil), ErrorTypeRateLimit, "RATE_LIMITED", "slow down"},
		{"format", NewFormatError("task list", cause), ErrorTypeFormat, "FORMAT_INVALID", "malformed task list"},
		{"unknown", NewUnknownError("server said no", nil), ErrorTypeUnknown, "UNKNOWN_ERROR", "server said no"},
		{"storage", NewStorageError("put tasks", cause), ErrorTypeStorage, "STORAGE_ERROR", "storage operation failed: put tasks"},
		{"invalid input", NewInvalidInputError("title", "", "cannot be empty"), ErrorTypeInvalidInput, "INVALID_INPUT", "invalid input for title: cannot be empty"},
		{"timeout", NewTimeoutError("overview", "10s"), ErrorTypeTimeout, "TIMEOUT", "operation timed out: overview"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("type = %v, want %v", tt.err.Type, tt.wantType)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("message = %v, want %v", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestNewNotFoundError_Context(t *testing.T) {
	err := NewNotFoundError("coworker", "123")

	resource, ok := err.GetContext("resource")
	if !ok || resource != "coworker" {
		t.Errorf("NewNotFoundError should set resource context")
	}

	identifier, ok := err.GetContext("identifier")
	if !ok || identifier != "123" {
		t.Errorf("NewNotFoundError should set identifier context")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("eof")
	err := WrapError(cause, ErrorTypeFormat, "could not read snapshot")

	if err.Code != "format" {
		t.Errorf("WrapError code = %v, want format", err.Code)
	}
	if err.Cause != cause {
		t.Errorf("WrapError cause = %v, want %v", err.Cause, cause)
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NewRateLimitError("quota exhausted", nil)
	wrapped := fmt.Errorf("chat: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok || appErr != inner {
		t.Fatalf("AsAppError did not unwrap: %v", wrapped)
	}
	if !IsErrorType(wrapped, ErrorTypeRateLimit) {
		t.Error("IsErrorType should see through fmt wrapping")
	}
	if IsErrorType(errors.New("plain"), ErrorTypeRateLimit) {
		t.Error("plain errors have no type")
	}
	if !IsAppError(wrapped) {
		t.Error("IsAppError should be true for wrapped AppError")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"auth passes message", NewAuthError("token expired", nil), "token expired"},
		{"storage hides cause", NewStorageError("put", errors.New("disk full")), "Saving to local storage failed. Changes are kept for this session only."},
		{"timeout generic", NewTimeoutError("x", 1), "The operation timed out. Please try again."},
		{"unknown with message", NewUnknownError("provider exploded", nil), "provider exploded"},
		{"unknown without message", &AppError{Type: ErrorTypeUnknown}, "An unexpected error occurred. Please try again."},
		{"plain error", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.expected {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(NewFormatError("x", nil)); code != "FORMAT_INVALID" {
		t.Errorf("GetErrorCode() = %v", code)
	}
	if code := GetErrorCode(errors.New("plain")); code != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode(plain) = %v", code)
	}
}

func TestShouldLogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"validation", NewValidationError("x", nil), false},
		{"not configured", NewNotConfiguredError("x"), false},
		{"format", NewFormatError("x", nil), false},
		{"storage", NewStorageError("x", nil), true},
		{"auth", NewAuthError("x", nil), true},
		{"plain", errors.New("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldLogError(tt.err); got != tt.expected {
				t.Errorf("ShouldLogError() = %v, want %v", got, tt.expected)
			}
		})
	}
}
