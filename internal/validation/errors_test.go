package validation

import (
	"errors"
	"strings"
	"testing"

	apperrors "dashboard/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "title", Message: "is required"}}, "validation error for field 'title': is required"},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "priority", Message: "must be low, medium or high"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if !strings.Contains(result, tt.expectError) {
				t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_AddInvalidLengthError(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		expected string
	}{
		{"Both bounds", 1, 10, "title must be between 1 and 10 characters long"},
		{"Only min", 3, 0, "title must be at least 3 characters long"},
		{"Only max", 0, 5, "title must be at most 5 characters long"},
		{"No bounds", 0, 0, "title has invalid length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			ve.AddInvalidLengthError("title", "x", tt.min, tt.max)

			if ve.Errors[0].Message != tt.expected {
				t.Errorf("message = %q, expected %q", ve.Errors[0].Message, tt.expected)
			}
			if ve.Errors[0].Type != ErrorTypeInvalidLength {
				t.Errorf("type = %v, expected %v", ve.Errors[0].Type, ErrorTypeInvalidLength)
			}
		})
	}
}

func TestValidationError_Merge(t *testing.T) {
	ve := NewValidationError()
	ve.Merge(nil)
	ve.Merge(errors.New("plain errors are ignored"))

	other := NewValidationError()
	other.AddRequiredError("name")
	other.AddDuplicateError("id", "abc")
	ve.Merge(other)

	if len(ve.Errors) != 2 {
		t.Fatalf("Merge() kept %d errors, expected 2", len(ve.Errors))
	}
	if got := ve.GetFieldErrors("id"); len(got) != 1 || got[0].Type != ErrorTypeDuplicate {
		t.Errorf("GetFieldErrors(id) = %v", got)
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := NewValidationError()
	if got := ve.GetUserFriendlyMessage(); got != "Input validation failed" {
		t.Errorf("empty message = %q", got)
	}

	ve.AddRequiredError("title")
	if got := ve.GetUserFriendlyMessage(); got != "title is required" {
		t.Errorf("single message = %q", got)
	}

	ve.AddInvalidCharacterError("title", "a\tb")
	got := ve.GetUserFriendlyMessage()
	if !strings.HasPrefix(got, "Multiple validation errors occurred:") || !strings.Contains(got, "- title contains invalid characters") {
		t.Errorf("multiple message = %q", got)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(NewValidationError()) {
		t.Error("IsValidationError should accept *ValidationError")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("IsValidationError should reject plain errors")
	}
}

func TestToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")

	err := ToAppError(ve)
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("ToAppError() = %T, expected *AppError", err)
	}
	if appErr.Type != apperrors.ErrorTypeInvalidInput {
		t.Errorf("type = %v", appErr.Type)
	}
	if appErr.Message != "title is required" {
		t.Errorf("message = %q", appErr.Message)
	}
	if field, _ := appErr.GetContext("field"); field != "title" {
		t.Errorf("field context = %v", field)
	}
	if !errors.Is(err, ve) {
		t.Error("the ValidationError should stay reachable through Unwrap")
	}

	plain := errors.New("plain")
	if ToAppError(plain) != plain {
		t.Error("non-validation errors pass through unchanged")
	}
	if ToAppError(nil) != nil {
		t.Error("nil stays nil")
	}
}
