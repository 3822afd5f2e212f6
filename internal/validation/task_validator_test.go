package validation

import (
	"strings"
	"testing"
	"time"

	"dashboard/internal/config"
	"dashboard/internal/domain"
)

func TestTaskValidator_ValidateTitle(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       string
		expectError bool
		errorType   ValidationErrorType
	}{
		{"Valid title", "Write report", false, ""},
		{"Empty title", "", true, ErrorTypeRequired},
		{"Whitespace only", "   ", true, ErrorTypeRequired},
		{"Too long title", strings.Repeat("a", 256), true, ErrorTypeInvalidLength},
		{"Valid long title", strings.Repeat("a", 255), false, ""},
		{"Embedded newline", "Write\nreport", true, ErrorTypeInvalidCharacter},
		{"Symbols are fine", "Review PR #12 @ 3pm", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTitle(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateTitle(%q) expected no error but got %v", tt.input, err)
				}
				return
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateTitle(%q) expected ValidationError but got %T", tt.input, err)
			}
			if validationErr.Errors[0].Type != tt.errorType {
				t.Errorf("ValidateTitle(%q) expected error type %v but got %v", tt.input, tt.errorType, validationErr.Errors[0].Type)
			}
		})
	}
}

func TestTaskValidator_ValidatePriority(t *testing.T) {
	validator := NewTaskValidator()

	for _, p := range []domain.Priority{"", domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh} {
		if err := validator.ValidatePriority(p); err != nil {
			t.Errorf("ValidatePriority(%q) unexpected error %v", p, err)
		}
	}
	if err := validator.ValidatePriority("urgent"); err == nil {
		t.Error("ValidatePriority(urgent) expected error")
	}
}

func TestTaskValidator_ValidateTaskForCreation(t *testing.T) {
	validator := NewTaskValidator()

	err := validator.ValidateTaskForCreation("", "urgent")
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected title and priority errors, got %v", validationErr.Errors)
	}

	if err := validator.ValidateTaskForCreation("Plan sprint", domain.PriorityHigh); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestTaskValidator_ValidateTask(t *testing.T) {
	validator := NewTaskValidator()
	started := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		task        domain.Task
		expectError bool
	}{
		{"Valid idle task", domain.Task{Title: "Idle", Priority: domain.PriorityLow}, false},
		{"Valid running task", domain.Task{Title: "Busy", IsRunning: true, StartedAt: &started}, false},
		{"Running without start", domain.Task{Title: "Broken", IsRunning: true}, true},
		{"Negative total", domain.Task{Title: "Broken", TotalSeconds: -1}, true},
		{"Missing title", domain.Task{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTask(tt.task)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateTask() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestTaskValidator_ConfiguredLimits(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 10
	validator := NewTaskValidatorWithConfig(cfg)

	if err := validator.ValidateTitle("eleven chars"); err == nil {
		t.Error("expected configured maximum to apply")
	}

	title, err := validator.GetValidTitle("  short  ")
	if err != nil || title != "short" {
		t.Errorf("GetValidTitle() = %q, %v", title, err)
	}
}
