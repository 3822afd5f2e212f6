package validation

import (
	"dashboard/internal/config"
	"dashboard/internal/domain"
)

// TaskValidator provides validation for task operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator honoring cfg's limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed, tv.validator.TitleMinLength(), tv.validator.TitleMaxLength())
	}
	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidatePriority accepts the empty string, which means the default priority
func (tv *TaskValidator) ValidatePriority(p domain.Priority) error {
	if p == "" || p.Valid() {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("priority", p, "must be low, medium or high")
	return validationError
}

// ValidateTaskForCreation validates the fields supplied when adding a task
func (tv *TaskValidator) ValidateTaskForCreation(title string, priority domain.Priority) error {
	validationError := NewValidationError()
	validationError.Merge(tv.ValidateTitle(title))
	validationError.Merge(tv.ValidatePriority(priority))

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTask validates a complete task record
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()
	validationError.Merge(tv.ValidateTitle(task.Title))
	validationError.Merge(tv.ValidatePriority(task.Priority))

	if task.IsRunning && task.StartedAt == nil {
		validationError.AddInvalidValueError("startedAt", nil, "a running timer needs a start time")
	}
	if task.TotalSeconds < 0 {
		validationError.AddInvalidValueError("totalSeconds", task.TotalSeconds, "cannot be negative")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// GetValidTitle returns a cleaned title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}
