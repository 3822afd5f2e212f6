package validation

import (
	"dashboard/internal/domain"
	"dashboard/internal/views"
)

// CoworkerValidator provides validation for coworker operations
type CoworkerValidator struct {
	validator *Validator
}

// NewCoworkerValidator creates a new coworker validator
func NewCoworkerValidator() *CoworkerValidator {
	return &CoworkerValidator{validator: NewValidator()}
}

// ValidateName rejects empty names and names with control characters
func (cv *CoworkerValidator) ValidateName(name string) error {
	validationError := NewValidationError()
	trimmed := cv.validator.TrimAndValidateString(name)

	if !cv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("name")
		return validationError
	}
	if !cv.validator.IsValidStringLength(trimmed, 1, 100) {
		validationError.AddInvalidLengthError("name", trimmed, 1, 100)
	}
	if cv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("name", trimmed)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// NormalizeTimezone resolves an IANA name or a known abbreviation such as
// PST to the canonical IANA name.
func (cv *CoworkerValidator) NormalizeTimezone(zone string) (string, error) {
	trimmed := cv.validator.TrimAndValidateString(zone)
	if trimmed == "" {
		validationError := NewValidationError()
		validationError.AddRequiredError("timezone")
		return "", validationError
	}

	canonical, ok := views.ResolveZone(trimmed)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("timezone", trimmed, "an IANA zone such as Europe/London")
		return "", validationError
	}
	return canonical, nil
}

// ValidateEmail accepts an empty address
func (cv *CoworkerValidator) ValidateEmail(email string) error {
	if email == "" || cv.validator.IsValidEmail(email) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidFormatError("email", email, "name@example.com")
	return validationError
}

// ValidateCoworker validates a complete coworker record
func (cv *CoworkerValidator) ValidateCoworker(c domain.Coworker) error {
	validationError := NewValidationError()
	validationError.Merge(cv.ValidateName(c.Name))
	if _, err := cv.NormalizeTimezone(c.Timezone); err != nil {
		validationError.Merge(err)
	}
	validationError.Merge(cv.ValidateEmail(c.Email))

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}
