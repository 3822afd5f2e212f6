package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"dashboard/internal/config"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string's rune count is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks a title against the configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.TitleMinLength(), v.TitleMaxLength())
}

// HasControlCharacters reports newlines, tabs and other control runes
func (v *Validator) HasControlCharacters(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

// IsValidEmail performs a shallow address shape check
func (v *Validator) IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TitleMinLength returns configured minimum title length or default
func (v *Validator) TitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMinLength
	}
	return 1
}

// TitleMaxLength returns configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255
}
