package validation

import (
	"strconv"

	"dashboard/internal/domain"
)

// ValidateSnapshot checks an imported collection: every record needs a
// non-empty id and ids must be unique.
func ValidateSnapshot[T domain.Record[T]](items []T) error {
	validationError := NewValidationError()
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		id := item.RecordID()
		if id == "" {
			validationError.AddError("id", ErrorTypeRequired, "record "+strconv.Itoa(i)+" has no id", i)
			continue
		}
		if _, dup := seen[id]; dup {
			validationError.AddDuplicateError("id", id)
			continue
		}
		seen[id] = struct{}{}
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}
