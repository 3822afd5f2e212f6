package validation

import (
	"testing"

	"dashboard/internal/domain"
)

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []domain.Task
		errorType ValidationErrorType
	}{
		{"Empty collection", nil, ""},
		{"Unique ids", []domain.Task{{ID: "a"}, {ID: "b"}}, ""},
		{"Missing id", []domain.Task{{ID: "a"}, {}}, ErrorTypeRequired},
		{"Duplicate id", []domain.Task{{ID: "a"}, {ID: "a"}}, ErrorTypeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshot(tt.tasks)
			if tt.errorType == "" {
				if err != nil {
					t.Errorf("ValidateSnapshot() unexpected error %v", err)
				}
				return
			}
			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if validationErr.Errors[0].Type != tt.errorType {
				t.Errorf("type = %v, expected %v", validationErr.Errors[0].Type, tt.errorType)
			}
		})
	}
}
