package store

import (
	"context"
	"encoding/json"

	"dashboard/internal/errors"
	"dashboard/internal/repository"
)

// Slot reads and writes one value as a whole JSON blob. It is used for
// settings, counters and histories, which have no per-item identity.
type Slot[T any] struct {
	repo repository.Repository
	key  string
	what string
}

// NewSlot binds a typed slot to key
func NewSlot[T any](repo repository.Repository, key, what string) *Slot[T] {
	return &Slot[T]{repo: repo, key: key, what: what}
}

// Key returns the repository key
func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the stored value. ok is false when nothing has been saved.
// A blob that does not decode yields a Format error.
func (s *Slot[T]) Load(ctx context.Context) (value T, ok bool, err error) {
	blob, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return value, false, nil
		}
		return value, false, err
	}
	if err := json.Unmarshal(blob, &value); err != nil {
		var zero T
		return zero, false, errors.NewFormatError(s.what, err)
	}
	return value, true, nil
}

// LoadOr returns the stored value, or fallback when it is missing or unreadable
func (s *Slot[T]) LoadOr(ctx context.Context, fallback T) T {
	value, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return fallback
	}
	return value
}

// Save overwrites the stored value
func (s *Slot[T]) Save(ctx context.Context, value T) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return errors.NewFormatError(s.what, err)
	}
	return s.repo.Put(ctx, s.key, blob)
}

// Clear removes the stored value
func (s *Slot[T]) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}
