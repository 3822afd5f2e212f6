package store

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
	"dashboard/internal/validation"
)

// CoworkerInput holds the fields supplied when adding a coworker
type CoworkerInput struct {
	Name        string
	Role        string
	Email       string
	Timezone    string
	GraphUserID string
}

// CoworkerPatch holds a partial coworker update. Nil fields are left unchanged.
type CoworkerPatch struct {
	Name        *string
	Role        *string
	Email       *string
	Timezone    *string
	GraphUserID *string
}

// CoworkerStore is the persisted coworker board
type CoworkerStore struct {
	*ListStore[domain.Coworker]
	validator *validation.CoworkerValidator
}

// NewCoworkerStore creates a coworker store over the coworkers slot
func NewCoworkerStore(repo repository.Repository, opts ...Option) *CoworkerStore {
	return &CoworkerStore{
		ListStore: NewListStore[domain.Coworker](repo, repository.KeyCoworkers, "coworker list", opts...),
		validator: validation.NewCoworkerValidator(),
	}
}

// AddCoworker validates in, normalizes its time zone and appends it
func (s *CoworkerStore) AddCoworker(ctx context.Context, in CoworkerInput) (domain.Coworker, error) {
	verr := validation.NewValidationError()
	verr.Merge(s.validator.ValidateName(in.Name))
	verr.Merge(s.validator.ValidateEmail(strings.TrimSpace(in.Email)))
	zone, err := s.validator.NormalizeTimezone(in.Timezone)
	verr.Merge(err)
	if verr.HasErrors() {
		return domain.Coworker{}, validation.ToAppError(verr)
	}

	return s.Add(ctx, domain.Coworker{
		Name:        strings.TrimSpace(in.Name),
		Role:        strings.TrimSpace(in.Role),
		Email:       strings.TrimSpace(in.Email),
		Timezone:    zone,
		GraphUserID: strings.TrimSpace(in.GraphUserID),
	}), nil
}

// UpdateCoworker merges patch into the coworker with id
func (s *CoworkerStore) UpdateCoworker(ctx context.Context, id string, patch CoworkerPatch) (domain.Coworker, error) {
	verr := validation.NewValidationError()
	if patch.Name != nil {
		verr.Merge(s.validator.ValidateName(*patch.Name))
	}
	if patch.Email != nil {
		verr.Merge(s.validator.ValidateEmail(strings.TrimSpace(*patch.Email)))
	}
	var zone string
	if patch.Timezone != nil {
		z, err := s.validator.NormalizeTimezone(*patch.Timezone)
		verr.Merge(err)
		zone = z
	}
	if verr.HasErrors() {
		return domain.Coworker{}, validation.ToAppError(verr)
	}

	return s.Update(ctx, id, func(c *domain.Coworker) {
		if patch.Name != nil {
			c.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Role != nil {
			c.Role = strings.TrimSpace(*patch.Role)
		}
		if patch.Email != nil {
			c.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Timezone != nil {
			c.Timezone = zone
		}
		if patch.GraphUserID != nil {
			c.GraphUserID = strings.TrimSpace(*patch.GraphUserID)
		}
	})
}

// GraphUserIDs lists the non-empty Graph ids in board order, for presence lookups
func (s *CoworkerStore) GraphUserIDs() []string {
	var ids []string
	for _, c := range s.List() {
		if c.GraphUserID != "" {
			ids = append(ids, c.GraphUserID)
		}
	}
	return ids
}

// Import replaces the board, rejecting snapshots with invalid coworkers
func (s *CoworkerStore) Import(ctx context.Context, blob []byte) error {
	return s.ImportChecked(ctx, blob, func(coworkers []domain.Coworker) error {
		for _, c := range coworkers {
			if err := s.validator.ValidateCoworker(c); err != nil {
				return err
			}
		}
		return nil
	})
}
