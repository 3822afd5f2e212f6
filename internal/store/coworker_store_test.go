package store

import (
	"context"
	"testing"

	apperrors "dashboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoworkerStore_AddCoworker(t *testing.T) {
	env := setupTestEnv(t)
	s := NewCoworkerStore(env.repo, env.opts...)
	ctx := context.Background()

	c, err := s.AddCoworker(ctx, CoworkerInput{Name: " Ana ", Timezone: "PST", Email: "ana@example.com", GraphUserID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "America/Los_Angeles", c.Timezone, "aliases are normalized")
	assert.Equal(t, env.clock.Now(), c.CreatedAt)

	_, err = s.AddCoworker(ctx, CoworkerInput{Name: "Ben", Timezone: "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1"}, s.GraphUserIDs())
}

func TestCoworkerStore_AddCoworkerValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CoworkerInput
		field string
	}{
		{"missing name", CoworkerInput{Timezone: "UTC"}, "name"},
		{"unknown zone", CoworkerInput{Name: "Ana", Timezone: "Atlantis/Capital"}, "timezone"},
		{"missing zone", CoworkerInput{Name: "Ana"}, "timezone"},
		{"bad email", CoworkerInput{Name: "Ana", Timezone: "UTC", Email: "ana-at-example"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			s := NewCoworkerStore(env.repo, env.opts...)

			_, err := s.AddCoworker(context.Background(), tt.input)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperrors.ErrorTypeInvalidInput, appErr.Type)
			field, _ := appErr.GetContext("field")
			assert.Equal(t, tt.field, field)
			assert.Zero(t, s.Len())
		})
	}
}

func TestCoworkerStore_UpdateCoworker(t *testing.T) {
	env := setupTestEnv(t)
	s := NewCoworkerStore(env.repo, env.opts...)
	ctx := context.Background()
	c, _ := s.AddCoworker(ctx, CoworkerInput{Name: "Ana", Role: "dev", Timezone: "UTC"})

	zone := "jst"
	updated, err := s.UpdateCoworker(ctx, c.ID, CoworkerPatch{Timezone: &zone})
	require.NoError(t, err)

	want := c
	want.Timezone = "Asia/Tokyo"
	assert.Equal(t, want, updated)

	bad := "nowhere"
	_, err = s.UpdateCoworker(ctx, c.ID, CoworkerPatch{Timezone: &bad})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	got, _ := s.Get(c.ID)
	assert.Equal(t, want, got, "failed validation leaves the record alone")
}

func TestCoworkerStore_ImportValidates(t *testing.T) {
	env := setupTestEnv(t)
	s := NewCoworkerStore(env.repo, env.opts...)
	ctx := context.Background()

	err := s.Import(ctx, []byte(`[{"id":"a","name":"Ana","timezone":"Nowhere/Land"}]`))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeFormat))

	require.NoError(t, s.Import(ctx, []byte(`[{"id":"a","name":"Ana","timezone":"Europe/Paris"}]`)))
	assert.Equal(t, 1, s.Len())
}
