package store

import (
	"context"
	"testing"

	"dashboard/internal/domain"
	apperrors "dashboard/internal/errors"
	"dashboard/internal/repository"
	"dashboard/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_LoadSaveClear(t *testing.T) {
	repo := memory.New()
	slot := NewSlot[domain.RateLimit](repo, repository.KeyChatRateLimit, "rate limit")
	ctx := context.Background()

	_, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.RateLimit{CallsUsed: 3, CallsRemaining: 147, Limit: 150}
	require.NoError(t, slot.Save(ctx, want))

	got, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, slot.Clear(ctx))
	_, ok, err = slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlot_Malformed(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, repository.KeyUIPreferences, []byte(`{"bad"`)))

	slot := NewSlot[map[string]bool](repo, repository.KeyUIPreferences, "preferences")
	_, _, err := slot.Load(ctx)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeFormat))

	fallback := map[string]bool{"compact": true}
	assert.Equal(t, fallback, slot.LoadOr(ctx, fallback))
	assert.Equal(t, repository.KeyUIPreferences, slot.Key())
}
