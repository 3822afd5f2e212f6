package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dashboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*SQLiteRepository, func()) {
	dbPath := filepath.Join(t.TempDir(), "dash.db")

	repo, err := New(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
	}

	return repo, cleanup
}

func TestPutAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	require.NoError(t, repo.Put(ctx, "tasks", []byte(`[{"id":"a"}]`)))

	value, err := repo.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(value))

	slot, err := repo.GetSlot(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, "tasks", slot.Key)
	assert.True(t, fixed.Equal(slot.UpdatedAt))
}

func TestPutOverwrites(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "tasks", []byte(`[1]`)))
	require.NoError(t, repo.Put(ctx, "tasks", []byte(`[2]`)))

	value, err := repo.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(value))

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks"}, keys)
}

func TestGetMissing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteAndKeys(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, k := range []string{"coworkers", "tasks", "chat.history"} {
		require.NoError(t, repo.Put(ctx, k, []byte(`{}`)))
	}

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat.history", "coworkers", "tasks"}, keys)

	require.NoError(t, repo.Delete(ctx, "coworkers"))
	require.NoError(t, repo.Delete(ctx, "coworkers"), "deleting twice is not an error")

	keys, err = repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat.history", "tasks"}, keys)
}

func TestInMemoryDatabase(t *testing.T) {
	repo, err := New(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte("v")))
	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dash.db")
	ctx := context.Background()

	repo, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, "tasks", []byte(`["x"]`)))
	require.NoError(t, repo.Close())

	reopened, err := NewWithOptions(dbPath, Options{QueryTimeout: time.Second, WriteTimeout: time.Second})
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, string(value))
}

func TestCanceledContext(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Put(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}
