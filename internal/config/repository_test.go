package config

import (
	"context"
	"testing"

	"dashboard/internal/repository/memory"
	"dashboard/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepository(t *testing.T) {
	t.Setenv("DASH_CONFIG", "")
	t.Setenv("DASH_STORAGE_DIR", t.TempDir())

	cfg, err := NewLoaderWithPath("").Load()
	require.NoError(t, err)

	repo, err := CreateRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	_, ok := repo.(*sqlite.SQLiteRepository)
	assert.True(t, ok, "expected sqlite repository, got %T", repo)

	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "tasks", []byte(`[]`)))
	value, err := repo.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))
}

func TestCreateRepository_Memory(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "memory driver", mutate: func(c *Config) { c.Storage.Driver = DriverMemory }},
		{name: "testing environment", mutate: func(c *Config) { c.Application.Env = string(Testing) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			repo, err := CreateRepository(cfg)
			require.NoError(t, err)
			_, ok := repo.(*memory.Repository)
			assert.True(t, ok, "expected memory repository, got %T", repo)
		})
	}
}

func TestCreateTestRepository(t *testing.T) {
	repo, err := CreateTestRepository()
	require.NoError(t, err)
	defer repo.Close()

	keys, err := repo.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGetEnvironment(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, Production, cfg.GetEnvironment())

	cfg.Application.Env = "development"
	assert.Equal(t, Development, cfg.GetEnvironment())

	cfg.Application.Env = "staging"
	assert.Equal(t, Production, cfg.GetEnvironment())
}
