package config

import (
	"fmt"
	"os"

	"dashboard/internal/repository"
	"dashboard/internal/repository/memory"
	"dashboard/internal/repository/sqlite"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment maps Application.Env to an Environment, defaulting to production
func (c *Config) GetEnvironment() Environment {
	switch Environment(c.Application.Env) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// CreateRepository opens the slot repository the configuration describes.
// The testing environment always uses the in-memory driver.
func CreateRepository(config *Config) (repository.Repository, error) {
	if config.GetEnvironment() == Testing || config.Storage.Driver == DriverMemory {
		return memory.New(), nil
	}

	if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	repo, err := sqlite.NewWithOptions(config.GetDatabasePath(), sqlite.Options{
		QueryTimeout: config.Storage.QueryTimeout,
		WriteTimeout: config.Storage.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return repo, nil
}

// CreateTestRepository creates an in-memory SQLite repository for testing
func CreateTestRepository() (repository.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
