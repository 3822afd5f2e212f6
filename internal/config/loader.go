package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a loader reading DefaultPath
func NewLoader() *Loader {
	return NewLoaderWithPath(DefaultPath())
}

// NewLoaderWithPath creates a loader reading the YAML file at path
func NewLoaderWithPath(path string) *Loader {
	return &Loader{
		config: NewConfig(),
		path:   path,
	}
}

// DefaultPath returns DASH_CONFIG, or config.yaml under DefaultDir
func DefaultPath() string {
	if p := os.Getenv("DASH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file, when present
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the configuration as YAML to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// credentials live in this file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StorageDriver   *string
	StorageDir      *string
	StorageFilename *string

	// Dashboard overrides
	SoftTimeout  *time.Duration
	BatchCeiling *int

	// Validation overrides
	TitleMinLength *int
	TitleMaxLength *int

	// Application overrides
	Env     *string
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StorageDriver != nil {
		config.Storage.Driver = *overrides.StorageDriver
	}
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageFilename != nil {
		config.Storage.Filename = *overrides.StorageFilename
	}

	if overrides.SoftTimeout != nil {
		config.Dashboard.SoftTimeout = *overrides.SoftTimeout
	}
	if overrides.BatchCeiling != nil {
		config.Dashboard.BatchCeiling = *overrides.BatchCeiling
	}

	if overrides.TitleMinLength != nil {
		config.Validation.TitleMinLength = *overrides.TitleMinLength
	}
	if overrides.TitleMaxLength != nil {
		config.Validation.TitleMaxLength = *overrides.TitleMaxLength
	}

	if overrides.Env != nil {
		config.Application.Env = *overrides.Env
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
