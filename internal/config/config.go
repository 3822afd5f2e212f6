package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for the dashboard
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	HTTP        HTTPConfig        `yaml:"http"`
	DevOps      DevOpsConfig      `yaml:"devops"`
	Graph       GraphConfig       `yaml:"graph"`
	Chat        ChatConfig        `yaml:"chat"`
	News        NewsConfig        `yaml:"news"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// StorageConfig holds slot storage configuration
type StorageConfig struct {
	Driver         string        `yaml:"driver" env:"DASH_STORAGE_DRIVER"`
	Dir            string        `yaml:"dir" env:"DASH_STORAGE_DIR"`
	Filename       string        `yaml:"filename" env:"DASH_STORAGE_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"DASH_STORAGE_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"DASH_STORAGE_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"DASH_STORAGE_DIR_PERMISSIONS"`
}

// HTTPConfig holds outbound HTTP configuration shared by every provider
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"DASH_HTTP_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"DASH_HTTP_USER_AGENT"`
}

// ProjectConfig names one Azure DevOps project to aggregate
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Team        string `yaml:"team,omitempty"`
	DisplayName string `yaml:"display_name,omitempty"`
}

// DevOpsConfig holds default Azure DevOps settings
type DevOpsConfig struct {
	Organization string          `yaml:"organization" env:"DASH_DEVOPS_ORG"`
	Projects     []ProjectConfig `yaml:"projects" env:"DASH_DEVOPS_PROJECTS"`
	PAT          string          `yaml:"pat" env:"DASH_DEVOPS_PAT"`
	BaseURL      string          `yaml:"base_url" env:"DASH_DEVOPS_BASE_URL"`
}

// GraphConfig holds default Microsoft Graph settings
type GraphConfig struct {
	AccessToken string `yaml:"access_token" env:"DASH_GRAPH_TOKEN"`
	BaseURL     string `yaml:"base_url" env:"DASH_GRAPH_BASE_URL"`
	TimeZone    string `yaml:"time_zone" env:"DASH_GRAPH_TIMEZONE"`
}

// ChatConfig holds default chat model settings
type ChatConfig struct {
	Token        string `yaml:"token" env:"DASH_CHAT_TOKEN"`
	Model        string `yaml:"model" env:"DASH_CHAT_MODEL"`
	BaseURL      string `yaml:"base_url" env:"DASH_CHAT_BASE_URL"`
	SystemPrompt string `yaml:"system_prompt" env:"DASH_CHAT_SYSTEM_PROMPT"`
	DefaultLimit int    `yaml:"default_limit" env:"DASH_CHAT_DEFAULT_LIMIT"`
}

// NewsConfig holds default news search settings
type NewsConfig struct {
	APIKey   string `yaml:"api_key" env:"DASH_NEWS_API_KEY"`
	BaseURL  string `yaml:"base_url" env:"DASH_NEWS_BASE_URL"`
	Topic    string `yaml:"topic" env:"DASH_NEWS_TOPIC"`
	PageSize int    `yaml:"page_size" env:"DASH_NEWS_PAGE_SIZE"`
	Language string `yaml:"language" env:"DASH_NEWS_LANGUAGE"`
}

// DashboardConfig holds aggregation settings
type DashboardConfig struct {
	SoftTimeout     time.Duration `yaml:"soft_timeout" env:"DASH_SOFT_TIMEOUT"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"DASH_REFRESH_INTERVAL"`
	BatchCeiling    int           `yaml:"batch_ceiling" env:"DASH_BATCH_CEILING"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength int `yaml:"title_min_length" env:"DASH_VALIDATION_TITLE_MIN"`
	TitleMaxLength int `yaml:"title_max_length" env:"DASH_VALIDATION_TITLE_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Env     string        `yaml:"env" env:"DASH_ENV"`
	Timeout time.Duration `yaml:"timeout" env:"DASH_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"DASH_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			Dir:            DefaultDir(),
			Filename:       "dash.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "dash/1.0",
		},
		DevOps: DevOpsConfig{
			BaseURL: "https://dev.azure.com",
		},
		Graph: GraphConfig{
			BaseURL: "https://graph.microsoft.com/v1.0",
		},
		Chat: ChatConfig{
			Model:        "openai/gpt-4.1-mini",
			BaseURL:      "https://models.github.ai/inference",
			SystemPrompt: "You are a concise assistant embedded in a personal productivity dashboard.",
			DefaultLimit: 150,
		},
		News: NewsConfig{
			BaseURL:  "https://newsapi.org/v2",
			Topic:    "technology",
			PageSize: 10,
			Language: "en",
		},
		Dashboard: DashboardConfig{
			SoftTimeout:     10 * time.Second,
			RefreshInterval: 5 * time.Minute,
			BatchCeiling:    200,
		},
		Validation: ValidationConfig{
			TitleMinLength: 1,
			TitleMaxLength: 255,
		},
		Application: ApplicationConfig{
			Env:     string(Production),
			Timeout: 60 * time.Second,
		},
	}
}

// DefaultDir returns ~/.dash, or .dash when the home directory is unknown
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dash"
	}
	return filepath.Join(homeDir, ".dash")
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if driver := os.Getenv("DASH_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dir := os.Getenv("DASH_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("DASH_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if timeout := os.Getenv("DASH_STORAGE_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("DASH_STORAGE_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("DASH_STORAGE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// HTTP configuration
	if timeout := os.Getenv("DASH_HTTP_TIMEOUT"); timeout != "" {
		c.HTTP.Timeout = ParseDurationWithFallback(timeout, c.HTTP.Timeout)
	}
	if ua := os.Getenv("DASH_HTTP_USER_AGENT"); ua != "" {
		c.HTTP.UserAgent = ua
	}

	// Provider credentials
	if org := os.Getenv("DASH_DEVOPS_ORG"); org != "" {
		c.DevOps.Organization = org
	}
	if projects := os.Getenv("DASH_DEVOPS_PROJECTS"); projects != "" {
		c.DevOps.Projects = ParseProjectList(projects)
	}
	if pat := os.Getenv("DASH_DEVOPS_PAT"); pat != "" {
		c.DevOps.PAT = pat
	}
	if base := os.Getenv("DASH_DEVOPS_BASE_URL"); base != "" {
		c.DevOps.BaseURL = base
	}
	if token := os.Getenv("DASH_GRAPH_TOKEN"); token != "" {
		c.Graph.AccessToken = token
	}
	if base := os.Getenv("DASH_GRAPH_BASE_URL"); base != "" {
		c.Graph.BaseURL = base
	}
	if tz := os.Getenv("DASH_GRAPH_TIMEZONE"); tz != "" {
		c.Graph.TimeZone = tz
	}
	if token := os.Getenv("DASH_CHAT_TOKEN"); token != "" {
		c.Chat.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" && c.Chat.Token == "" {
		c.Chat.Token = token
	}
	if model := os.Getenv("DASH_CHAT_MODEL"); model != "" {
		c.Chat.Model = model
	}
	if base := os.Getenv("DASH_CHAT_BASE_URL"); base != "" {
		c.Chat.BaseURL = base
	}
	if prompt := os.Getenv("DASH_CHAT_SYSTEM_PROMPT"); prompt != "" {
		c.Chat.SystemPrompt = prompt
	}
	if limit := os.Getenv("DASH_CHAT_DEFAULT_LIMIT"); limit != "" {
		c.Chat.DefaultLimit = ParseIntWithFallback(limit, c.Chat.DefaultLimit)
	}
	if key := os.Getenv("DASH_NEWS_API_KEY"); key != "" {
		c.News.APIKey = key
	}
	if base := os.Getenv("DASH_NEWS_BASE_URL"); base != "" {
		c.News.BaseURL = base
	}
	if topic := os.Getenv("DASH_NEWS_TOPIC"); topic != "" {
		c.News.Topic = topic
	}
	if size := os.Getenv("DASH_NEWS_PAGE_SIZE"); size != "" {
		c.News.PageSize = ParseIntWithFallback(size, c.News.PageSize)
	}
	if lang := os.Getenv("DASH_NEWS_LANGUAGE"); lang != "" {
		c.News.Language = lang
	}

	// Dashboard configuration
	if timeout := os.Getenv("DASH_SOFT_TIMEOUT"); timeout != "" {
		c.Dashboard.SoftTimeout = ParseDurationWithFallback(timeout, c.Dashboard.SoftTimeout)
	}
	if interval := os.Getenv("DASH_REFRESH_INTERVAL"); interval != "" {
		c.Dashboard.RefreshInterval = ParseDurationWithFallback(interval, c.Dashboard.RefreshInterval)
	}
	if ceiling := os.Getenv("DASH_BATCH_CEILING"); ceiling != "" {
		c.Dashboard.BatchCeiling = ParseIntWithFallback(ceiling, c.Dashboard.BatchCeiling)
	}

	// Validation configuration
	if minLen := os.Getenv("DASH_VALIDATION_TITLE_MIN"); minLen != "" {
		c.Validation.TitleMinLength = ParseIntWithFallback(minLen, c.Validation.TitleMinLength)
	}
	if maxLen := os.Getenv("DASH_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}

	// Application configuration
	if env := os.Getenv("DASH_ENV"); env != "" {
		c.Application.Env = env
	}
	if timeout := os.Getenv("DASH_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("DASH_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// ParseProjectList parses "name[:team[:display]]" entries separated by commas
func ParseProjectList(s string) []ProjectConfig {
	var projects []ProjectConfig
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		p := ProjectConfig{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			p.Team = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			p.DisplayName = strings.TrimSpace(parts[2])
		}
		projects = append(projects, p)
	}
	return projects
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	default:
		return &ConfigError{Field: "storage.driver", Message: "storage driver must be sqlite or memory"}
	}
	if c.Storage.Driver == DriverSQLite {
		if c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
		}
		if c.Storage.Filename == "" {
			return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
		}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	if c.HTTP.Timeout <= 0 {
		return &ConfigError{Field: "http.timeout", Message: "http timeout must be positive"}
	}

	for i, p := range c.DevOps.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return &ConfigError{Field: "devops.projects[" + strconv.Itoa(i) + "].name", Message: "project name cannot be empty"}
		}
	}

	if c.Chat.DefaultLimit < 1 {
		return &ConfigError{Field: "chat.default_limit", Message: "default rate limit must be at least 1"}
	}
	if c.News.PageSize < 1 || c.News.PageSize > 100 {
		return &ConfigError{Field: "news.page_size", Message: "page size must be between 1 and 100"}
	}

	// Validate dashboard configuration
	if c.Dashboard.SoftTimeout <= 0 {
		return &ConfigError{Field: "dashboard.soft_timeout", Message: "soft timeout must be positive"}
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return &ConfigError{Field: "dashboard.refresh_interval", Message: "refresh interval must be positive"}
	}
	if c.Dashboard.BatchCeiling < 1 || c.Dashboard.BatchCeiling > 200 {
		return &ConfigError{Field: "dashboard.batch_ceiling", Message: "batch ceiling must be between 1 and 200"}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be greater than minimum length"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
