package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lifesystem/adapters/memory"
	"lifesystem/adapters/redis"
	"lifesystem/adapters/sqlx"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds the complete application configuration
type Config struct {
	// Environment and profile settings
	Environment Environment `json:"environment" yaml:"environment" env:"LIFESYSTEM_ENV"`
	Profile     string      `json:"profile" yaml:"profile" env:"LIFESYSTEM_PROFILE"`

	Server        ServerConfig        `json:"server" yaml:"server"`
	Storage       StorageConfig       `json:"storage" yaml:"storage"`
	Engine        EngineConfig        `json:"engine" yaml:"engine"`
	Logging       LoggingConfig       `json:"logging" yaml:"logging"`
	Security      SecurityConfig      `json:"security" yaml:"security"`
	Notifications NotificationsConfig `json:"notifications" yaml:"notifications"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address           string        `json:"address" yaml:"address" env:"LIFESYSTEM_SERVER_ADDR"`
	PathPrefix        string        `json:"path_prefix" yaml:"path_prefix" env:"LIFESYSTEM_SERVER_PATH_PREFIX"`
	CORSOrigin        string        `json:"cors_origin" yaml:"cors_origin" env:"LIFESYSTEM_SERVER_CORS_ORIGIN"`
	ReadTimeout       time.Duration `json:"read_timeout" yaml:"read_timeout" env:"LIFESYSTEM_SERVER_READ_TIMEOUT"`
	WriteTimeout      time.Duration `json:"write_timeout" yaml:"write_timeout" env:"LIFESYSTEM_SERVER_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `json:"idle_timeout" yaml:"idle_timeout" env:"LIFESYSTEM_SERVER_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout" env:"LIFESYSTEM_SERVER_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"LIFESYSTEM_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig holds storage adapter configuration
type StorageConfig struct {
	Adapter string       `json:"adapter" yaml:"adapter" env:"LIFESYSTEM_STORAGE_ADAPTER"`
	Slot    string       `json:"slot" yaml:"slot" env:"LIFESYSTEM_STORAGE_SLOT"`
	Redis   redis.Config `json:"redis,omitempty" yaml:"redis"`
	SQL     sqlx.Config  `json:"sql,omitempty" yaml:"sql"`
	File    FileConfig   `json:"file,omitempty" yaml:"file"`
}

// FileConfig holds JSON file storage configuration
type FileConfig struct {
	Path string `json:"path" yaml:"path" env:"LIFESYSTEM_STORAGE_FILE_PATH"`
}

// EngineConfig tunes the progression engine.
type EngineConfig struct {
	PlayerName   string        `json:"player_name" yaml:"player_name" env:"LIFESYSTEM_PLAYER_NAME"`
	Timezone     string        `json:"timezone" yaml:"timezone" env:"LIFESYSTEM_TIMEZONE"`
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval" env:"LIFESYSTEM_TICK_INTERVAL"`
	Dispatch     string        `json:"dispatch" yaml:"dispatch" env:"LIFESYSTEM_DISPATCH"`
	// Seed makes quest draws and attribute growth reproducible when non-zero.
	Seed uint64 `json:"seed,omitempty" yaml:"seed" env:"LIFESYSTEM_SEED"`
}

// Location resolves Timezone. Empty means the host's local zone.
func (e EngineConfig) Location() (*time.Location, error) {
	if e.Timezone == "" || strings.EqualFold(e.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(e.Timezone)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string            `json:"level" yaml:"level" env:"LIFESYSTEM_LOG_LEVEL"`
	Format     string            `json:"format" yaml:"format" env:"LIFESYSTEM_LOG_FORMAT"`
	Output     string            `json:"output" yaml:"output" env:"LIFESYSTEM_LOG_OUTPUT"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes" env:"LIFESYSTEM_LOG_ATTRIBUTES"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	EnableRateLimit bool            `json:"enable_rate_limit" yaml:"enable_rate_limit" env:"LIFESYSTEM_SECURITY_RATE_LIMIT_ENABLED"`
	RateLimit       RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit"`
	APIKeys         []string        `json:"api_keys,omitempty" yaml:"api_keys" env:"LIFESYSTEM_SECURITY_API_KEYS"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute" yaml:"requests_per_minute" env:"LIFESYSTEM_SECURITY_RATE_LIMIT_RPM"`
	BurstSize         int           `json:"burst_size" yaml:"burst_size" env:"LIFESYSTEM_SECURITY_RATE_LIMIT_BURST"`
	CleanupInterval   time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" env:"LIFESYSTEM_SECURITY_RATE_LIMIT_CLEANUP"`
}

// NotificationsConfig lists endpoints that receive every event as a JSON POST.
type NotificationsConfig struct {
	Webhooks []string      `json:"webhooks,omitempty" yaml:"webhooks" env:"LIFESYSTEM_WEBHOOKS"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" env:"LIFESYSTEM_WEBHOOK_TIMEOUT"`
}

// Validate validates security settings.
func (s SecurityConfig) Validate() error {
	var errs []string
	if s.EnableRateLimit {
		if s.RateLimit.RequestsPerMinute <= 0 {
			errs = append(errs, "rate_limit.requests_per_minute must be > 0 when rate limiting is enabled")
		}
		if s.RateLimit.BurstSize <= 0 {
			errs = append(errs, "rate_limit.burst_size must be > 0 when rate limiting is enabled")
		}
	}
	for i, key := range s.APIKeys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Sprintf("api_keys[%d] is empty", i))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadProfile returns the defaults of a named environment profile,
// overridden by environment variables.
func LoadProfile(name string) (*Config, error) {
	cfg, ok := profile(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func profile(name string) (*Config, bool) {
	cfg := DefaultConfig()
	cfg.Profile = name
	switch Environment(name) {
	case EnvDevelopment:
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	case EnvTesting:
		cfg.Environment = EnvTesting
		cfg.Logging.Level = "warn"
	case EnvStaging:
		cfg.Environment = EnvStaging
		cfg.Storage.Adapter = "file"
	case EnvProduction:
		cfg.Environment = EnvProduction
		cfg.Storage.Adapter = "file"
		cfg.Security.EnableRateLimit = true
	default:
		return nil, false
	}
	return cfg, true
}

// validateConfigPath validates that the config file path is safe
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("config file path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".json", ".yaml", ".yml":
	default:
		return errors.New("config file must have .json, .yaml or .yml extension")
	}

	if _, err := os.Stat(cleanPath); err != nil {
		return fmt.Errorf("config file not accessible: %w", err)
	}

	return nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	file, err := os.Open(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Environment variables override file values
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// DefaultConfig returns a configuration with sensible defaults for development
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Profile:     "default",
		Server: ServerConfig{
			Address:           "127.0.0.1:8080",
			PathPrefix:        "/api",
			CORSOrigin:        "*",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Storage: StorageConfig{
			Adapter: "memory",
			Slot:    memory.DefaultSlot,
			Redis:   redis.DefaultConfig(),
			SQL:     sqlx.DefaultConfig(sqlx.DriverSQLite),
			File: FileConfig{
				Path: "./data/lifesystem.json",
			},
		},
		Engine: EngineConfig{
			PlayerName:   "Champion",
			TickInterval: time.Second,
			Dispatch:     "async",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			EnableRateLimit: false,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				BurstSize:         10,
				CleanupInterval:   5 * time.Minute,
			},
			APIKeys: []string{},
		},
		Notifications: NotificationsConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Validate validates the configuration and returns detailed error messages
func (c *Config) Validate() error {
	var errs []string

	if c.Environment == "" {
		errs = append(errs, "environment cannot be empty")
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("engine config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Notifications.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notifications config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// String returns a JSON representation of the config (with secrets redacted)
func (c *Config) String() string {
	cfg := *c

	if cfg.Storage.SQL.DSN != "" {
		cfg.Storage.SQL.DSN = "[REDACTED]"
	}
	if cfg.Storage.Redis.Password != "" {
		cfg.Storage.Redis.Password = "[REDACTED]"
	}
	if len(cfg.Security.APIKeys) > 0 {
		keys := make([]string, len(cfg.Security.APIKeys))
		for i := range keys {
			keys[i] = "[REDACTED]"
		}
		cfg.Security.APIKeys = keys
	}

	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}
