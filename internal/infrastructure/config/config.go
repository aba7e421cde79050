// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	port := cfg.Server.Port
//	ttl := cfg.Idempotency.TTL()
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to unset or out-of-range values.
const (
	DefaultPort                = 8080
	DefaultReadTimeoutSeconds  = 15
	DefaultWriteTimeoutSeconds = 15
	DefaultMaxRequestBytes     = 2_000_000
	DefaultExplainLimit        = 1000
	DefaultMaxExplainLimit     = 5000
	DefaultMaxEntries          = 10000
	DefaultExpireAfterSeconds  = 600
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Limits        LimitsConfig        `yaml:"limits"`
	Idempotency   IdempotencyConfig   `yaml:"idempotency"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port                int      `yaml:"port"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
}

// LimitsConfig bounds request sizes and explanation lengths
type LimitsConfig struct {
	MaxRequestBytes     int64 `yaml:"max_request_bytes"`
	DefaultExplainLimit int   `yaml:"default_explain_limit"`
	MaxExplainLimit     int   `yaml:"max_explain_limit"`
}

// IdempotencyConfig holds the idempotency cache settings
type IdempotencyConfig struct {
	MaxEntries         int `yaml:"max_entries"`
	ExpireAfterSeconds int `yaml:"expire_after_seconds"`
}

// TTL returns the expire-after-write duration.
func (c IdempotencyConfig) TTL() time.Duration {
	return time.Duration(c.ExpireAfterSeconds) * time.Second
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${PORT})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:                getEnvInt("PORT", DefaultPort),
			ReadTimeoutSeconds:  getEnvInt("READ_TIMEOUT_SECONDS", DefaultReadTimeoutSeconds),
			WriteTimeoutSeconds: getEnvInt("WRITE_TIMEOUT_SECONDS", DefaultWriteTimeoutSeconds),
		},
		Limits: LimitsConfig{
			MaxRequestBytes:     int64(getEnvInt("MAX_REQUEST_BYTES", DefaultMaxRequestBytes)),
			DefaultExplainLimit: getEnvInt("DEFAULT_EXPLAIN_LIMIT", DefaultExplainLimit),
			MaxExplainLimit:     getEnvInt("MAX_EXPLAIN_LIMIT", DefaultMaxExplainLimit),
		},
		Idempotency: IdempotencyConfig{
			MaxEntries:         getEnvInt("IDEMPOTENCY_MAX_ENTRIES", DefaultMaxEntries),
			ExpireAfterSeconds: getEnvInt("IDEMPOTENCY_EXPIRE_AFTER_SECONDS", DefaultExpireAfterSeconds),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "console"),
			},
		},
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.ApplyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// ApplyDefaults replaces unset or invalid values with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = DefaultReadTimeoutSeconds
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = DefaultWriteTimeoutSeconds
	}

	if c.Limits.MaxRequestBytes <= 0 {
		c.Limits.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if c.Limits.MaxExplainLimit <= 0 {
		c.Limits.MaxExplainLimit = DefaultMaxExplainLimit
	}
	if c.Limits.DefaultExplainLimit <= 0 {
		c.Limits.DefaultExplainLimit = DefaultExplainLimit
	}
	c.Limits.DefaultExplainLimit = min(c.Limits.DefaultExplainLimit, c.Limits.MaxExplainLimit)

	// Both idempotency settings have a floor of 1.
	if c.Idempotency.MaxEntries <= 0 {
		c.Idempotency.MaxEntries = DefaultMaxEntries
	}
	if c.Idempotency.ExpireAfterSeconds <= 0 {
		c.Idempotency.ExpireAfterSeconds = DefaultExpireAfterSeconds
	}

	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "console"
	}
}

// Addr returns the listen address for the server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
