// ABOUTME: Configuration loading and parsing for emberchat
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSessionTTL is applied when auth.session_ttl is not configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// DefaultModel is used when model.name is not configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultHistoryLimit caps how many stored messages are forwarded as model context.
const DefaultHistoryLimit = 40

// Config represents the complete emberchat configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Blob     BlobConfig     `yaml:"blob"`
	Model    ModelConfig    `yaml:"model"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
// MasterPassword may be plaintext or a bcrypt hash ($2a$/$2b$/$2y$ prefix).
type AuthConfig struct {
	MasterPassword string        `yaml:"master_password"`
	SessionTTL     time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	SessionTTLRaw string `yaml:"session_ttl"`
}

// BlobConfig holds object storage configuration.
// Endpoint points at any S3-compatible service; for Cloudflare R2 this is
// https://<account>.r2.cloudflarestorage.com with region "auto".
type BlobConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ModelConfig holds generative model configuration
type ModelConfig struct {
	Name         string `yaml:"name"`
	HistoryLimit int    `yaml:"history_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// The master password may legitimately be empty at load time (login then
	// fails with a configuration error), but a partially configured blob
	// section is always a mistake.
	if c.Blob.Endpoint != "" || c.Blob.Bucket != "" {
		if c.Blob.Endpoint == "" {
			return fmt.Errorf("blob.endpoint is required when blob storage is configured")
		}
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required when blob storage is configured")
		}
		if c.Blob.AccessKeyID == "" || c.Blob.SecretAccessKey == "" {
			return fmt.Errorf("blob.access_key_id and blob.secret_access_key are required when blob storage is configured")
		}
	}

	if c.Model.HistoryLimit < 0 {
		return fmt.Errorf("model.history_limit must not be negative")
	}

	return nil
}

// BlobEnabled reports whether an object storage backend is configured.
func (c *Config) BlobEnabled() bool {
	return c.Blob.Endpoint != "" && c.Blob.Bucket != ""
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Auth.SessionTTLRaw != "" {
		ttl, err := time.ParseDuration(cfg.Auth.SessionTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session_ttl %q: %w", cfg.Auth.SessionTTLRaw, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("session_ttl must be positive, got %q", cfg.Auth.SessionTTLRaw)
		}
		cfg.Auth.SessionTTL = ttl
	}

	return nil
}

// applyDefaults fills in values the file may omit
func applyDefaults(cfg *Config) {
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = DefaultSessionTTL
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModel
	}
	if cfg.Model.HistoryLimit == 0 {
		cfg.Model.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Blob.Region == "" {
		cfg.Blob.Region = "auto"
	}
}
