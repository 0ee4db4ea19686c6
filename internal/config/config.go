// Package config loads webpcheck settings from the environment.
package config

import (
	"fmt"

	bkconfig "github.com/gobeaver/beaver-kit/config"
)

// Config holds the settings shared by the CLI commands. Values come from
// BEAVER_WEBPCHECK_* environment variables; command-line flags override
// them.
type Config struct {
	// Number of files validated concurrently
	Workers int `env:"WEBPCHECK_WORKERS,default:4"`

	// Base-name pattern for files found while walking directories
	Include string `env:"WEBPCHECK_INCLUDE,default:*.webp"`

	// Largest accepted input in bytes, 0 for unlimited
	MaxFileSize int64 `env:"WEBPCHECK_MAX_FILE_SIZE,default:33554432"` // 32MB default

	// Reject bytes after the declared RIFF extent
	Strict bool `env:"WEBPCHECK_STRICT,default:false"`

	LogLevel string `env:"WEBPCHECK_LOG_LEVEL,default:info"`

	// HTTP listen address for the serve command, see ListenAddr
	Addr string `env:"WEBPCHECK_ADDR"`
}

// DefaultAddr is the listen address used when Addr is unset.
const DefaultAddr = ":8080"

// ListenAddr returns Addr, or DefaultAddr when it is empty.
func (c *Config) ListenAddr() string {
	if c.Addr == "" {
		return DefaultAddr
	}
	return c.Addr
}

// Load returns the config read from the environment with the default
// BEAVER_ prefix.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := bkconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid config: workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("invalid config: max file size must not be negative, got %d", c.MaxFileSize)
	}
	if c.Include == "" {
		return fmt.Errorf("invalid config: include pattern is empty")
	}
	return nil
}
