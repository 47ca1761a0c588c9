// Package config provides configuration management for Tessella.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with TS_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./configs/config.yaml, ~/.tessella/config.yaml, /etc/tessella/config.yaml)
//  3. .env files
//  4. Environment variables (TS_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use TS_ prefix and underscores for nested keys:
//   - TS_SERVER_PORT=8201
//   - TS_VAULT_HISTORY_LIMIT=200
//   - TS_LOGGING_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for Tessella.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Vault contains vault behavior settings
	Vault VaultConfig `mapstructure:"vault"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`

	// Security contains CORS and rate limiting settings
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: localhost)
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 8201)
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging and additional endpoints
	Debug bool `mapstructure:"debug"`
}

// VaultConfig contains vault behavior settings.
type VaultConfig struct {
	// HistoryLimit is the maximum number of undo steps kept (default: 100)
	HistoryLimit int `mapstructure:"history_limit"`

	// ValidateOnLoad runs JSON-LD expansion over documents before they are
	// normalized (default: false; expansion may fetch remote contexts)
	ValidateOnLoad bool `mapstructure:"validate_on_load"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, console)
	Format string `mapstructure:"format"`
}

// SecurityConfig contains CORS and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TS_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tessella")
		v.AddConfigPath("/etc/tessella")
	}

	if err := v.ReadInConfig(); err != nil {
		// If config file was explicitly specified, fail on any error other
		// than "file not found"; for auto-discovery, only fail on
		// non-NotFound errors.
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("TS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8201)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("vault.history_limit", 100)
	v.SetDefault("vault.validate_on_load", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Vault.HistoryLimit < 1 {
		return fmt.Errorf("invalid vault history limit: %d", cfg.Vault.HistoryLimit)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
