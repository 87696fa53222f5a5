// Package config provides configuration management for labops.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with LABOPS_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.labops/config.yaml, /etc/labops/config.yaml)
//  3. .env file (exported into the process environment)
//  4. Environment variables
//
// # Environment Variables
//
// Use the LABOPS_ prefix and underscores for nested keys:
//   - LABOPS_API_BASE_URL=https://inventory.example.com
//   - LABOPS_CACHE_TTL=10m
//   - LABOPS_LOGGING_LEVEL=debug
//
// API_BASE_URL and API_KEY are honoured as well, so existing .env files keep
// working.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"evalgo.org/labops/internal/cache"
)

// Config is the root configuration structure for labops.
type Config struct {
	// API contains inventory service connection settings
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Cache contains response cache settings
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// TUI contains terminal UI settings
	TUI TUIConfig `mapstructure:"tui" yaml:"tui"`
}

// APIConfig contains inventory service connection settings.
type APIConfig struct {
	// BaseURL is the service root (default: http://127.0.0.1:8000)
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	// Key is sent in the X-Api-Key header
	Key string `mapstructure:"key" yaml:"key"`

	// Timeout bounds each request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`

	// InsecureSkipVerify disables TLS certificate checks
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// RateLimit is the maximum requests per second (0 disables pacing)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`

	// Burst is the number of requests allowed above RateLimit at once
	Burst int `mapstructure:"burst" yaml:"burst" validate:"gte=0"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Path    string        `mapstructure:"path" yaml:"path" validate:"required_if=Enabled true"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is auto, console or json. auto picks console on a terminal.
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=auto console json"`

	// Output is stderr, stdout or a file path
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// LogFile receives log output while the TUI owns the terminal
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
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
		v.AddConfigPath("$HOME/.labops")
		v.AddConfigPath("/etc/labops")
	}

	if err := v.ReadInConfig(); err != nil {
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

	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !isFileNotFoundError(err) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v.SetEnvPrefix("LABOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.base_url", "LABOPS_API_BASE_URL", "API_BASE_URL")
	_ = v.BindEnv("api.key", "LABOPS_API_KEY", "API_KEY")

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
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

// Defaults returns every configuration key with its default value.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"api.base_url":             "http://127.0.0.1:8000",
		"api.key":                  "mock-secret-token",
		"api.timeout":              "30s",
		"api.insecure_skip_verify": true,
		"api.rate_limit":           10.0,
		"api.burst":                5,

		"cache.enabled": true,
		"cache.path":    cache.DefaultPath(),
		"cache.ttl":     "300s",

		"logging.level":  "warn",
		"logging.format": "auto",
		"logging.output": "stderr",

		"tui.log_file": filepath.Join(os.TempDir(), "labops_tui.log"),
	}
}

var validate = func() func(*Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return func(c *Config) error {
		err := v.Struct(c)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			// Namespace is "Config.api.base_url"; drop the root type name.
			key := fe.Namespace()
			if i := strings.IndexByte(key, '.'); i >= 0 {
				key = key[i+1:]
			}
			msgs = append(msgs, fmt.Sprintf("%s: failed %q validation (value %v)", key, fe.Tag(), fe.Value()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
}()

// Get returns the configuration from the last successful Load.
func Get() *Config {
	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.API.Key != "" {
		c.API.Key = "********"
	}
	return c
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
