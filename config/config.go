// Package config loads the schemawire CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/source/gojson"
)

// Config is the root configuration structure.
type Config struct {
	Schema  SchemaConfig  `yaml:"schema"`
	Decode  DecodeConfig  `yaml:"decode"`
	Logging LoggingConfig `yaml:"logging"`
	Lang    string        `yaml:"lang"` // message language, e.g. "en" or "ja"
}

// SchemaConfig selects where registered types come from.
type SchemaConfig struct {
	// Source is "github" for the built-in shapes or a path to an OpenAPI
	// document (.json, .yaml, .yml).
	Source string `yaml:"source"`
	// Include limits an OpenAPI import to these names and their references.
	Include []string `yaml:"include,omitempty"`
	// Strict rejects duplicate keys in the OpenAPI document.
	Strict bool `yaml:"strict"`
	// Merge also registers the built-in shapes next to an imported document.
	Merge bool `yaml:"merge"`
}

// DecodeConfig controls input handling.
type DecodeConfig struct {
	Driver        string `yaml:"driver"` // "encoding/json" or "go-json"
	MaxDepth      int   `yaml:"max_depth"`
	MaxBytes      int64 `yaml:"max_bytes"`
	DuplicateKeys string `yaml:"duplicate_keys"` // "ignore", "warn" or "error"
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// SourceGitHub names the built-in GitHub shapes.
const SourceGitHub = "github"

// Load reads configuration from a YAML file. An empty path loads defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Expand environment variables
		data = []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies SCHEMAWIRE_* environment variables. Environment
// variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCHEMAWIRE_SCHEMA"); v != "" {
		cfg.Schema.Source = v
	}
	if v := os.Getenv("SCHEMAWIRE_DRIVER"); v != "" {
		cfg.Decode.Driver = v
	}
	if v := os.Getenv("SCHEMAWIRE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Decode.MaxDepth = n
		}
	}
	if v := os.Getenv("SCHEMAWIRE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCHEMAWIRE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SCHEMAWIRE_LANG"); v != "" {
		cfg.Lang = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Schema.Source == "" {
		cfg.Schema.Source = SourceGitHub
	}
	if cfg.Decode.Driver == "" {
		cfg.Decode.Driver = sw.DefaultDriverName
	}
	if cfg.Decode.MaxDepth == 0 {
		cfg.Decode.MaxDepth = sw.DefaultMaxDepth
	}
	if cfg.Decode.DuplicateKeys == "" {
		cfg.Decode.DuplicateKeys = "ignore"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	switch c.Decode.Driver {
	case sw.DefaultDriverName, gojson.Name:
	default:
		errs = append(errs, fmt.Errorf("decode.driver must be %q or %q, got %q", sw.DefaultDriverName, gojson.Name, c.Decode.Driver))
	}
	if _, err := c.DuplicateKeySeverity(); err != nil {
		errs = append(errs, err)
	}
	if c.Decode.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("decode.max_bytes must not be negative, got %d", c.Decode.MaxBytes))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// DuplicateKeySeverity maps decode.duplicate_keys to a decoder severity.
func (c *Config) DuplicateKeySeverity() (sw.Severity, error) {
	switch strings.ToLower(c.Decode.DuplicateKeys) {
	case "", "ignore":
		return sw.Ignore, nil
	case "warn":
		return sw.Warn, nil
	case "error":
		return sw.Error, nil
	}
	return sw.Ignore, fmt.Errorf("decode.duplicate_keys must be 'ignore', 'warn' or 'error', got %q", c.Decode.DuplicateKeys)
}

// DecodeOpt returns the decoder options described by the configuration.
func (c *Config) DecodeOpt() sw.DecodeOpt {
	sev, _ := c.DuplicateKeySeverity()
	return sw.DecodeOpt{MaxDepth: c.Decode.MaxDepth, MaxBytes: c.Decode.MaxBytes, OnDuplicateKey: sev}
}

// JSONDriver returns the configured token driver.
func (c *Config) JSONDriver() sw.JSONDriver {
	if c.Decode.Driver == gojson.Name {
		return gojson.Driver()
	}
	return sw.DefaultJSONDriver()
}
