// Package config provides configuration loading and management for semottr.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/semstreams/pkg/retry"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semottr configuration
type Config struct {
	Expansion ExpansionConfig `yaml:"expansion"`
	Fetch     FetchConfig     `yaml:"fetch"`
	// Prefixes are added to the OTTR default prefixes for rendering
	Prefixes map[string]string `yaml:"prefixes"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// ExpansionConfig configures the expander
type ExpansionConfig struct {
	// MaxDepth bounds template nesting (0 = unbounded)
	MaxDepth int `yaml:"max_depth"`
	// ValidateInstances validates root instances before expansion (default: true)
	ValidateInstances *bool `yaml:"validate_instances,omitempty"`
}

// FetchConfig configures missing-dependency resolution
type FetchConfig struct {
	// Include lists IRI glob patterns that may be fetched (empty = all)
	Include []string `yaml:"include"`
	// Exclude lists IRI glob patterns that are never fetched
	Exclude []string `yaml:"exclude"`
	// MaxRounds bounds the fetch rounds per call (0 = unbounded)
	MaxRounds int `yaml:"max_rounds"`
	// Retry configures retries of transient fetch failures
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig mirrors retry.Config in YAML form
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	defaults := retry.DefaultConfig()
	return &Config{
		Expansion: ExpansionConfig{
			MaxDepth: 0, // Unbounded
		},
		Fetch: FetchConfig{
			MaxRounds: 0, // Until no progress
			Retry: RetryConfig{
				MaxAttempts:  defaults.MaxAttempts,
				InitialDelay: defaults.InitialDelay,
				MaxDelay:     defaults.MaxDelay,
				Multiplier:   defaults.Multiplier,
			},
		},
		LogLevel: "info",
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Expansion.MaxDepth < 0 {
		return fmt.Errorf("expansion.max_depth must not be negative")
	}
	if c.Fetch.MaxRounds < 0 {
		return fmt.Errorf("fetch.max_rounds must not be negative")
	}
	for _, pattern := range c.Fetch.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("fetch.include: invalid pattern %q", pattern)
		}
	}
	for _, pattern := range c.Fetch.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("fetch.exclude: invalid pattern %q", pattern)
		}
	}
	r := c.Fetch.Retry
	if r.MaxAttempts < 0 {
		return fmt.Errorf("fetch.retry.max_attempts must not be negative")
	}
	if r.InitialDelay < 0 || r.MaxDelay < 0 {
		return fmt.Errorf("fetch.retry delays must not be negative")
	}
	if r.MaxDelay > 0 && r.MaxDelay < r.InitialDelay {
		return fmt.Errorf("fetch.retry.max_delay must be >= initial_delay")
	}
	if r.Multiplier < 0 {
		return fmt.Errorf("fetch.retry.multiplier must not be negative")
	}
	for prefix, ns := range c.Prefixes {
		if prefix == "" || ns == "" {
			return fmt.Errorf("prefixes: empty prefix or namespace (%q: %q)", prefix, ns)
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Validation reports whether root instances are validated
func (e ExpansionConfig) Validation() bool {
	return e.ValidateInstances == nil || *e.ValidateInstances
}

// RetryPolicy converts the retry settings for retry.Do
func (f FetchConfig) RetryPolicy() retry.Config {
	return retry.Config{
		MaxAttempts:  f.Retry.MaxAttempts,
		InitialDelay: f.Retry.InitialDelay,
		MaxDelay:     f.Retry.MaxDelay,
		Multiplier:   f.Retry.Multiplier,
		AddJitter:    true,
	}
}

// ParseLogLevel maps a log_level value to a slog level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", level)
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Parse parses YAML configuration on top of the defaults
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Expansion
	if other.Expansion.MaxDepth != 0 {
		c.Expansion.MaxDepth = other.Expansion.MaxDepth
	}
	if other.Expansion.ValidateInstances != nil {
		v := *other.Expansion.ValidateInstances
		c.Expansion.ValidateInstances = &v
	}

	// Fetch
	if len(other.Fetch.Include) > 0 {
		c.Fetch.Include = other.Fetch.Include
	}
	if len(other.Fetch.Exclude) > 0 {
		c.Fetch.Exclude = other.Fetch.Exclude
	}
	if other.Fetch.MaxRounds != 0 {
		c.Fetch.MaxRounds = other.Fetch.MaxRounds
	}
	if other.Fetch.Retry.MaxAttempts != 0 {
		c.Fetch.Retry.MaxAttempts = other.Fetch.Retry.MaxAttempts
	}
	if other.Fetch.Retry.InitialDelay != 0 {
		c.Fetch.Retry.InitialDelay = other.Fetch.Retry.InitialDelay
	}
	if other.Fetch.Retry.MaxDelay != 0 {
		c.Fetch.Retry.MaxDelay = other.Fetch.Retry.MaxDelay
	}
	if other.Fetch.Retry.Multiplier != 0 {
		c.Fetch.Retry.Multiplier = other.Fetch.Retry.Multiplier
	}

	// Prefixes are combined
	if len(other.Prefixes) > 0 {
		merged := make(map[string]string, len(c.Prefixes)+len(other.Prefixes))
		for k, v := range c.Prefixes {
			merged[k] = v
		}
		for k, v := range other.Prefixes {
			merged[k] = v
		}
		c.Prefixes = merged
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
