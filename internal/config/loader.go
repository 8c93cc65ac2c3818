package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/thruflo/tape/internal/logging"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultLogLevel   = "warn"
	DefaultJumpTable  = true
	DefaultBuffered   = true
	DefaultDebounceMS = 100
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:  DefaultLogLevel,
		JumpTable: DefaultJumpTable,
		Output:    Output{Buffered: DefaultBuffered},
		Watch:     Watch{DebounceMS: DefaultDebounceMS},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// DefaultPath returns the config file looked up when --config is not given.
func DefaultPath(basePath string) string {
	return filepath.Join(basePath, ".tape", "config.yaml")
}

// LoadConfig reads .tape/config.yaml from the given base path.
// If the file doesn't exist, returns default config.
func LoadConfig(basePath string) (*Config, error) {
	cfg, err := LoadConfigFile(DefaultPath(basePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := DefaultConfig()
			return &def, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses the config file at path. The format is
// chosen from the extension: .yaml and .yml are YAML, .toml is TOML.
// Fields missing from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported config file extension: %q", filepath.Ext(path))
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	if cfg.Watch.DebounceMS < 0 {
		return ValidationError{Field: "watch.debounce_ms", Message: "must not be negative"}
	}
	if cfg.Metrics.Textfile != "" && !cfg.Metrics.Enabled {
		return ValidationError{Field: "metrics.textfile", Message: "requires metrics.enabled"}
	}
	return nil
}

// Level returns the parsed log level. Call after ValidateConfig.
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
