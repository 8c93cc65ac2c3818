package config

import "time"

// Output controls how program output reaches stdout.
type Output struct {
	Buffered bool `yaml:"buffered" toml:"buffered"`
}

// Metrics controls Prometheus metrics export.
type Metrics struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Textfile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// Watch controls `tape watch`.
type Watch struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Config represents .tape/config.yaml (or a file passed with --config).
type Config struct {
	LogLevel  string  `yaml:"log_level" toml:"log_level"`
	JumpTable bool    `yaml:"jump_table" toml:"jump_table"`
	Output    Output  `yaml:"output" toml:"output"`
	Metrics   Metrics `yaml:"metrics" toml:"metrics"`
	Watch     Watch   `yaml:"watch" toml:"watch"`
}

// DebounceInterval returns the watch debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Config file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)
