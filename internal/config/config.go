// Package config loads csvtable CLI settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-csvtable/pkg/csvtable"
)

// Config represents the csvtable CLI configuration. A nil Header means
// the file did not say; a sniffed dialect may then decide it.
type Config struct {
	Delimiter string  `yaml:"delimiter"`
	Quote     string  `yaml:"quote"`
	Header    *bool   `yaml:"header,omitempty"`
	ChunkSize int     `yaml:"chunk_size"`
	Workers   int     `yaml:"workers"`
	TrimBOM   bool    `yaml:"trim_bom"`
	Logging   Logging `yaml:"logging"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Delimiter: ",",
		Quote:     "\"",
		ChunkSize: csvtable.DefaultOptions().ChunkSize,
		Logging: Logging{
			Level: "warn",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Options converts the configuration into parser options. The logger is
// attached by the caller.
func (c *Config) Options() (csvtable.Options, error) {
	delim, err := singleByte("delimiter", c.Delimiter)
	if err != nil {
		return csvtable.Options{}, err
	}
	quote, err := singleByte("quote", c.Quote)
	if err != nil {
		return csvtable.Options{}, err
	}

	return csvtable.Options{
		Delimiter: delim,
		Quote:     quote,
		Header:    c.HeaderSet() && *c.Header,
		ChunkSize: c.ChunkSize,
		Workers:   c.Workers,
		TrimBOM:   c.TrimBOM,
	}, nil
}

// HeaderSet reports whether Header was given explicitly.
func (c *Config) HeaderSet() bool {
	return c.Header != nil
}

// AutoDelimiter reports whether the delimiter is to be sniffed from the
// input. Options leaves Delimiter zero in that case.
func (c *Config) AutoDelimiter() bool {
	return strings.EqualFold(c.Delimiter, "auto")
}

// singleByte accepts one byte, or the escapes \t and "tab" for a tab.
// An empty value or "auto" selects the parser default.
func singleByte(name, v string) (byte, error) {
	switch strings.ToLower(v) {
	case "", "auto":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("%s must be a single byte, got %q", name, v)
	}
	return v[0], nil
}

// LogLevel parses Logging.Level. Unknown levels are an error.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", c.Logging.Level)
}
