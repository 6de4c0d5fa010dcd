package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ",", config.Delimiter)
	assert.Equal(t, "\"", config.Quote)
	assert.Nil(t, config.Header)
	assert.False(t, config.HeaderSet())
	assert.Equal(t, 1<<20, config.ChunkSize)
	assert.Zero(t, config.Workers)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "csvtable.yaml")
		content := "delimiter: \";\"\nheader: true\nworkers: 3\nlogging:\n  level: debug\n"
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)

		assert.Equal(t, ";", config.Delimiter)
		assert.Equal(t, "\"", config.Quote, "unset keys keep defaults")
		require.True(t, config.HeaderSet())
		assert.True(t, *config.Header)
		assert.Equal(t, 3, config.Workers)
		assert.Equal(t, 1<<20, config.ChunkSize)
		assert.Equal(t, "debug", config.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("header: [unclosed"), 0600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "csvtable.yaml")
	config := DefaultConfig()
	config.Delimiter = "tab"
	config.TrimBOM = true

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var roundTrip Config
	require.NoError(t, yaml.Unmarshal(data, &roundTrip))
	assert.Equal(t, *config, roundTrip)
}

func TestConfigOptions(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		quote     string
		wantDelim byte
		wantQuote byte
		wantErr   bool
	}{
		{name: "defaults", delimiter: ",", quote: "\"", wantDelim: ',', wantQuote: '"'},
		{name: "empty means parser default", wantDelim: 0, wantQuote: 0},
		{name: "tab word", delimiter: "tab", quote: "'", wantDelim: '\t', wantQuote: '\''},
		{name: "tab escape", delimiter: `\t`, wantDelim: '\t'},
		{name: "auto delimiter", delimiter: "AUTO", wantDelim: 0},
		{name: "multi-byte delimiter", delimiter: "::", wantErr: true},
		{name: "multi-byte quote", quote: "«", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Delimiter = tt.delimiter
			config.Quote = tt.quote
			header := true
			config.Header = &header

			opts, err := config.Options()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDelim, opts.Delimiter)
			assert.Equal(t, tt.wantQuote, opts.Quote)
			assert.True(t, opts.Header)
			assert.Equal(t, config.ChunkSize, opts.ChunkSize)
		})
	}
}

func TestHeaderFalseIsExplicit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "csvtable.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("header: false\n"), 0600))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.True(t, config.HeaderSet())

	opts, err := config.Options()
	require.NoError(t, err)
	assert.False(t, opts.Header)

	opts, err = DefaultConfig().Options()
	require.NoError(t, err)
	assert.False(t, opts.Header, "unset header parses without one")
}

func TestAutoDelimiter(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.AutoDelimiter())

	config.Delimiter = "auto"
	assert.True(t, config.AutoDelimiter())
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		config := &Config{Logging: Logging{Level: in}}
		got, err := config.LogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := (&Config{Logging: Logging{Level: "loud"}}).LogLevel()
	assert.Error(t, err)
}
