package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		assert.Equal(t, "./bsx.db", config.Database.Path)
		assert.Equal(t, "1.18.0", config.Extension.Version)
		assert.Equal(t, BackendSQLite, config.Sync.Backend)
		assert.Equal(t, "html/intro.html", config.Extension.OnboardingPath)
		assert.NoError(t, config.Validate())
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		require.NoError(t, CreateConfigFile(configPath))
		_, err := os.Stat(configPath)
		require.NoError(t, err)

		config, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Database.Path, config.Database.Path)

		assert.Error(t, CreateConfigFile(configPath), "creating config file again should fail")
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[extension]
version = "2.1.9"
ui_language = "zh_CN"

[database]
path = "/custom/path.db"

[sync]
backend = "dynamodb"
table = "settings"
endpoint = "http://localhost:8000"
`
		require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)

		assert.Equal(t, "2.1.9", config.Extension.Version)
		assert.Equal(t, "zh_CN", config.Extension.UILanguage)
		assert.Equal(t, "/custom/path.db", config.Database.Path)
		assert.Equal(t, BackendDynamoDB, config.Sync.Backend)
		assert.Equal(t, "http://localhost:8000", config.Sync.Endpoint)
		// Unset keys keep the embedded defaults.
		assert.Equal(t, "html/intro.html", config.Extension.OnboardingPath)
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "missing version", mutate: func(c *Config) { c.Extension.Version = " " }, wantErr: ErrInvalidConfig},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: ErrInvalidConfig},
		{name: "unknown backend", mutate: func(c *Config) { c.Sync.Backend = "redis" }, wantErr: ErrUnknownBackend},
		{name: "dynamodb without table", mutate: func(c *Config) {
			c.Sync.Backend = BackendDynamoDB
			c.Sync.Table = ""
		}, wantErr: ErrInvalidConfig},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
