package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Extension ExtensionConfig `toml:"extension"`
	Database  DatabaseConfig  `toml:"database"`
	Sync      SyncConfig      `toml:"sync"`
	Log       LogConfig       `toml:"log"`
}

// ExtensionConfig describes the simulated host the extension runs in.
type ExtensionConfig struct {
	Version         string  `toml:"version"`
	UILanguage      string  `toml:"ui_language"`
	UserAgent       string  `toml:"user_agent"`
	BaseURL         string  `toml:"base_url"`
	OnboardingPath  string  `toml:"onboarding_path"`
	OpenBrowser     bool    `toml:"open_browser"`
	ReloadPerMinute float64 `toml:"reload_per_minute"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig selects the backend for the synced settings area.
//
// Endpoint overrides the DynamoDB endpoint (e.g. dynamodb-local).
type SyncConfig struct {
	Backend  string `toml:"backend"`
	Table    string `toml:"table"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the fields the lifecycle and storage layers depend on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Extension.Version) == "" {
		return fmt.Errorf("%w: extension.version is required", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}

	switch c.Sync.Backend {
	case "", BackendSQLite:
	case BackendDynamoDB:
		if c.Sync.Table == "" {
			return fmt.Errorf("%w: sync.table is required for the dynamodb backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Sync.Backend)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
