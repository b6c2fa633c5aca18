package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the TOML file.
const (
	EnvDatabasePath = "ALBUMDASH_DB"
	EnvStorageKey   = "ALBUMDASH_STORAGE_KEY"
	EnvLogLevel     = "ALBUMDASH_LOG_LEVEL"
	EnvThreshold    = "ALBUMDASH_THRESHOLD"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Album   AlbumConfig   `toml:"album"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// AlbumConfig holds the defaults applied before anything has been saved.
type AlbumConfig struct {
	Title     string `toml:"title"`
	Deadline  string `toml:"deadline"`
	Threshold int    `toml:"threshold"`
}

// StorageConfig contains database settings and the record key.
type StorageConfig struct {
	Path         string `toml:"path"`
	Key          string `toml:"key"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig controls log level and the rotating file used by the TUI.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DeadlineTime parses the configured default deadline, falling back to [DefaultDeadline].
func (a AlbumConfig) DeadlineTime() time.Time {
	if t, err := ParseDeadline(a.Deadline, time.UTC); err == nil {
		return t
	}
	return DefaultDeadline
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
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

// ApplyEnv loads envFile (if present) into the process environment and applies overrides to c.
//
// Variables already set in the environment win over the file.
func (c *Config) ApplyEnv(envFile string) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		}
	}

	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvStorageKey); v != "" {
		c.Storage.Key = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Album.Threshold = n
		}
	}
}
