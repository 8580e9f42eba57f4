// Package config provides configuration management for the questions tools.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

const (
	// DefaultLogLevel is the zerolog level name used when none is configured.
	DefaultLogLevel = "info"

	// DefaultBusyTimeoutMs is how long SQLite waits on a locked file.
	DefaultBusyTimeoutMs = 5000
)

// Config holds the application configuration.
type Config struct {
	DBPath        string `json:"db_path"`
	LogLevel      string `json:"log_level"`
	BusyTimeoutMs int    `json:"busy_timeout_ms"`
	WALMode       bool   `json:"wal_mode"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// DataDir returns the data directory path (~/.questions).
// QUESTIONS_DATA_DIR overrides it.
func DataDir() string {
	if dir := os.Getenv("QUESTIONS_DATA_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".questions")
}

// DBPath returns the default database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "questions.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DBPath:        DBPath(),
		LogLevel:      DefaultLogLevel,
		BusyTimeoutMs: DefaultBusyTimeoutMs,
		WALMode:       true,
	}
}

// Load reads the settings file over the defaults, then applies environment
// overrides. A missing settings file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	switch {
	case err == nil:
		if err := parseSettings(cfg, data); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// parseSettings merges the QUESTIONS_* keys of a settings file into cfg.
func parseSettings(cfg *Config, data []byte) error {
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}

	if v, ok := settings["QUESTIONS_DB_PATH"].(string); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := settings["QUESTIONS_LOG_LEVEL"].(string); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := settings["QUESTIONS_BUSY_TIMEOUT_MS"].(float64); ok && v > 0 {
		cfg.BusyTimeoutMs = int(v)
	}
	if v, ok := settings["QUESTIONS_WAL_MODE"].(bool); ok {
		cfg.WALMode = v
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUESTIONS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUESTIONS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("QUESTIONS_BUSY_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.BusyTimeoutMs = ms
		}
	}
	if v := os.Getenv("QUESTIONS_WAL_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WALMode = b
		}
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})
	return globalConfig
}
