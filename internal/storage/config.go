package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DataDirEnv overrides the data directory.
const DataDirEnv = "VIDLIB_DATA_DIR"

// Config holds application configuration.
type Config struct {
	Backend             string   `json:"backend"`
	Theme               string   `json:"theme"`
	DefaultCategory     string   `json:"defaultCategory"`
	DefaultSort         string   `json:"defaultSort"`
	CheckConcurrency    int      `json:"checkConcurrency"`
	CheckTimeoutSeconds int      `json:"checkTimeoutSeconds"`
	CullExcludeDomains  []string `json:"cullExcludeDomains"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:             BackendSQLite,
		Theme:               ThemeDark,
		DefaultCategory:     "mental-health",
		DefaultSort:         "featured",
		CheckConcurrency:    8,
		CheckTimeoutSeconds: 10,
		CullExcludeDomains:  []string{},
	}
}

// CheckTimeout returns the thumbnail check timeout as a duration.
func (c *Config) CheckTimeout() time.Duration {
	return time.Duration(c.CheckTimeoutSeconds) * time.Second
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			if saveErr := SaveConfig(path, &config); saveErr != nil {
				// Non-fatal: return defaults even if save fails
				return &config, nil
			}
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.Theme == "" {
		config.Theme = defaults.Theme
	}
	if config.DefaultCategory == "" {
		config.DefaultCategory = defaults.DefaultCategory
	}
	if config.DefaultSort == "" {
		config.DefaultSort = defaults.DefaultSort
	}
	if config.CheckConcurrency <= 0 {
		config.CheckConcurrency = defaults.CheckConcurrency
	}
	if config.CheckTimeoutSeconds <= 0 {
		config.CheckTimeoutSeconds = defaults.CheckTimeoutSeconds
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultDataDir returns the data directory: $VIDLIB_DATA_DIR or ~/.config/vidlib
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "vidlib"), nil
}

// ConfigFilePath returns the config file path inside dataDir.
func ConfigFilePath(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}
