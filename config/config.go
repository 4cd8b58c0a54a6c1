package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Settings is the persisted application configuration.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Database DatabaseSettings `json:"database"`
	Log      LogSettings      `json:"log"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DatabaseSettings configures the local state database.
type DatabaseSettings struct {
	Path string `json:"path"`
}

// LogSettings configures optional file logging with rotation. An empty Path
// keeps logs on stderr.
type LogSettings struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// DefaultSettings returns the configuration used when no settings file
// exists yet.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host: "127.0.0.1",
			Port: 8675,
		},
		Database: DatabaseSettings{
			Path: filepath.Join("data", "cinex.db"),
		},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// Manager loads and saves the settings file and caches the parsed result.
type Manager struct {
	path   string
	mu     sync.RWMutex
	cached *Settings
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load returns the current settings. A missing file yields defaults; a
// present but unparsable file is an error (misconfiguration should be loud,
// unlike catalog state). Environment overrides are applied last.
func (m *Manager) Load() (*Settings, error) {
	m.mu.RLock()
	if m.cached != nil {
		cached := *m.cached
		m.mu.RUnlock()
		return &cached, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	settings := DefaultSettings()

	data, err := os.ReadFile(m.path)
	if err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", m.path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read settings file %s: %w", m.path, err)
	}

	applyEnvOverrides(settings)

	m.cached = settings
	cached := *settings
	return &cached, nil
}

// Save writes the settings file and refreshes the cache.
func (m *Manager) Save(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	dir := filepath.Dir(m.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", m.path, err)
	}

	cached := *settings
	m.cached = &cached
	return nil
}

func applyEnvOverrides(settings *Settings) {
	if v := os.Getenv("CINEX_HOST"); v != "" {
		settings.Server.Host = v
	}
	if v := os.Getenv("CINEX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			settings.Server.Port = port
		}
	}
	if v := os.Getenv("CINEX_DATABASE_PATH"); v != "" {
		settings.Database.Path = v
	}
	if v := os.Getenv("CINEX_LOG_PATH"); v != "" {
		settings.Log.Path = v
	}
}
