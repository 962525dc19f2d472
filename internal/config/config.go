package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds tnav user configuration.
type Config struct {
	Theme    string `toml:"theme"`
	Homepage string `toml:"homepage"`

	// SearchEngine is a URL template with a %s placeholder for the
	// escaped query. Values without a placeholder fall back to the
	// default engine.
	SearchEngine string `toml:"search_engine"`

	// Basename is a prefix shared by every address the session manages.
	// It is stripped before routing and prepended when building hrefs.
	Basename string `toml:"basename"`

	// KeyLength is the length of the identity key minted for each
	// navigation.
	KeyLength int `toml:"key_length"`

	// ForceRefresh reloads the page after every push and replace instead
	// of relying on the in-place update.
	ForceRefresh bool `toml:"force_refresh"`

	// ConfirmNav enables the confirmation modal for guarded navigations.
	// When off, guards are recorded but never prompt, so navigation
	// proceeds.
	ConfirmNav bool `toml:"confirm_nav"`

	// HistoryCap is the maximum number of rows kept in the visit log.
	HistoryCap int `toml:"history_cap"`

	path string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Theme:        "default",
		Homepage:     "",
		SearchEngine: "https://html.duckduckgo.com/html/?q=%s",
		Basename:     "",
		KeyLength:    6,
		ForceRefresh: false,
		ConfirmNav:   true,
		HistoryCap:   1000,
	}
}

// Load reads configuration from the standard config directory, writing
// the defaults there on first run.
func Load() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			cfg.Save()
			return &cfg, nil
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.KeyLength <= 0 {
		cfg.KeyLength = 6
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = 1000
	}

	return &cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, "config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// DataDir returns the data directory for persistent storage.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", "tnav")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			dir = filepath.Join(appData, "tnav")
		} else {
			dir = filepath.Join(home, ".tnav")
		}
	default: // Linux, BSD, etc.
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			dir = filepath.Join(xdgData, "tnav")
		} else {
			dir = filepath.Join(home, ".local", "share", "tnav")
		}
	}

	return dir, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", "tnav")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			dir = filepath.Join(appData, "tnav")
		} else {
			dir = filepath.Join(home, ".tnav")
		}
	default:
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig != "" {
			dir = filepath.Join(xdgConfig, "tnav")
		} else {
			dir = filepath.Join(home, ".config", "tnav")
		}
	}

	return dir, nil
}
