// Package config provides configuration types, defaults, and persistence
// for glimpse.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/glimpse/internal/log"
)

// Config holds all configuration options for glimpse.
type Config struct {
	Editor        string        `mapstructure:"editor"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce int           `mapstructure:"watch_debounce"` // milliseconds
	UI            UIConfig      `mapstructure:"ui"`
	Theme         ThemeConfig   `mapstructure:"theme"`
	Browser       BrowserConfig `mapstructure:"browser"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowLineNumbers bool `mapstructure:"show_line_numbers"`
	ShowStatusBar   bool `mapstructure:"show_status_bar"`
	Mouse           bool `mapstructure:"mouse"`
}

// ThemeConfig holds theme selection options.
type ThemeConfig struct {
	// Name selects a built-in palette ("default", "dracula", "nord").
	Name string `mapstructure:"name"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`
}

// BrowserConfig holds directory browser options.
type BrowserConfig struct {
	// Depth limits how deep the directory scan recurses.
	Depth int `mapstructure:"depth"`

	// SortKey is the startup sort column: "path", "created", or "updated".
	SortKey string `mapstructure:"sort_key"`

	// SortDir is "asc" or "desc".
	SortDir string `mapstructure:"sort_dir"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Watch:         true,
		WatchDebounce: 100,
		UI: UIConfig{
			ShowLineNumbers: false,
			ShowStatusBar:   true,
			Mouse:           true,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Browser: BrowserConfig{
			Depth:   6,
			SortKey: "path",
			SortDir: "asc",
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Glimpse Configuration

# External editor for the 'e' key (default: $VISUAL, then $EDITOR, then vi)
# editor: nvim

# Reload the document automatically when the file changes on disk
watch: true
watch_debounce: 100   # coalesce change bursts, in milliseconds

# UI settings
ui:
  show_line_numbers: false  # Line number gutter in the pager
  show_status_bar: true     # Status bar at the bottom
  mouse: true               # Mouse wheel scrolling

# Theme configuration
theme:
  # Built-in palettes: default, dracula, nord
  name: default
  # Force a scheme instead of detecting the terminal background:
  # mode: dark

# Directory browser
browser:
  depth: 6          # Maximum scan depth below the starting directory
  sort_key: path    # path, created, or updated
  sort_dir: asc     # asc or desc
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
