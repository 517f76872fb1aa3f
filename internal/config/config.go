// Package config handles global bomview configuration, machine-local state,
// and per-workspace settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/bomview/bomview/internal/logging"
)

// Config represents the global bomview configuration.
type Config struct {
	// DefaultWorkspace is the name of the default workspace (from Workspaces map).
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspaces maps workspace names to directories.
	Workspaces map[string]string `toml:"workspaces"`

	// StateFile overrides where state.toml lives. Relative paths resolve
	// against the config file's directory.
	StateFile string `toml:"state_file"`

	// Opener replaces the platform file opener. The file path is appended as
	// the last argument.
	Opener string `toml:"opener"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// Log configures diagnostics written to stderr or a file.
	Log logging.Config `toml:"log"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// GetWorkspacePath returns the path for a named workspace.
// If name is empty, returns the default workspace path.
func (c *Config) GetWorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}
	if name == "" {
		return "", fmt.Errorf("no default workspace configured")
	}
	if path, ok := c.Workspaces[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

// WorkspaceNames returns the configured workspace names, sorted.
func (c *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(c.Workspaces))
	for name := range c.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields a default config.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/bomview/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "bomview", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "bomview", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault writes a commented default config at path if none exists.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# bomview configuration

# Default workspace name (must exist in [workspaces] below)
# default_workspace = "line-a"

# Named workspaces
# [workspaces]
# line-a = "/data/bom/line-a"

# Command used to open media files instead of the platform default.
# opener = "xdg-open"

# [ui]
# accent = "39"

# [log]
# level = "warn"       # debug, info, warn, error
# format = "console"   # console or json
# output = ""          # file path; empty writes to stderr
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
