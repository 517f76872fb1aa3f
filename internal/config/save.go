package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bomview/bomview/internal/atomicfile"
)

type persistedConfig struct {
	DefaultWorkspace *string              `toml:"default_workspace,omitempty"`
	StateFile        *string              `toml:"state_file,omitempty"`
	Opener           *string              `toml:"opener,omitempty"`
	Workspaces       map[string]string    `toml:"workspaces,omitempty"`
	UI               *persistedUISettings `toml:"ui,omitempty"`
	Log              *persistedLog        `toml:"log,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

type persistedLog struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
	Output *string `toml:"output,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the global config to path atomically. Empty settings are
// omitted.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultWorkspace: nonEmptyPtr(cfg.DefaultWorkspace),
		StateFile:        nonEmptyPtr(cfg.StateFile),
		Opener:           nonEmptyPtr(cfg.Opener),
	}
	if len(cfg.Workspaces) > 0 {
		out.Workspaces = cfg.Workspaces
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	level := nonEmptyPtr(cfg.Log.Level)
	format := nonEmptyPtr(cfg.Log.Format)
	output := nonEmptyPtr(cfg.Log.Output)
	if level != nil || format != nil || output != nil {
		out.Log = &persistedLog{Level: level, Format: format, Output: output}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
