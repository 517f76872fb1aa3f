package config

import (
	"fmt"
	"os"
	"strings"
)

// Source names where a workspace root came from.
type Source string

const (
	SourceFlagPath Source = "flag_path"
	SourceFlagName Source = "flag_name"
	SourceActive   Source = "active"
	SourceDefault  Source = "default"
	SourceCwd      Source = "cwd"
)

// ResolveRequest holds the inputs for choosing a workspace.
type ResolveRequest struct {
	Path   string // --workspace-path
	Name   string // --workspace
	Config *Config
	State  *State
}

// ResolveWorkspaceRoot picks the workspace directory with precedence:
//  1. explicit path
//  2. explicit name from [workspaces]
//  3. active workspace from state.toml
//  4. default_workspace
//  5. current directory
//
// A stale active workspace (removed from config) is skipped.
func ResolveWorkspaceRoot(req ResolveRequest) (string, Source, error) {
	if p := strings.TrimSpace(req.Path); p != "" {
		return p, SourceFlagPath, nil
	}

	cfg := req.Config
	if cfg == nil {
		cfg = &Config{}
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		p, err := cfg.GetWorkspacePath(name)
		if err != nil {
			return "", "", err
		}
		return p, SourceFlagName, nil
	}

	if req.State != nil && req.State.ActiveWorkspace != "" {
		if p, ok := cfg.Workspaces[req.State.ActiveWorkspace]; ok {
			return p, SourceActive, nil
		}
	}

	if cfg.DefaultWorkspace != "" {
		p, err := cfg.GetWorkspacePath("")
		if err != nil {
			return "", "", err
		}
		return p, SourceDefault, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, SourceCwd, nil
}
