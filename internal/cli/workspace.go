package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/ui"
)

type workspaceRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}

var (
	workspaceAddReplace bool
	workspaceAddDefault bool
)

func workspaceRows() ([]workspaceRow, bool) {
	active := strings.TrimSpace(state.ActiveWorkspace)
	activeMissing := active != ""
	rows := make([]workspaceRow, 0, len(cfg.Workspaces))
	for _, name := range cfg.WorkspaceNames() {
		rows = append(rows, workspaceRow{
			Name:      name,
			Path:      cfg.Workspaces[name],
			IsDefault: name == cfg.DefaultWorkspace,
			IsActive:  name == active,
		})
		if name == active {
			activeMissing = false
		}
	}
	return rows, activeMissing
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage configured workspaces and the active selection",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured workspaces",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	rows, activeMissing := workspaceRows()
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":       resolvedConfigPath,
			"state_path":        resolvedStatePath,
			"default_workspace": cfg.DefaultWorkspace,
			"active_workspace":  state.ActiveWorkspace,
			"active_missing":    activeMissing,
			"workspaces":        rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No workspaces configured.")
		fmt.Printf("Config: %s\n", resolvedConfigPath)
		fmt.Println()
		fmt.Println(ui.Hint("Add one with 'bomv workspace add <name> <path>' or 'bomv init <path> --name <name>'"))
		return nil
	}

	for _, row := range rows {
		prefix := "  "
		if row.IsActive && row.IsDefault {
			prefix = ">*"
		} else if row.IsActive {
			prefix = "> "
		} else if row.IsDefault {
			prefix = " *"
		}
		fmt.Printf("%s %-12s -> %s\n", prefix, row.Name, row.Path)
	}

	fmt.Println()
	fmt.Println("> = active workspace (state)")
	fmt.Println("* = default workspace (config)")
	fmt.Printf("config: %s\n", resolvedConfigPath)
	fmt.Printf("state:  %s\n", resolvedStatePath)
	if activeMissing {
		fmt.Println(ui.Warningf("active workspace '%s' in state is not configured", state.ActiveWorkspace))
	}
	return nil
}

var workspaceCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the workspace commands would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, source, err := config.ResolveWorkspaceRoot(config.ResolveRequest{
			Path:   workspacePathFlag,
			Name:   workspaceName,
			Config: cfg,
			State:  state,
		})
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Run 'bomv workspace list' to see configured workspaces")
		}
		_, statErr := os.Stat(filepath.Join(root, config.WorkspaceFile))
		initialized := statErr == nil

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":        root,
				"source":      source,
				"initialized": initialized,
			}, nil)
			return nil
		}
		fmt.Printf("%s %s\n", ui.FilePath(root), ui.Hint("("+string(source)+")"))
		if !initialized {
			fmt.Println(ui.Hint(fmt.Sprintf("No %s here; defaults apply. Run 'bomv init %s' to create one.", config.WorkspaceFile, root)))
		}
		return nil
	},
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active workspace in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		path, err := cfg.GetWorkspacePath(name)
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Run 'bomv workspace list' to see configured workspaces")
		}

		state.ActiveWorkspace = name
		if err := config.SaveState(resolvedStatePath, state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_workspace": name,
				"path":             path,
				"state_path":       resolvedStatePath,
			}, nil)
			return nil
		}
		fmt.Printf("Active workspace set to '%s' -> %s\n", name, path)
		fmt.Printf("state: %s\n", resolvedStatePath)
		return nil
	},
}

var workspaceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the active workspace from state.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prev := strings.TrimSpace(state.ActiveWorkspace)
		state.ActiveWorkspace = ""
		if err := config.SaveState(resolvedStatePath, state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"cleared":    true,
				"previous":   prev,
				"state_path": resolvedStatePath,
			}, nil)
			return nil
		}
		if prev == "" {
			fmt.Println("Active workspace already clear.")
		} else {
			fmt.Printf("Cleared active workspace '%s'.\n", prev)
		}
		return nil
	},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a workspace to config.toml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		rawPath := strings.TrimSpace(args[1])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "workspace name is required", "")
		}
		if rawPath == "" {
			return handleErrorMsg(ErrMissingArgument, "workspace path is required", "")
		}

		absPath, err := filepath.Abs(rawPath)
		if err != nil {
			return handleError(ErrInvalidInput, fmt.Errorf("failed to resolve workspace path: %w", err), "")
		}
		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrWorkspaceNotFound, fmt.Sprintf("workspace path does not exist: %s", absPath), "Run 'bomv init "+absPath+"' to create it first")
			}
			return handleError(ErrInternal, err, "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("workspace path must be a directory: %s", absPath), "")
		}

		if cfg.Workspaces == nil {
			cfg.Workspaces = make(map[string]string)
		}
		prevPath, existed := cfg.Workspaces[name]
		if existed && !workspaceAddReplace {
			return handleErrorMsg(ErrDuplicateName, fmt.Sprintf("workspace '%s' already exists", name), "Use --replace to update the path")
		}

		cfg.Workspaces[name] = absPath
		if workspaceAddDefault {
			cfg.DefaultWorkspace = name
		}
		if err := config.SaveTo(resolvedConfigPath, cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":          name,
				"path":          absPath,
				"replaced":      existed,
				"previous_path": prevPath,
				"default":       cfg.DefaultWorkspace == name,
				"config_path":   resolvedConfigPath,
			}, nil)
			return nil
		}
		if existed {
			fmt.Printf("Updated workspace '%s' -> %s (was %s)\n", name, absPath, prevPath)
		} else {
			fmt.Printf("Added workspace '%s' -> %s\n", name, absPath)
		}
		if workspaceAddDefault {
			fmt.Printf("Default workspace set to '%s'\n", name)
		}
		fmt.Printf("config: %s\n", resolvedConfigPath)
		return nil
	},
}

func init() {
	workspaceAddCmd.Flags().BoolVar(&workspaceAddReplace, "replace", false, "Replace the path of an existing workspace")
	workspaceAddCmd.Flags().BoolVar(&workspaceAddDefault, "default", false, "Also make it the default workspace")
	workspaceCmd.AddCommand(workspaceListCmd, workspaceCurrentCmd, workspaceUseCmd, workspaceClearCmd, workspaceAddCmd)
	rootCmd.AddCommand(workspaceCmd)
}
