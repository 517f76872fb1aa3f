package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/ui"
)

var (
	initName    string
	initDefault bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a workspace",
	Long: `Creates the workspace folder layout, bomview.yaml and an empty memo
file. Existing files are left alone, so init is safe to rerun.

With --name the workspace is also registered in config.toml.

Examples:
  bomv init
  bomv init ~/bom/line1 --name line1 --default`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		ws, created, err := config.Init(abs)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		store, err := memo.Open(ws.MemoPath())
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		name := strings.TrimSpace(initName)
		if name != "" {
			if prev, ok := cfg.Workspaces[name]; ok && prev != abs {
				return handleErrorMsg(ErrDuplicateName, fmt.Sprintf("workspace '%s' already points to %s", name, prev), "Pick another --name or run 'bomv workspace add "+name+" "+abs+" --replace'")
			}
			if cfg.Workspaces == nil {
				cfg.Workspaces = make(map[string]string)
			}
			cfg.Workspaces[name] = abs
			if initDefault {
				cfg.DefaultWorkspace = name
			}
			if err := config.SaveTo(resolvedConfigPath, cfg); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		}

		if isJSONOutput() {
			dirs := make(map[string]string, len(media.Kinds))
			for kind, dir := range ws.Dirs() {
				dirs[kind.String()] = dir
			}
			outputSuccess(map[string]interface{}{
				"path":        ws.Root,
				"created":     created,
				"name":        name,
				"media_dirs":  dirs,
				"sheet":       ws.SheetPath(),
				"memo":        store.Path(),
				"config_path": resolvedConfigPath,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.Successf("Created workspace %s", ui.FilePath(ws.Root)))
		} else {
			fmt.Println(ui.Infof("Workspace already set up at %s", ui.FilePath(ws.Root)))
		}
		dirs := ws.Dirs()
		for _, kind := range media.Kinds {
			fmt.Printf("  %-6s %s\n", kind.Label(), dirs[kind])
		}
		fmt.Printf("  %-6s %s\n", "Sheet", ws.SheetPath())
		fmt.Printf("  %-6s %s\n", "Memo", store.Path())
		if name != "" {
			fmt.Printf("Registered as '%s' in %s\n", name, resolvedConfigPath)
		}
		fmt.Println()
		fmt.Println(ui.Hint("Put the BOM spreadsheet at the Sheet path, then run 'bomv scan'."))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Register the workspace in config.toml under this name")
	initCmd.Flags().BoolVar(&initDefault, "default", false, "Also make it the default workspace (with --name)")
	rootCmd.AddCommand(initCmd)
}
