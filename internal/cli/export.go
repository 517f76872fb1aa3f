package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/export"
	"github.com/bomview/bomview/internal/ui"
)

// DefaultExportFile is written under the workspace when --db is not given.
const DefaultExportFile = "bomview.db"

var exportDBPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tree, media index and memos to a SQLite database",
	Long: `Writes a SQLite snapshot of the workspace: every tree node with its
visibility flags for the active mode, every indexed media file, every memo
and a few facts about the export. An existing database is replaced.

Examples:
  bomv export
  bomv export --db ~/reports/line1.db --mode 3dxml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		s, err := openSession()
		if err != nil {
			return fail(err)
		}

		path := exportDBPath
		if path == "" {
			path = filepath.Join(s.Workspace.Root, DefaultExportFile)
		}

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner("Writing " + path)
			spinner.Start()
		}
		err = export.WriteSQLite(path, export.Snapshot{
			Workspace: s.Workspace.Root,
			Mode:      s.Mode(),
			Tree:      s.Tree,
			Index:     s.Index,
			Memos:     s.Memos,
			CreatedAt: now(),
		})
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		db, err := export.Open(path)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()
		counts, err := db.Counts()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		var warnings []Warning
		if s.TreeErr != nil {
			warnings = append(warnings, Warning{Code: WarnTreeProblem, Message: "tree not exported: " + s.TreeErr.Error()})
		}

		if isJSONOutput() {
			meta := sessionMeta(s)
			meta.ElapsedMs = time.Since(start).Milliseconds()
			outputSuccessWithWarnings(map[string]interface{}{
				"file":   path,
				"tables": counts,
			}, warnings, meta)
			return nil
		}

		fmt.Println(ui.Successf("Exported to %s", ui.FilePath(path)))
		tbl := ui.NewTable("TABLE", "ROWS")
		for _, name := range []string{"nodes", "media", "memos", "meta"} {
			tbl.AddRow(name, fmt.Sprintf("%d", counts[name]))
		}
		fmt.Print(tbl.String())
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Database file (default <workspace>/"+DefaultExportFile+")")
	rootCmd.AddCommand(exportCmd)
}
