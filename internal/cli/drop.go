package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/ui"
)

var dropCmd = &cobra.Command{
	Use:   "drop <file>...",
	Short: "Find the parts named by files",
	Long: `Matches files to parts by the key in their names, the same way media
files are matched: the fourth underscore-separated segment, or the whole
name without its extension when there are fewer segments.

The files need not exist. Unmatched names are listed at the end.

Examples:
  bomv drop ~/Downloads/FA50_LINE_V1_P1234.png
  bomv drop *.fbx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		res, err := s.Drop(args)
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			var warnings []Warning
			for _, stem := range res.Unmatched {
				warnings = append(warnings, Warning{Code: WarnNoMatch, Message: "no part in the tree", Key: stem})
			}
			outputSuccessWithWarnings(res, warnings, &Meta{Count: len(res.Matched), Mode: s.Mode().String(), Workspace: s.Workspace.Root})
			return nil
		}

		for _, m := range res.Matched {
			fmt.Printf("%s %s %s\n", ui.SymbolSuccess, filepath.Base(m.File), ui.Hint("→ "+m.DisplayKey))
		}
		if len(res.Unmatched) > 0 {
			fmt.Println(ui.Warningf("Not in the tree: %s", strings.Join(res.Unmatched, ", ")))
		}
		if id, ok := s.Selected(); ok {
			fmt.Printf("Selected %s\n", ui.AccentBold.Render(s.Tree.Node(id).DisplayKey))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
}
