package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <part>",
	Short: "Show a part's metadata, files and memos",
	Long: `Shows the spreadsheet row of a part, the files it has in each mode and
its memos.

The part can be a key (any case) or a display key such as P1234dup1.

Examples:
  bomv show P1234
  bomv show p1234 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		sel, err := s.Select(args[0])
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			var warnings []Warning
			if !sel.Found {
				warnings = append(warnings, Warning{
					Code:    WarnPartNotInSheet,
					Message: "part has no row in the spreadsheet",
					Key:     sel.Node.Key,
				})
			}
			outputSuccessWithWarnings(sel, warnings, sessionMeta(s))
			return nil
		}

		card := ui.PartCard(sel)
		width := ui.NewDisplayContext().AvailableWidth(ui.MarkdownRenderMargin)
		rendered, err := ui.RenderMarkdown(card, width)
		if err != nil {
			fmt.Print(card)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
