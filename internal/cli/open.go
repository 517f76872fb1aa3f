package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/ui"
)

var openReveal bool

var openCmd = &cobra.Command{
	Use:   "open <part>",
	Short: "Open a part's file for the active mode",
	Long: `Opens the part's file of the active mode with the system viewer.

With --reveal (or reveal: true in bomview.yaml) the file is shown in the
file manager instead.

The opener is chosen per platform (start, open, xdg-open). Set 'opener'
in ~/.config/bomview/config.toml to use another program.

Examples:
  bomv open P1234
  bomv open P1234 --mode fbx
  bomv open P1234 --reveal`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		if cmd.Flags().Changed("reveal") {
			s.SetReveal(openReveal)
		}

		res, err := s.Activate(args[0])
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			outputSuccess(res, sessionMeta(s))
			return nil
		}
		verb := "Opened"
		if res.Revealed {
			verb = "Revealed"
		}
		fmt.Println(ui.Successf("%s %s", verb, ui.FilePath(res.Path)))
		return nil
	},
}

func init() {
	openCmd.Flags().BoolVar(&openReveal, "reveal", false, "Show the file in the file manager instead of opening it")
	rootCmd.AddCommand(openCmd)
}
