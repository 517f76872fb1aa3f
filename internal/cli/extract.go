package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/ui"
)

var extractForce bool

var extractCmd = &cobra.Command{
	Use:   "extract <part> <dest-dir>",
	Short: "Copy a part's file for the active mode into a folder",
	Long: `Copies the part's file of the active mode into dest-dir, keeping its
name. The folder is created if needed. An existing file is only replaced
with --force.

Examples:
  bomv extract P1234 ~/Desktop
  bomv extract P1234 ./out --mode 3dxml --force`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		dest, err := s.Extract(args[0], args[1], extractForce)
		if err != nil {
			code, suggestion := classifyError(err)
			if code == ErrDestExists && !extractForce {
				suggestion = "Use --force to overwrite"
			}
			return handleError(code, err, suggestion)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"key":  args[0],
				"kind": s.Mode(),
				"file": dest,
			}, sessionMeta(s))
			return nil
		}
		fmt.Println(ui.Successf("Copied to %s", ui.FilePath(dest)))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(extractCmd)
}
