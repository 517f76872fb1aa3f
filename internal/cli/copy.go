package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/ui"
)

var copyCmd = &cobra.Command{
	Use:   "copy <part> <dest-root>",
	Short: "Copy every file of a part and its sub-parts into a new folder",
	Long: `Copies the image, 3DXML and FBX files of the part and of every part
below it into a new folder under dest-root named after the part and the
current time, e.g. p1234-20240501-093000.

A part used several times is copied once. Parts without any file are
listed. An existing folder is never reused.

Examples:
  bomv copy P1234 ~/Desktop/handoff`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner("Copying files")
			spinner.Start()
		}
		report, err := s.BulkCopy(args[0], args[1])
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			var warnings []Warning
			for _, f := range report.Failed {
				warnings = append(warnings, Warning{Code: WarnCopyFailed, Message: f.Error, File: f.Source})
			}
			outputSuccessWithWarnings(report, warnings, &Meta{Count: len(report.Copied), Workspace: s.Workspace.Root})
			return nil
		}

		fmt.Println(ui.Successf("Copied %s for %s into %s",
			ui.Plural("file", len(report.Copied)),
			ui.Plural("part", report.Parts),
			ui.FilePath(report.Folder)))
		if len(report.NoMedia) > 0 {
			fmt.Println(ui.Hint(ui.Plural("part", len(report.NoMedia)) + " without files"))
		}
		for _, f := range report.Failed {
			fmt.Println(ui.Warningf("%s: %s", f.Source, f.Error))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
