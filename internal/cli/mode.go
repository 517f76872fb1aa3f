package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/ui"
	"github.com/bomview/bomview/internal/visibility"
)

type modeInfo struct {
	Mode      media.Kind `json:"mode"`
	Source    modeSource `json:"source"`
	Files     int        `json:"files"`
	Visible   int        `json:"visible_nodes"`
	Nodes     int        `json:"nodes"`
	StatePath string     `json:"state_path,omitempty"`
}

var modeCmd = &cobra.Command{
	Use:   "mode [image|3dxml|fbx]",
	Short: "Show or set the active media kind",
	Long: `Without an argument, shows the active media kind and how many parts
have a file of that kind. With an argument, makes it the active kind for
later commands by saving it in state.toml.

The --mode flag overrides the saved kind for a single command.

Examples:
  bomv mode
  bomv mode 3dxml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"image", "3dxml", "fbx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		info := modeInfo{}
		var kind media.Kind
		var source modeSource
		var err error
		if len(args) == 1 {
			kind, err = media.ParseKind(args[0])
			if err != nil {
				return handleError(ErrInvalidInput, err, "Use one of: image, 3dxml, fbx")
			}
			state.Mode = kind.String()
			if err := config.SaveState(resolvedStatePath, state); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			source = modeFromState
			info.StatePath = resolvedStatePath
		} else {
			kind, source, err = activeMode()
			if err != nil {
				return fail(err)
			}
		}

		s, err := openSessionIn(kind)
		if err != nil {
			return fail(err)
		}

		info.Mode = kind
		info.Source = source
		info.Files = s.Index.Counts()[kind]
		info.Nodes = s.Tree.Len()
		info.Visible = visibility.Count(s.Tree)

		if isJSONOutput() {
			outputSuccess(info, sessionMeta(s))
			return nil
		}

		label := ui.ModeStyle(kind).Render(kind.Label())
		if len(args) == 1 {
			fmt.Println(ui.Successf("Mode set to %s", label))
		} else {
			fmt.Printf("Mode: %s %s\n", label, ui.Hint("(from "+string(source)+")"))
		}
		fmt.Printf("%s with a file, %d of %d tree nodes lead to one\n",
			ui.Plural("part", info.Files), info.Visible, info.Nodes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
