package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/ui"
)

type searchResult struct {
	Query      string   `json:"query"`
	Key        string   `json:"key"`
	DisplayKey string   `json:"display_key"`
	Path       []string `json:"path"`
}

var searchCmd = &cobra.Command{
	Use:   "search <key>",
	Short: "Find a part in the tree",
	Long: `Finds the first occurrence of a part key, ignoring case, and prints the
branch of the tree that leads to it.

Examples:
  bomv search p1234
  bomv search P1234dup2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return handleErrorMsg(ErrMissingArgument, "search text is empty", "")
		}

		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		path, err := s.Search(query)
		if err != nil {
			return fail(err)
		}
		id, _ := s.Selected()
		n := s.Tree.Node(id)

		if isJSONOutput() {
			outputSuccess(searchResult{
				Query:      query,
				Key:        n.Key,
				DisplayKey: n.DisplayKey,
				Path:       path,
			}, sessionMeta(s))
			return nil
		}

		fmt.Print(ui.RenderTree(s.Tree, ui.TreeOptions{
			Mode:   s.Mode(),
			Shown:  s.Tree.PathTo(id),
			Marked: map[bom.NodeID]bool{id: true},
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
