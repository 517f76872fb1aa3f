package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/ui"
	"github.com/bomview/bomview/internal/visibility"
)

var (
	treeFilter bool
	treeDepth  int
	treeFormat string
)

// treeNode is the nested form of the tree used by --format json and yaml.
type treeNode struct {
	Key        string      `json:"key" yaml:"key"`
	DisplayKey string      `json:"display_key" yaml:"display_key"`
	Class      string      `json:"class" yaml:"class"`
	Duplicate  bool        `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`
	Cut        int         `json:"cut_children,omitempty" yaml:"cut_children,omitempty"`
	Children   []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type treeOutput struct {
	Mode   string    `json:"mode" yaml:"mode"`
	Filter bool      `json:"filter" yaml:"filter"`
	Shown  int       `json:"shown" yaml:"shown"`
	Total  int       `json:"total" yaml:"total"`
	Root   *treeNode `json:"root" yaml:"root"`
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the parts tree",
	Long: `Shows the parts tree built from the spreadsheet.

Parts with a file of the active mode are bold in the mode's color (image red,
3DXML blue, FBX green). Parts with no file anywhere below them are dimmed.
A part used by several assemblies is expanded once; later uses appear as
leaves named KEYdup1, KEYdup2, ...

Examples:
  bomv tree
  bomv tree --mode 3dxml --filter
  bomv tree --depth 2
  bomv tree --format yaml`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVarP(&treeFilter, "filter", "f", false, "Show only parts that lead to a file of the active mode")
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Cut the tree below this depth (0 = no limit)")
	treeCmd.Flags().StringVar(&treeFormat, "format", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(treeFormat))
	switch format {
	case "text", "json", "yaml":
	default:
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown format %q", treeFormat), "Use text, json or yaml")
	}
	if treeDepth < 0 {
		return handleErrorMsg(ErrInvalidInput, "depth must not be negative", "")
	}

	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	shownCount := s.SetFilter(treeFilter)
	shown, err := s.Shown()
	if err != nil {
		return fail(err)
	}

	out := treeOutput{
		Mode:   s.Mode().String(),
		Filter: treeFilter,
		Shown:  shownCount,
		Total:  s.Tree.Len(),
		Root:   nestTree(s.Tree, shown, treeDepth),
	}

	switch {
	case isJSONOutput() || format == "json":
		outputSuccessWithWarnings(out, treeWarnings(s), &Meta{Count: shownCount, Mode: out.Mode, Workspace: s.Workspace.Root})
		return nil
	case format == "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return handleError(ErrInternal, err, "")
		}
		return enc.Close()
	}

	fmt.Print(ui.RenderTree(s.Tree, ui.TreeOptions{
		Mode:     s.Mode(),
		Shown:    shown,
		MaxDepth: treeDepth,
	}))
	fmt.Println()
	fmt.Println(ui.Hint(fmt.Sprintf("%s mode · %d of %d nodes shown", s.Mode().Label(), shownCount, s.Tree.Len())))
	if treeFilter && shownCount == 0 {
		fmt.Println(ui.Warningf("No part has a %s file", s.Mode().Label()))
	}
	return nil
}

// nestTree converts the shown nodes to nested form. Children beyond
// maxDepth are counted in Cut instead of listed.
func nestTree(t *bom.Tree, shown []bom.NodeID, maxDepth int) *treeNode {
	visible := make(map[bom.NodeID]bool, len(shown))
	for _, id := range shown {
		visible[id] = true
	}
	if !visible[t.Root] {
		return nil
	}

	var build func(id bom.NodeID) *treeNode
	build = func(id bom.NodeID) *treeNode {
		n := t.Node(id)
		out := &treeNode{
			Key:        n.Key,
			DisplayKey: n.DisplayKey,
			Class:      visibility.Classify(n).String(),
			Duplicate:  n.Duplicate,
		}
		for _, c := range n.Children {
			if !visible[c] {
				continue
			}
			if maxDepth > 0 && n.Depth >= maxDepth {
				out.Cut++
				continue
			}
			out.Children = append(out.Children, build(c))
		}
		return out
	}
	return build(t.Root)
}

// treeWarnings turns build report findings into JSON warnings.
func treeWarnings(s *session.Session) []Warning {
	var warnings []Warning
	if s.Report == nil {
		return nil
	}
	if len(s.Report.Roots) > 1 {
		warnings = append(warnings, Warning{
			Code:    WarnTreeProblem,
			Message: fmt.Sprintf("multiple root parts (%s), using %s", strings.Join(s.Report.Roots, ", "), s.Report.Root),
		})
	}
	for _, key := range s.Report.OrphanParents {
		warnings = append(warnings, Warning{Code: WarnTreeProblem, Message: "parent part has no row of its own", Key: key})
	}
	for _, key := range s.Report.Unreachable {
		warnings = append(warnings, Warning{Code: WarnTreeProblem, Message: "part is not reachable from the root", Key: key})
	}
	return warnings
}
