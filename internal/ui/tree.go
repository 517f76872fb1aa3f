package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/visibility"
)

// MarkSymbol follows the label of marked nodes.
const MarkSymbol = "◀"

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// Mode picks the color of parts that have a file of their own.
	Mode media.Kind
	// Shown limits output to these nodes; nil shows every node.
	Shown []bom.NodeID
	// MaxDepth cuts the tree below this depth; zero means no limit. A cut
	// node shows how many children it hides.
	MaxDepth int
	// Marked nodes are flagged, e.g. the selection or drop matches.
	Marked map[bom.NodeID]bool
}

// RenderTree draws the parts tree using the cached visibility flags: parts
// with a file are bold in the mode color, parts with nothing below them are
// muted.
func RenderTree(t *bom.Tree, opts TreeOptions) string {
	if t == nil || t.Root == bom.NoNode {
		return ""
	}

	var shown map[bom.NodeID]bool
	if opts.Shown != nil {
		shown = make(map[bom.NodeID]bool, len(opts.Shown))
		for _, id := range opts.Shown {
			shown[id] = true
		}
		if !shown[t.Root] {
			return ""
		}
	}

	r := &treeRenderer{tree: t, opts: opts, shown: shown, self: ModeStyle(opts.Mode)}
	root := tree.Root(r.label(t.Node(t.Root))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(Muted)
	r.addChildren(root, t.Root)
	return root.String() + "\n"
}

type treeRenderer struct {
	tree  *bom.Tree
	opts  TreeOptions
	shown map[bom.NodeID]bool
	self  lipgloss.Style
}

func (r *treeRenderer) visible(id bom.NodeID) bool {
	return r.shown == nil || r.shown[id]
}

func (r *treeRenderer) addChildren(parent *tree.Tree, id bom.NodeID) {
	n := r.tree.Node(id)
	if r.opts.MaxDepth > 0 && n.Depth >= r.opts.MaxDepth {
		return
	}
	for _, c := range n.Children {
		if !r.visible(c) {
			continue
		}
		child := r.tree.Node(c)
		if r.countShown(child) == 0 || (r.opts.MaxDepth > 0 && child.Depth >= r.opts.MaxDepth) {
			parent.Child(r.label(child))
			continue
		}
		sub := tree.Root(r.label(child))
		r.addChildren(sub, c)
		parent.Child(sub)
	}
}

func (r *treeRenderer) countShown(n *bom.Node) int {
	count := 0
	for _, c := range n.Children {
		if r.visible(c) {
			count++
		}
	}
	return count
}

func (r *treeRenderer) label(n *bom.Node) string {
	var s string
	switch visibility.Classify(n) {
	case visibility.Self:
		s = r.self.Render(n.DisplayKey)
	case visibility.Path:
		s = n.DisplayKey
	default:
		s = Muted.Render(n.DisplayKey)
	}
	if r.opts.MaxDepth > 0 && n.Depth >= r.opts.MaxDepth {
		if hidden := r.countShown(n); hidden > 0 {
			s += " " + Muted.Render(fmt.Sprintf("(+%d)", hidden))
		}
	}
	if r.opts.Marked[n.ID] {
		s += " " + AccentBold.Render(MarkSymbol)
	}
	return s
}
