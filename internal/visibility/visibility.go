// Package visibility marks which tree nodes lead to a part that has media of
// the active kind, and derives styling and filtering from those marks.
package visibility

import (
	"errors"
	"strings"

	"github.com/bomview/bomview/internal/bom"
)

// ErrStale is returned by Filter when flags were never computed.
var ErrStale = errors.New("visibility not computed for this tree")

// KeySet answers whether a part key has media.
type KeySet interface {
	Has(key string) bool
}

// Class is how a node is drawn.
type Class int

const (
	// Hidden nodes have no media in their subtree.
	Hidden Class = iota
	// Path nodes have media only below them.
	Path
	// Self nodes have media of their own.
	Self
)

func (c Class) String() string {
	switch c {
	case Self:
		return "self"
	case Path:
		return "path"
	}
	return "hidden"
}

// Compute caches SelfVisible and Visible on every node for mode and returns
// the root's Visible flag. Call it again after the key set changes.
func Compute(tree *bom.Tree, mode string, keys KeySet) bool {
	if tree == nil || tree.Root == bom.NoNode {
		return false
	}
	visible := compute(tree, tree.Root, keys)
	tree.VisibilityMode = mode
	return visible
}

func compute(tree *bom.Tree, id bom.NodeID, keys KeySet) bool {
	n := tree.Node(id)
	self := keys != nil && keys.Has(strings.ToUpper(n.Key))

	child := false
	for _, c := range n.Children {
		// No short-circuit: every child needs its own flags.
		if compute(tree, c, keys) {
			child = true
		}
	}

	n = tree.Node(id)
	n.SelfVisible = self
	n.Visible = self || child
	return n.Visible
}

// Classify returns the drawing class of n from its cached flags.
func Classify(n *bom.Node) Class {
	switch {
	case n.SelfVisible:
		return Self
	case n.Visible:
		return Path
	}
	return Hidden
}

// Filter returns the nodes shown while filtering, in pre-order. A node is
// shown iff its cached Visible flag is set; since Visible propagates upward,
// no ancestor of a shown node is ever hidden.
func Filter(tree *bom.Tree) ([]bom.NodeID, error) {
	if tree == nil || tree.Root == bom.NoNode {
		return nil, nil
	}
	if tree.VisibilityMode == "" {
		return nil, ErrStale
	}
	var shown []bom.NodeID
	tree.Walk(func(n *bom.Node) bool {
		if !n.Visible {
			return false
		}
		shown = append(shown, n.ID)
		return true
	})
	return shown, nil
}

// Count returns how many nodes Filter would show.
func Count(tree *bom.Tree) int {
	shown, err := Filter(tree)
	if err != nil {
		return 0
	}
	return len(shown)
}
