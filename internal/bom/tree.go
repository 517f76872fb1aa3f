// Package bom builds the parts tree from flat part/parent rows.
package bom

import "strings"

// NodeID identifies one occurrence of a part in a Tree. IDs are indexes into
// Tree.Nodes and stay valid for the life of the tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Node is one occurrence of a part. A part shared by several parents appears
// once per parent; only the first occurrence is expanded, later ones are
// leaves with Duplicate set and a suffixed DisplayKey.
type Node struct {
	ID         NodeID   `json:"id" yaml:"id"`
	Key        string   `json:"key" yaml:"key"`
	DisplayKey string   `json:"display_key" yaml:"display_key"`
	Parent     NodeID   `json:"parent" yaml:"parent"`
	Children   []NodeID `json:"children,omitempty" yaml:"children,omitempty"`
	Depth      int      `json:"depth" yaml:"depth"`
	Duplicate  bool     `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`

	// Cached by the visibility package for VisibilityMode.
	SelfVisible bool `json:"self_visible" yaml:"self_visible"`
	Visible     bool `json:"visible" yaml:"visible"`
}

// Tree is an arena of nodes with a single root.
type Tree struct {
	Nodes []Node
	Root  NodeID

	// VisibilityMode is the media kind the cached flags were computed for;
	// empty until the first computation.
	VisibilityMode string

	byDisplay  map[string]NodeID
	firstByKey map[string]NodeID
}

func newTree() *Tree {
	return &Tree{
		Root:       NoNode,
		byDisplay:  make(map[string]NodeID),
		firstByKey: make(map[string]NodeID),
	}
}

func (t *Tree) add(key, display string, parent NodeID, dup bool) NodeID {
	id := NodeID(len(t.Nodes))
	depth := 0
	if parent != NoNode {
		depth = t.Nodes[parent].Depth + 1
	}
	t.Nodes = append(t.Nodes, Node{
		ID:         id,
		Key:        key,
		DisplayKey: display,
		Parent:     parent,
		Depth:      depth,
		Duplicate:  dup,
	})
	if parent != NoNode {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	t.byDisplay[display] = id
	upper := strings.ToUpper(key)
	if _, ok := t.firstByKey[upper]; !ok {
		t.firstByKey[upper] = id
	}
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// FindKey returns the first occurrence (in build order) of a part key,
// compared case-insensitively.
func (t *Tree) FindKey(key string) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	id, ok := t.firstByKey[strings.ToUpper(strings.TrimSpace(key))]
	return id, ok
}

// FindDisplay returns the node carrying an exact display key.
func (t *Tree) FindDisplay(display string) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	id, ok := t.byDisplay[display]
	return id, ok
}

// Walk visits the tree in pre-order starting at the root. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t == nil || t.Root == NoNode {
		return
	}
	t.WalkFrom(t.Root, fn)
}

// WalkFrom is Walk rooted at id.
func (t *Tree) WalkFrom(id NodeID, fn func(n *Node) bool) {
	n := &t.Nodes[id]
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		t.WalkFrom(child, fn)
	}
}

// Subtree returns id and all of its descendants in pre-order.
func (t *Tree) Subtree(id NodeID) []NodeID {
	var out []NodeID
	t.WalkFrom(id, func(n *Node) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// PathTo returns the ids from the root down to id.
func (t *Tree) PathTo(id NodeID) []NodeID {
	var rev []NodeID
	for cur := id; cur != NoNode; cur = t.Nodes[cur].Parent {
		rev = append(rev, cur)
	}
	out := make([]NodeID, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}
