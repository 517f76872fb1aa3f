package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(pairs ...string) []Row {
	out := make([]Row, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Row{PartNo: pairs[i], NextPart: pairs[i+1], Line: i/2 + 1})
	}
	return out
}

func childKeys(tree *Tree, id NodeID) []string {
	var out []string
	for _, c := range tree.Node(id).Children {
		out = append(out, tree.Node(c).DisplayKey)
	}
	return out
}

func TestBuildSimpleTree(t *testing.T) {
	tree, report, err := Build(rows("A", "", "B", "A", "C", "A", "D", "B"))
	require.NoError(t, err)

	root := tree.Node(tree.Root)
	assert.Equal(t, "A", root.Key)
	assert.Equal(t, []string{"B", "C"}, childKeys(tree, tree.Root))

	b, ok := tree.FindKey("B")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, childKeys(tree, b))
	assert.Equal(t, 1, tree.Node(b).Depth)

	assert.Equal(t, 4, report.TotalParts)
	assert.Equal(t, 4, report.NodeCount)
	assert.Equal(t, "A", report.Root)
	assert.Empty(t, report.Unreachable)
	assert.Empty(t, report.OrphanParents)
}

func TestBuildCycleWithoutRoot(t *testing.T) {
	tree, report, err := Build(rows("X", "Y", "Y", "X"))
	assert.ErrorIs(t, err, ErrNoRoot)
	assert.Nil(t, tree)
	assert.Equal(t, 2, report.TotalParts)
}

func TestBuildSharedSubassemblyBecomesDuplicateLeaf(t *testing.T) {
	tree, report, err := Build(rows(
		"TOP", "nan",
		"L", "TOP",
		"R", "TOP",
		"BOLT", "L",
		"BOLT", "R",
		"NUT", "BOLT",
	))
	require.NoError(t, err)

	l, _ := tree.FindKey("L")
	r, _ := tree.FindKey("R")
	assert.Equal(t, []string{"BOLT"}, childKeys(tree, l))
	assert.Equal(t, []string{"BOLTdup1"}, childKeys(tree, r))

	dup, ok := tree.FindDisplay("BOLTdup1")
	require.True(t, ok)
	assert.True(t, tree.Node(dup).Duplicate)
	assert.Equal(t, "BOLT", tree.Node(dup).Key)
	assert.Empty(t, tree.Node(dup).Children)

	first, _ := tree.FindKey("bolt")
	assert.Equal(t, []string{"NUT"}, childKeys(tree, first))
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 6, report.NodeCount)
}

func TestBuildDuplicateCounterIncrements(t *testing.T) {
	tree, _, err := Build(rows("A", "", "P", "A", "P", "A", "P", "A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"P", "Pdup1", "Pdup2"}, childKeys(tree, tree.Root))
}

func TestBuildSelfReferenceTerminates(t *testing.T) {
	tree, _, err := Build(rows("A", "", "A", "A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Adup1"}, childKeys(tree, tree.Root))
	assert.Equal(t, 2, tree.Len())
}

func TestBuildMultipleRootsPicksFirstInRowOrder(t *testing.T) {
	tree, report, err := Build(rows("Z", "", "A", "", "Q", "Z", "W", "A"))
	require.NoError(t, err)

	assert.Equal(t, "Z", tree.Node(tree.Root).Key)
	assert.Equal(t, []string{"Z", "A"}, report.Roots)
	assert.Equal(t, []string{"A", "W"}, report.Unreachable)
}

func TestBuildReportsOrphanParents(t *testing.T) {
	_, report, err := Build(rows("A", "", "B", "A", "C", "GHOST", "D", "C"))
	require.NoError(t, err)

	assert.Equal(t, []string{"GHOST"}, report.OrphanParents)
	assert.Equal(t, []string{"C", "D"}, report.Unreachable)
}

func TestRelationsSkipsEmptyPartNumbers(t *testing.T) {
	rel, roots, total := Relations(rows("", "A", "  ", "", "A", "", "B", " A "))
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"A"}, roots)
	assert.Equal(t, RelationMap{"A": {"B"}}, rel)
}

func TestTreeHelpers(t *testing.T) {
	tree, _, err := Build(rows("A", "", "B", "A", "C", "B"))
	require.NoError(t, err)

	c, _ := tree.FindKey("C")
	var keys []string
	for _, id := range tree.PathTo(c) {
		keys = append(keys, tree.Node(id).Key)
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)

	b, _ := tree.FindKey("B")
	assert.Len(t, tree.Subtree(b), 2)

	var visited []string
	tree.Walk(func(n *Node) bool {
		visited = append(visited, n.Key)
		return n.Key != "B"
	})
	assert.Equal(t, []string{"A", "B"}, visited)
}

func TestBuildDisplayKeysStayUnique(t *testing.T) {
	tree, _, err := Build(rows(
		"A", "",
		"B", "A",
		"C", "A",
		"B", "C",
		"Bdup1", "A",
	))
	require.NoError(t, err)

	seen := make(map[string]NodeID)
	for _, n := range tree.Nodes {
		prev, dup := seen[n.DisplayKey]
		require.False(t, dup, "display key %s used by nodes %d and %d", n.DisplayKey, prev, n.ID)
		seen[n.DisplayKey] = n.ID
		got, ok := tree.FindDisplay(n.DisplayKey)
		require.True(t, ok)
		assert.Equal(t, n.ID, got)
	}

	leaf, ok := tree.FindDisplay("Bdup1")
	require.True(t, ok)
	assert.Equal(t, "B", tree.Node(leaf).Key)
	assert.True(t, tree.Node(leaf).Duplicate)

	part, ok := tree.FindKey("Bdup1")
	require.True(t, ok)
	assert.Equal(t, "Bdup1dup1", tree.Node(part).DisplayKey)
	assert.False(t, tree.Node(part).Duplicate)
}
