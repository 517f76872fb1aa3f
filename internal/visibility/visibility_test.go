package visibility

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomview/bomview/internal/bom"
)

type keySet map[string]bool

func (k keySet) Has(key string) bool { return k[key] }

func build(t *testing.T, pairs ...string) *bom.Tree {
	t.Helper()
	var rows []bom.Row
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, bom.Row{PartNo: pairs[i], NextPart: pairs[i+1]})
	}
	tree, _, err := bom.Build(rows)
	require.NoError(t, err)
	return tree
}

func node(t *testing.T, tree *bom.Tree, display string) *bom.Node {
	t.Helper()
	id, ok := tree.FindDisplay(display)
	require.True(t, ok, display)
	return tree.Node(id)
}

func TestComputePropagatesToAncestors(t *testing.T) {
	tree := build(t, "A", "", "B", "A", "C", "A", "D", "B")

	rootVisible := Compute(tree, "image", keySet{"D": true})

	assert.True(t, rootVisible)
	assert.Equal(t, Path, Classify(node(t, tree, "A")))
	assert.Equal(t, Path, Classify(node(t, tree, "B")))
	assert.Equal(t, Hidden, Classify(node(t, tree, "C")))
	assert.Equal(t, Self, Classify(node(t, tree, "D")))
	assert.Equal(t, "image", tree.VisibilityMode)
}

func TestComputeMatchesLowercaseKeys(t *testing.T) {
	tree := build(t, "a1", "", "b2", "a1")
	Compute(tree, "fbx", keySet{"B2": true})
	assert.True(t, node(t, tree, "b2").SelfVisible)
}

func TestComputeDuplicateLeafUsesRawKey(t *testing.T) {
	tree := build(t, "A", "", "L", "A", "R", "A", "P", "L", "P", "R")
	Compute(tree, "image", keySet{"P": true})

	assert.True(t, node(t, tree, "Pdup1").SelfVisible)
	assert.True(t, node(t, tree, "R").Visible)
}

func TestFilterShowsExactlyVisibleNodes(t *testing.T) {
	tree := build(t, "A", "", "B", "A", "C", "A", "D", "B", "E", "C")
	Compute(tree, "3dxml", keySet{"D": true})

	shown, err := Filter(tree)
	require.NoError(t, err)

	var keys []string
	for _, id := range shown {
		keys = append(keys, tree.Node(id).DisplayKey)
	}
	assert.Equal(t, []string{"A", "B", "D"}, keys)
	assert.Equal(t, 3, Count(tree))
}

func TestFilterRequiresCompute(t *testing.T) {
	tree := build(t, "A", "")
	_, err := Filter(tree)
	assert.ErrorIs(t, err, ErrStale)
	assert.Zero(t, Count(tree))
}

func TestRecomputeAfterIndexChange(t *testing.T) {
	tree := build(t, "A", "", "B", "A", "C", "A", "D", "B")
	Compute(tree, "image", keySet{"D": true})
	before := snapshot(tree)

	Compute(tree, "image", keySet{"C": true})
	after := snapshot(tree)

	changed := map[string]bool{}
	for k := range before {
		if before[k] != after[k] {
			changed[k] = true
		}
	}
	assert.Equal(t, map[string]bool{"B": true, "C": true, "D": true}, changed)
	assert.True(t, after["A"].visible)
}

type flags struct{ self, visible bool }

func snapshot(tree *bom.Tree) map[string]flags {
	out := make(map[string]flags, tree.Len())
	tree.Walk(func(n *bom.Node) bool {
		out[n.DisplayKey] = flags{n.SelfVisible, n.Visible}
		return true
	})
	return out
}

// subtreeHasSelf is the reference definition of Visible.
func subtreeHasSelf(tree *bom.Tree, id bom.NodeID, keys keySet) bool {
	for _, d := range tree.Subtree(id) {
		if keys[tree.Node(d).Key] {
			return true
		}
	}
	return false
}

func TestComputeRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(40)
		rows := []bom.Row{{PartNo: "P0"}}
		for i := 1; i < n; i++ {
			parent := fmt.Sprintf("P%d", rng.Intn(i))
			rows = append(rows, bom.Row{PartNo: fmt.Sprintf("P%d", i), NextPart: parent})
		}
		// A few repeated references to exercise duplicate leaves.
		for j := 0; j < 3; j++ {
			rows = append(rows, bom.Row{PartNo: fmt.Sprintf("P%d", rng.Intn(n)), NextPart: fmt.Sprintf("P%d", rng.Intn(n))})
		}
		tree, _, err := bom.Build(rows)
		require.NoError(t, err)

		keys := keySet{}
		for i := 0; i < n; i++ {
			if rng.Intn(5) == 0 {
				keys[fmt.Sprintf("P%d", i)] = true
			}
		}

		Compute(tree, "image", keys)
		first := snapshot(tree)
		Compute(tree, "image", keys)
		assert.Equal(t, first, snapshot(tree), "idempotent")

		shown, err := Filter(tree)
		require.NoError(t, err)
		shownSet := map[bom.NodeID]bool{}
		for _, id := range shown {
			shownSet[id] = true
		}

		tree.Walk(func(nd *bom.Node) bool {
			want := subtreeHasSelf(tree, nd.ID, keys)
			assert.Equal(t, want, nd.Visible, "round %d node %s", round, nd.DisplayKey)
			assert.Equal(t, nd.Visible, shownSet[nd.ID])
			if nd.Visible && nd.Parent != bom.NoNode {
				assert.True(t, shownSet[nd.Parent], "ancestor of visible node hidden")
			}
			return true
		})
	}
}
