package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/visibility"
)

type keySet map[string]bool

func (k keySet) Has(key string) bool { return k[key] }

func sampleTree(t *testing.T) *bom.Tree {
	t.Helper()
	rows := []bom.Row{
		{PartNo: "TOP", NextPart: ""},
		{PartNo: "A", NextPart: "TOP"},
		{PartNo: "B", NextPart: "TOP"},
		{PartNo: "C", NextPart: "A"},
		{PartNo: "C", NextPart: "B"},
	}
	tree, _, err := bom.Build(rows)
	require.NoError(t, err)
	visibility.Compute(tree, media.KindImage.String(), keySet{"C": true})
	return tree
}

func TestRenderTreeShowsEveryNode(t *testing.T) {
	tree := sampleTree(t)
	out := RenderTree(tree, TreeOptions{Mode: media.KindImage})

	for _, key := range []string{"TOP", "A", "B", "C", "Cdup1"} {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "╰──")
}

func TestRenderTreeFiltered(t *testing.T) {
	tree := sampleTree(t)
	visibility.Compute(tree, media.KindImage.String(), keySet{"A": true})
	shown, err := visibility.Filter(tree)
	require.NoError(t, err)

	out := RenderTree(tree, TreeOptions{Mode: media.KindImage, Shown: shown})
	assert.Contains(t, out, "TOP")
	assert.Contains(t, out, "A")
	assert.NotContains(t, out, "B")
	assert.NotContains(t, out, "C")
}

func TestRenderTreeRootHidden(t *testing.T) {
	tree := sampleTree(t)
	assert.Equal(t, "", RenderTree(tree, TreeOptions{Shown: []bom.NodeID{}}))
	assert.Equal(t, "", RenderTree(nil, TreeOptions{}))
}

func TestRenderTreeMaxDepth(t *testing.T) {
	tree := sampleTree(t)
	out := RenderTree(tree, TreeOptions{MaxDepth: 1})

	assert.Contains(t, out, "A (+1)")
	assert.Contains(t, out, "B (+1)")
	assert.NotContains(t, out, "Cdup1")
}

func TestRenderTreeMarksNodes(t *testing.T) {
	tree := sampleTree(t)
	id, ok := tree.FindDisplay("Cdup1")
	require.True(t, ok)

	out := RenderTree(tree, TreeOptions{Marked: map[bom.NodeID]bool{id: true}})
	assert.Contains(t, out, "Cdup1 "+MarkSymbol)
	assert.Equal(t, 1, strings.Count(out, MarkSymbol))
}
