package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/testutil"
	"github.com/bomview/bomview/internal/watcher"
)

func TestApplyWatchEventMediaChange(t *testing.T) {
	ws := sampleWorkspace(t).Build()
	s, err := session.Open(ws.Workspace(), session.Options{Mode: media.KindFBX})
	require.NoError(t, err)

	p := ws.MediaPath(media.KindFBX, "P1")
	require.NoError(t, os.WriteFile(p, []byte("fbx"), 0o644))

	ev := applyWatchEvent(s, watcher.Event{Change: watcher.ChangeMedia, Kind: media.KindFBX, Paths: []string{p}})
	assert.Equal(t, "fbx", ev.Kind)
	assert.Equal(t, 2, ev.Counts["fbx"])
	assert.Equal(t, 6, ev.Nodes)
	// TOP, SUB1, P1, SUB2
	assert.Equal(t, 4, ev.Visible)
	assert.Empty(t, ev.TreeError)
}

func TestApplyWatchEventSheetChange(t *testing.T) {
	ws := sampleWorkspace(t).Build()
	s, err := session.Open(ws.Workspace(), session.Options{})
	require.NoError(t, err)

	rebuilt := testutil.NewTestWorkspace(t).
		WithRelations("TOP", "", "P9", "TOP").
		Build()
	content, err := os.ReadFile(rebuilt.Workspace().SheetPath())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ws.Workspace().SheetPath(), content, 0o644))

	ev := applyWatchEvent(s, watcher.Event{Change: watcher.ChangeSheet})
	assert.Empty(t, ev.TreeError)
	assert.Equal(t, 2, ev.Nodes)
	assert.Nil(t, ev.Counts)

	require.NoError(t, os.Remove(ws.Workspace().SheetPath()))
	ev = applyWatchEvent(s, watcher.Event{Change: watcher.ChangeSheet})
	assert.NotEmpty(t, ev.TreeError)
	assert.Equal(t, 0, ev.Nodes)
	assert.Equal(t, 0, ev.Visible)
}
