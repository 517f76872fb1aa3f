package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/visibility"
)

func snapshot(t *testing.T) Snapshot {
	t.Helper()
	tree, _, err := bom.Build([]bom.Row{
		{PartNo: "TOP"},
		{PartNo: "A", NextPart: "TOP"},
		{PartNo: "B", NextPart: "TOP"},
		{PartNo: "C", NextPart: "A"},
		{PartNo: "C", NextPart: "B"},
	})
	require.NoError(t, err)

	idx := media.NewIndex(map[media.Kind]media.Set{
		media.KindImage: {"C": "/ws/00_image/x_y_z_C.png"},
		media.KindFBX:   {"A": "/ws/03_fbx/x_y_z_A.fbx", "TOP": "/ws/03_fbx/x_y_z_TOP.fbx"},
	})
	visibility.Compute(tree, media.KindImage.String(), idx.Set(media.KindImage))

	store, err := memo.Open(filepath.Join(t.TempDir(), "memo.json"))
	require.NoError(t, err)
	_, err = store.Append("C", "first")
	require.NoError(t, err)
	_, err = store.Append("C", "second")
	require.NoError(t, err)

	return Snapshot{
		Workspace: "/ws",
		Mode:      media.KindImage,
		Tree:      tree,
		Index:     idx,
		Memos:     store,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bom.db")
	require.NoError(t, WriteSQLite(path, snapshot(t)))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	counts, err := db.Counts()
	require.NoError(t, err)
	assert.Equal(t, 5, counts["nodes"])
	assert.Equal(t, 3, counts["media"])
	assert.Equal(t, 2, counts["memos"])

	meta, err := db.Meta()
	require.NoError(t, err)
	assert.Equal(t, "TOP", meta["root"])
	assert.Equal(t, "image", meta["mode"])
	assert.Equal(t, "2024-05-01T09:30:00Z", meta["created_at"])

	visible, err := db.VisibleKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"TOP", "A", "C", "B", "Cdup1"}, visible)

	rows, err := db.MediaFor([]string{"A", "TOP"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, MediaRow{Kind: "fbx", Key: "A", Path: "/ws/03_fbx/x_y_z_A.fbx"}, rows[0])

	none, err := db.MediaFor(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWriteSQLiteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	snap := snapshot(t)
	snap.Tree = nil
	require.NoError(t, WriteSQLite(path, snap))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	counts, err := db.Counts()
	require.NoError(t, err)
	assert.Zero(t, counts["nodes"])
	assert.Equal(t, 3, counts["media"])

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
