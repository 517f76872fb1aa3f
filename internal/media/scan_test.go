package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestKeyFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{name: "FA50_ASSY_R1_ab-123.png", want: "AB-123", ok: true},
		{name: "a_b_c_d_e.jpg", want: "D", ok: true},
		{name: "x_y_z_Part7.tar.3dxml", want: "PART7.TAR", ok: true},
		{name: "a_b_c.png", ok: false},
		{name: "plain.fbx", ok: false},
		{name: "a_b_c_.png", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFromFilename(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDropKey(t *testing.T) {
	assert.Equal(t, "P100", DropKey("/tmp/A_B_C_p100.png"))
	assert.Equal(t, "LOOSE-NAME", DropKey("/tmp/loose-name.step"))
}

func TestScanFiltersAndReports(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"a_b_c_P1.png",
		"a_b_c_P2.JPG",
		"a_b_c_P3.gif",
		"short_name.png",
		"readme.txt",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a_b_c_P9.png"), 0o755))

	res := Scan(dir, KindImage.Extensions())

	assert.Equal(t, 3, res.Qualifying)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, filepath.Join(dir, "a_b_c_P1.png"), res.Entries["P1"])
	assert.Contains(t, res.Entries, "P2")
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyInvalidName, res.Anomalies[0].Kind)
	assert.Equal(t, "short_name.png", res.Anomalies[0].File)
}

func TestScanFirstSeenWins(t *testing.T) {
	dir := t.TempDir()
	// os.ReadDir returns entries sorted by name, so "a_" is seen before "b_".
	touch(t, dir, "a_x_y_P1.fbx", "b_x_y_p1.fbx", "c_x_y_P2.fbx")

	res := Scan(dir, KindFBX.Extensions())

	assert.Equal(t, 3, res.Qualifying)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, filepath.Join(dir, "a_x_y_P1.fbx"), res.Entries["P1"])
	require.Len(t, res.Anomalies, 1)
	dup := res.Anomalies[0]
	assert.Equal(t, AnomalyDuplicateKey, dup.Kind)
	assert.Equal(t, "b_x_y_p1.fbx", dup.File)
	assert.Equal(t, "a_x_y_P1.fbx", dup.Existing)
	assert.Equal(t, "P1", dup.Key)
}

func TestScanSizeBound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_b_c_K1.3dxml", "a_b_d_K2.3dxml", "a_b_e_K3.3DXML")

	res := Scan(dir, Kind3DXML.Extensions())
	assert.Equal(t, res.Qualifying, len(res.Entries))
	assert.Empty(t, res.Anomalies)
}

func TestScanMissingDir(t *testing.T) {
	res := Scan(filepath.Join(t.TempDir(), "nope"), KindImage.Extensions())

	assert.Empty(t, res.Entries)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyMissingDir, res.Anomalies[0].Kind)
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "img"), "a_b_c_P1.png")
	touch(t, filepath.Join(root, "fbx"), "a_b_c_P2.fbx", "bad.fbx")

	idx := BuildIndex(map[Kind]string{
		KindImage: filepath.Join(root, "img"),
		Kind3DXML: filepath.Join(root, "missing"),
		KindFBX:   filepath.Join(root, "fbx"),
	})

	assert.Equal(t, map[Kind]int{KindImage: 1, Kind3DXML: 0, KindFBX: 1}, idx.Counts())
	assert.True(t, idx.Has(KindImage, "p1"))
	assert.False(t, idx.Has(KindFBX, "P1"))

	path, ok := idx.Lookup(KindFBX, " p2 ")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "fbx", "a_b_c_P2.fbx"), path)

	var kinds []AnomalyKind
	for _, a := range idx.Anomalies() {
		kinds = append(kinds, a.Kind)
		assert.NotEmpty(t, a.Media)
	}
	assert.ElementsMatch(t, []AnomalyKind{AnomalyMissingDir, AnomalyInvalidName}, kinds)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindImage, "IMAGE": KindImage, "xml3d": Kind3DXML, "3dxml": Kind3DXML, "Fbx": KindFBX} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("step")
	assert.Error(t, err)
}
