package memo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.ParseInLocation(TimestampLayout, ts, time.Local)
		if err != nil {
			panic(err)
		}
		return t
	}
}

func TestOpenCreatesMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01_excel", "memo.json")

	store, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
	assert.Empty(t, store.ResetReason)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", strings.TrimSpace(string(content)))
}

func TestAppendPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	store, err := Open(path, WithClock(fixedClock("2024-05-01 09:30:00")))
	require.NoError(t, err)

	entry, err := store.Append(" ab-1 ", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, Entry{Text: "hello", Timestamp: "2024-05-01 09:30:00"}, entry)

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry}, reloaded.Get("AB-1"))
	assert.Equal(t, []Entry{entry}, reloaded.Get("ab-1"))
}

func TestAppendKeepsOrder(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "memo.json"))
	require.NoError(t, err)

	_, err = store.Append("P", "first")
	require.NoError(t, err)
	_, err = store.Append("P", "second")
	require.NoError(t, err)

	got := store.Get("P")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
}

func TestAppendRejectsEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	store, err := Open(path)
	require.NoError(t, err)

	_, err = store.Append("P", "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyMemo)
	assert.Empty(t, store.Get("P"))
}

func TestGetReturnsCopy(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "memo.json"))
	require.NoError(t, err)
	_, err = store.Append("P", "note")
	require.NoError(t, err)

	got := store.Get("P")
	got[0].Text = "changed"
	assert.Equal(t, "note", store.Get("P")[0].Text)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Append("P", "note")
	require.NoError(t, err)

	removed, err := store.Clear("p")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Clear("p")
	require.NoError(t, err)
	assert.False(t, removed)

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Keys())
}

func TestOpenMalformedDocumentResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	assert.NotEmpty(t, store.ResetReason)
	assert.Empty(t, store.Keys())
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, store.ResetReason)
	assert.Empty(t, store.Keys())
}

func TestOpenAcceptsLegacySingleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	doc := `{
    "a-1": {"memo": "legacy", "timestamp": "2023-01-01 00:00:00"},
    "B-2": [{"memo": "listed", "timestamp": "2023-01-02 00:00:00"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "B-2"}, store.Keys())
	assert.Equal(t, []Entry{{Text: "legacy", Timestamp: "2023-01-01 00:00:00"}}, store.Get("A-1"))
}

func TestSaveWritesNonASCIIUnescaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.json")
	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Append("P", "검토 필요 <urgent>")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "검토 필요 <urgent>")
}

func TestFormat(t *testing.T) {
	out := Format([]Entry{
		{Text: "one", Timestamp: "2024-01-01 10:00:00"},
		{Text: " two ", Timestamp: "2024-01-02 11:00:00"},
	})
	assert.Equal(t, "[2024-01-01 10:00:00] one\n[2024-01-02 11:00:00] two", out)
	assert.Empty(t, Format(nil))
}
