// Package export writes a workspace snapshot (tree, visibility flags, media
// index and memos) to a standalone SQLite database.
package export

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/memo"
)

// SchemaVersion is stored in the meta table.
const SchemaVersion = 1

const schema = `
CREATE TABLE nodes (
	id           INTEGER PRIMARY KEY,
	parent_id    INTEGER REFERENCES nodes(id),
	key          TEXT NOT NULL,
	display_key  TEXT NOT NULL UNIQUE,
	depth        INTEGER NOT NULL,
	duplicate    INTEGER NOT NULL,
	self_visible INTEGER NOT NULL,
	visible      INTEGER NOT NULL
);
CREATE INDEX idx_nodes_key ON nodes(key);
CREATE INDEX idx_nodes_parent ON nodes(parent_id);

CREATE TABLE media (
	kind TEXT NOT NULL,
	key  TEXT NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY (kind, key)
);

CREATE TABLE memos (
	key       TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	text      TEXT NOT NULL,
	PRIMARY KEY (key, seq)
);

CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Snapshot is what gets exported. Tree may be nil when the spreadsheet could
// not be loaded; the media and memo tables are still written.
type Snapshot struct {
	Workspace string
	Mode      media.Kind
	Tree      *bom.Tree
	Index     *media.Index
	Memos     *memo.Store
	CreatedAt time.Time
}

// WriteSQLite writes snap to a fresh database at path, replacing any existing
// file only once the new one is complete.
func WriteSQLite(path string, snap Snapshot) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp-%d", path, os.Getpid())
	if err := removeDatabaseFiles(tmp); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = removeDatabaseFiles(tmp)
		}
	}()

	db, err := sql.Open("sqlite", tmp)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := write(db, snap); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := removeDatabaseFiles(path); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}

func write(db *sql.DB, snap Snapshot) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeNodes(tx, snap.Tree); err != nil {
		return err
	}
	if err := writeMedia(tx, snap.Index); err != nil {
		return err
	}
	if err := writeMemos(tx, snap.Memos); err != nil {
		return err
	}
	if err := writeMeta(tx, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

func writeNodes(tx *sql.Tx, tree *bom.Tree) error {
	if tree == nil {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO nodes
		(id, parent_id, key, display_key, depth, duplicate, self_visible, visible)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer stmt.Close()

	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		var parent any
		if n.Parent != bom.NoNode {
			parent = int(n.Parent)
		}
		if _, err := stmt.Exec(int(n.ID), parent, n.Key, n.DisplayKey, n.Depth,
			boolInt(n.Duplicate), boolInt(n.SelfVisible), boolInt(n.Visible)); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.DisplayKey, err)
		}
	}
	return nil
}

func writeMedia(tx *sql.Tx, idx *media.Index) error {
	stmt, err := tx.Prepare(`INSERT INTO media (kind, key, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare media insert: %w", err)
	}
	defer stmt.Close()

	for _, kind := range media.Kinds {
		set := idx.Set(kind)
		for _, key := range set.Keys() {
			if _, err := stmt.Exec(kind.String(), key, set[key]); err != nil {
				return fmt.Errorf("failed to insert media %s/%s: %w", kind, key, err)
			}
		}
	}
	return nil
}

func writeMemos(tx *sql.Tx, store *memo.Store) error {
	if store == nil {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO memos (key, seq, timestamp, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare memo insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range store.Keys() {
		for seq, e := range store.Get(key) {
			if _, err := stmt.Exec(key, seq, e.Timestamp, e.Text); err != nil {
				return fmt.Errorf("failed to insert memo for %s: %w", key, err)
			}
		}
	}
	return nil
}

func writeMeta(tx *sql.Tx, snap Snapshot) error {
	created := snap.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"workspace":      snap.Workspace,
		"mode":           snap.Mode.String(),
		"created_at":     created.Format(time.RFC3339),
	}
	if snap.Tree != nil {
		meta["root"] = snap.Tree.Node(snap.Tree.Root).Key
		meta["visibility_mode"] = snap.Tree.VisibilityMode
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to insert meta %s: %w", k, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm", dbPath + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
