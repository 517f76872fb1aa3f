package export

import (
	"database/sql"
	"fmt"
	"strings"
)

// DB reads back an exported snapshot.
type DB struct {
	db *sql.DB
}

// Open opens an exported database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Counts returns the row count of each table.
func (d *DB) Counts() (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{"nodes", "media", "memos", "meta"} {
		var n int
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Meta returns the meta table.
func (d *DB) Meta() (map[string]string, error) {
	rows, err := d.db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}
	pairs, err := scanRows(rows, func(r *sql.Rows) ([2]string, error) {
		var kv [2]string
		err := r.Scan(&kv[0], &kv[1])
		return kv, err
	})
	if err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		meta[kv[0]] = kv[1]
	}
	return meta, nil
}

// MediaRow is one media table row.
type MediaRow struct {
	Kind string
	Key  string
	Path string
}

// MediaFor returns the media rows of the given keys, ordered by key then kind.
func (d *DB) MediaFor(keys []string) ([]MediaRow, error) {
	placeholders, args := inClauseArgs(keys)
	rows, err := d.db.Query(`SELECT kind, key, path FROM media WHERE key IN (`+placeholders+`) ORDER BY key, kind`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	return scanRows(rows, func(r *sql.Rows) (MediaRow, error) {
		var m MediaRow
		err := r.Scan(&m.Kind, &m.Key, &m.Path)
		return m, err
	})
}

// VisibleKeys returns the display keys of visible nodes in id order.
func (d *DB) VisibleKeys() ([]string, error) {
	rows, err := d.db.Query(`SELECT display_key FROM nodes WHERE visible = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	return scanRows(rows, func(r *sql.Rows) (string, error) {
		var k string
		err := r.Scan(&k)
		return k, err
	})
}

// inClauseArgs returns "?" placeholders for items, or "NULL" when empty so
// `IN (NULL)` matches nothing.
func inClauseArgs(items []string) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(items))
	args := make([]any, len(items))
	for i, item := range items {
		ph[i] = "?"
		args[i] = item
	}
	return strings.Join(ph, ", "), args
}

func scanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
