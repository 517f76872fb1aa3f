// Package memo persists free-text notes per part in a single JSON document.
package memo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bomview/bomview/internal/atomicfile"
)

// TimestampLayout is the on-disk timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrEmptyMemo is returned when appending blank text.
var ErrEmptyMemo = errors.New("memo text is empty")

// Entry is one note.
type Entry struct {
	Text      string `json:"memo"`
	Timestamp string `json:"timestamp"`
}

// Entries is the note list of one part. It decodes from either a list or a
// single legacy object.
type Entries []Entry

func (e *Entries) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single Entry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*e = Entries{single}
		return nil
	}
	var list []Entry
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*e = list
	return nil
}

// Store is the in-memory copy of the memo document. Every mutation rewrites
// the whole file; concurrent writers are not coordinated.
type Store struct {
	path string
	data map[string]Entries
	now  func() time.Time

	// ResetReason is set when Open discarded an unreadable document.
	ResetReason string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the document at path. A missing file is created as an empty
// document and an empty file is read as one. A malformed file yields an empty
// store with ResetReason set. Only I/O failures are returned as errors.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, data: make(map[string]Entries), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create memo directory: %w", err)
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memo file %s: %w", path, err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return s, nil
	}

	var raw map[string]Entries
	if err := json.Unmarshal(content, &raw); err != nil {
		s.ResetReason = err.Error()
		return s, nil
	}
	for k, v := range raw {
		key := NormalizeKey(k)
		s.data[key] = append(s.data[key], v...)
	}
	return s, nil
}

// NormalizeKey trims and uppercases a part key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// Get returns a copy of the notes for key, oldest first.
func (s *Store) Get(key string) []Entry {
	entries := s.data[NormalizeKey(key)]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Append adds a note stamped with the current time and saves the document.
func (s *Store) Append(key, text string) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, ErrEmptyMemo
	}
	key = NormalizeKey(key)
	if key == "" {
		return Entry{}, fmt.Errorf("part key is required")
	}

	entry := Entry{Text: text, Timestamp: s.now().Format(TimestampLayout)}
	s.data[key] = append(s.data[key], entry)
	if err := s.Save(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Clear removes every note for key. It reports whether anything was removed
// and only saves in that case.
func (s *Store) Clear(key string) (bool, error) {
	key = NormalizeKey(key)
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	if err := s.Save(); err != nil {
		return true, err
	}
	return true, nil
}

// Keys returns every key with notes, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save rewrites the document.
func (s *Store) Save() error {
	if err := atomicfile.WriteJSON(s.path, s.data, 0); err != nil {
		return fmt.Errorf("failed to save memo file %s: %w", s.path, err)
	}
	return nil
}

// Format renders entries one per line as "[timestamp] text".
func Format(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.TrimSpace(e.Timestamp), strings.TrimSpace(e.Text)))
	}
	return strings.Join(lines, "\n")
}
