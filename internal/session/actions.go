package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/sheet"
)

// Selection is what the user sees for a selected node.
type Selection struct {
	Node *bom.Node `json:"node"`
	// Path holds display keys from the root down to the node.
	Path []string `json:"path"`

	Fields []sheet.Field `json:"fields,omitempty"`
	// Found is false when the spreadsheet has no row for the part.
	Found bool `json:"found"`

	// Image is set when the part has an image that still exists.
	Image string                `json:"image,omitempty"`
	Media map[media.Kind]string `json:"media,omitempty"`
	Memos []memo.Entry          `json:"memos"`
}

// Find resolves a part key to a node: an exact display key first (so
// "Pdup1" names that occurrence), then the first occurrence of the key in
// any case, then a display key in any case.
func (s *Session) Find(key string) (bom.NodeID, error) {
	if s.Tree == nil {
		return bom.NoNode, s.noTree()
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return bom.NoNode, fmt.Errorf("%w: empty key", ErrNodeNotFound)
	}
	if id, ok := s.Tree.FindDisplay(key); ok {
		return id, nil
	}
	if id, ok := s.Tree.FindKey(key); ok {
		return id, nil
	}
	for i := range s.Tree.Nodes {
		if strings.EqualFold(s.Tree.Nodes[i].DisplayKey, key) {
			return s.Tree.Nodes[i].ID, nil
		}
	}
	return bom.NoNode, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
}

// Selected returns the selected node, if any.
func (s *Session) Selected() (bom.NodeID, bool) {
	return s.selected, s.selected != bom.NoNode
}

// Select makes key the current node and gathers its metadata, media and
// memos. A part missing from the spreadsheet is not an error.
func (s *Session) Select(key string) (*Selection, error) {
	id, err := s.Find(key)
	if err != nil {
		return nil, err
	}
	s.selected = id
	return s.selection(id), nil
}

func (s *Session) selection(id bom.NodeID) *Selection {
	n := s.Tree.Node(id)
	sel := &Selection{
		Node:  n,
		Media: make(map[media.Kind]string),
		Memos: s.Memos.Get(n.Key),
	}
	for _, p := range s.Tree.PathTo(id) {
		sel.Path = append(sel.Path, s.Tree.Node(p).DisplayKey)
	}

	if rec, err := s.Lookup.Find(n.Key); err == nil {
		sel.Found = true
		sel.Fields = sheet.FormatRecord(rec)
	} else {
		s.log.Debug("no spreadsheet row for part", zap.String("key", n.Key))
	}

	for _, kind := range media.Kinds {
		if p, ok := s.Index.Lookup(kind, n.Key); ok {
			sel.Media[kind] = p
		}
	}
	if p, ok := sel.Media[media.KindImage]; ok && fileExists(p) {
		sel.Image = p
	}
	return sel
}

// ActivateResult describes what Activate did.
type ActivateResult struct {
	Key      string     `json:"key"`
	Kind     media.Kind `json:"kind"`
	Path     string     `json:"path"`
	Revealed bool       `json:"revealed"`
}

// Activate opens the active-mode file of a node, or reveals it in the file
// manager when the reveal toggle is on.
func (s *Session) Activate(key string) (*ActivateResult, error) {
	path, n, err := s.mediaFile(key, s.mode)
	if err != nil {
		return nil, err
	}

	res := &ActivateResult{Key: n.Key, Kind: s.mode, Path: path, Revealed: s.reveal}
	if s.reveal {
		err = s.opener.Reveal(path)
	} else {
		err = s.opener.Open(path)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("file activated",
		zap.String("key", n.Key),
		zap.String("file", path),
		zap.Bool("revealed", s.reveal))
	return res, nil
}

func (s *Session) mediaFile(key string, kind media.Kind) (string, *bom.Node, error) {
	id, err := s.Find(key)
	if err != nil {
		return "", nil, err
	}
	n := s.Tree.Node(id)
	path, ok := s.Index.Lookup(kind, n.Key)
	if !ok {
		return "", n, fmt.Errorf("%w: %s has no %s file", ErrNoMedia, n.Key, kind.Label())
	}
	if !fileExists(path) {
		return "", n, fmt.Errorf("%w: %s", ErrFileMissing, path)
	}
	return path, n, nil
}

// Search finds a node by key and selects it. The result is the path of
// display keys from the root, which is what a view scrolls to.
func (s *Session) Search(text string) ([]string, error) {
	id, err := s.Find(text)
	if err != nil {
		s.log.Info("node not found", zap.String("key", strings.ToUpper(strings.TrimSpace(text))))
		return nil, err
	}
	s.selected = id
	var path []string
	for _, p := range s.Tree.PathTo(id) {
		path = append(path, s.Tree.Node(p).DisplayKey)
	}
	return path, nil
}

// DropMatch is one dropped file that matched a node.
type DropMatch struct {
	File       string     `json:"file"`
	Key        string     `json:"key"`
	DisplayKey string     `json:"display_key"`
	Node       bom.NodeID `json:"node"`
}

// DropResult lists matched files and the stems of those that did not match.
type DropResult struct {
	Matched   []DropMatch `json:"matched"`
	Unmatched []string    `json:"unmatched,omitempty"`
}

// Drop matches external files to nodes by the part key in their names. Each
// match becomes the selection in turn, so the last match stays selected.
func (s *Session) Drop(paths []string) (*DropResult, error) {
	if s.Tree == nil {
		return nil, s.noTree()
	}
	res := &DropResult{}
	for _, p := range paths {
		key := media.DropKey(p)
		id, err := s.Find(key)
		if err != nil {
			stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			res.Unmatched = append(res.Unmatched, stem)
			continue
		}
		s.selected = id
		n := s.Tree.Node(id)
		res.Matched = append(res.Matched, DropMatch{File: p, Key: n.Key, DisplayKey: n.DisplayKey, Node: id})
	}
	return res, nil
}

// ErrDestExists is returned when a copy would overwrite an existing file.
var ErrDestExists = errors.New("destination already exists")

// Extract copies the active-mode file of a node into destDir, keeping its
// name, and returns the new path.
func (s *Session) Extract(key, destDir string, overwrite bool) (string, error) {
	src, n, err := s.mediaFile(key, s.mode)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := copyFile(src, dest, overwrite); err != nil {
		return "", err
	}
	s.log.Info("file extracted", zap.String("key", n.Key), zap.String("file", dest))
	return dest, nil
}

// AddMemo appends a note to a node's part.
func (s *Session) AddMemo(key, text string) (memo.Entry, error) {
	id, err := s.Find(key)
	if err != nil {
		return memo.Entry{}, err
	}
	n := s.Tree.Node(id)
	entry, err := s.Memos.Append(n.Key, text)
	if err != nil {
		return memo.Entry{}, err
	}
	s.log.Info("memo saved", zap.String("key", n.Key), zap.String("timestamp", entry.Timestamp))
	return entry, nil
}

// ClearMemo removes every note of a node's part and reports whether any
// existed.
func (s *Session) ClearMemo(key string) (bool, error) {
	id, err := s.Find(key)
	if err != nil {
		return false, err
	}
	return s.Memos.Clear(s.Tree.Node(id).Key)
}

// MemosFor returns the notes for key. Display keys of duplicate occurrences
// resolve to their part.
func (s *Session) MemosFor(key string) []memo.Entry {
	if id, err := s.Find(key); err == nil {
		return s.Memos.Get(s.Tree.Node(id).Key)
	}
	return s.Memos.Get(key)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
