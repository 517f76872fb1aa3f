// Package session holds everything loaded for one workspace and implements
// the user-level actions on it: selecting, opening, searching, dropping,
// exporting and annotating parts.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/launcher"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/sheet"
	"github.com/bomview/bomview/internal/visibility"
)

var (
	// ErrNoTree is returned by tree operations when the spreadsheet could
	// not be turned into a tree.
	ErrNoTree = errors.New("no tree loaded")
	// ErrNodeNotFound is returned when no node matches a part key.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNoMedia is returned when a part has no file of the active kind.
	ErrNoMedia = errors.New("no file for this part in the active mode")
	// ErrFileMissing is returned when an indexed file is gone from disk.
	ErrFileMissing = errors.New("file does not exist")
)

// Options configures Open.
type Options struct {
	// Mode is the active media kind; empty uses the workspace default.
	Mode media.Kind
	// Reveal overrides the workspace reveal setting when non-nil.
	Reveal *bool
	Opener launcher.Opener
	Logger *zap.Logger
	// Now is the clock used for memo timestamps and copy folder names.
	Now func() time.Time
}

// Session is a loaded workspace.
type Session struct {
	Workspace *config.Workspace
	Table     *sheet.Table
	Lookup    *sheet.Lookup
	Tree      *bom.Tree
	Report    *bom.Report
	Index     *media.Index
	Memos     *memo.Store

	// TreeErr records why Tree is nil.
	TreeErr error

	mode     media.Kind
	filter   bool
	reveal   bool
	selected bom.NodeID

	opener launcher.Opener
	log    *zap.Logger
	now    func() time.Time
}

// Open loads the memo store, scans the media folders, builds the tree and
// computes visibility for the active mode. A spreadsheet that cannot be
// turned into a tree is not an error here; it leaves Tree nil with TreeErr
// set. Only memo I/O failures abort.
func Open(ws *config.Workspace, opts Options) (*Session, error) {
	start := time.Now()

	s := &Session{
		Workspace: ws,
		mode:      opts.Mode,
		reveal:    ws.Config.Reveal,
		selected:  bom.NoNode,
		opener:    opts.Opener,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.mode == "" {
		s.mode = ws.DefaultMode()
	}
	if opts.Reveal != nil {
		s.reveal = *opts.Reveal
	}
	if s.opener == nil {
		s.opener = launcher.NewSystem("")
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	store, err := memo.Open(ws.MemoPath(), memo.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	if store.ResetReason != "" {
		s.log.Warn("memo file unreadable, starting empty",
			zap.String("file", store.Path()),
			zap.String("reason", store.ResetReason))
	}
	s.Memos = store

	s.scan()
	s.loadTree()
	s.recompute()

	counts := s.Index.Counts()
	fields := []zap.Field{
		zap.String("workspace", ws.Root),
		zap.String("mode", s.mode.String()),
		zap.Int("image", counts[media.KindImage]),
		zap.Int("3dxml", counts[media.Kind3DXML]),
		zap.Int("fbx", counts[media.KindFBX]),
		zap.Int("nodes", s.Tree.Len()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if s.Report != nil {
		fields = append(fields, zap.Int("parts", s.Report.TotalParts))
	}
	s.log.Info("workspace loaded", fields...)
	return s, nil
}

func (s *Session) scan() {
	s.Index = media.BuildIndex(s.Workspace.Dirs())
	for _, a := range s.Index.Anomalies() {
		fields := []zap.Field{
			zap.String("kind", string(a.Kind)),
			zap.String("media", a.Media.String()),
			zap.String("dir", a.Dir),
		}
		if a.File != "" {
			fields = append(fields, zap.String("file", a.File))
		}
		if a.Key != "" {
			fields = append(fields, zap.String("key", a.Key))
		}
		if a.Existing != "" {
			fields = append(fields, zap.String("existing", a.Existing))
		}
		if a.Detail != "" {
			fields = append(fields, zap.String("detail", a.Detail))
		}
		s.log.Warn("media scan anomaly", fields...)
	}
}

func (s *Session) loadTree() {
	s.Tree, s.Report, s.Table, s.Lookup, s.TreeErr = nil, nil, nil, sheet.NewLookup(nil), nil

	path := s.Workspace.SheetPath()
	table, err := sheet.Load(path, s.Workspace.SheetName())
	if err != nil {
		s.treeFailed(fmt.Errorf("load %s: %w", path, err))
		return
	}
	s.Table = table
	s.Lookup = sheet.NewLookup(table)

	rows, err := table.RelationRows()
	if err != nil {
		s.treeFailed(fmt.Errorf("%s: %w", path, err))
		return
	}

	tree, report, err := bom.Build(rows)
	s.Report = report
	if err != nil {
		s.treeFailed(err)
		return
	}
	s.Tree = tree

	if len(report.Roots) > 1 {
		s.log.Warn("multiple root parts, using the first",
			zap.String("root", report.Root),
			zap.Strings("roots", report.Roots))
	}
	if len(report.OrphanParents) > 0 {
		s.log.Warn("parent parts with no row of their own",
			zap.Int("count", len(report.OrphanParents)),
			zap.Strings("keys", report.OrphanParents))
	}
	if len(report.Unreachable) > 0 {
		s.log.Warn("parts not reachable from the root",
			zap.Int("count", len(report.Unreachable)),
			zap.Strings("keys", report.Unreachable))
	}
}

func (s *Session) treeFailed(err error) {
	s.TreeErr = err
	s.log.Error("tree not built", zap.Error(err))
}

func (s *Session) recompute() {
	if s.Tree == nil {
		return
	}
	visibility.Compute(s.Tree, s.mode.String(), s.Index.Set(s.mode))
}

// Mode returns the active media kind.
func (s *Session) Mode() media.Kind { return s.mode }

// Filtering reports whether the visibility filter is on.
func (s *Session) Filtering() bool { return s.filter }

// Reveal reports whether Activate reveals instead of opening.
func (s *Session) Reveal() bool { return s.reveal }

// SetReveal switches between opening and revealing files.
func (s *Session) SetReveal(on bool) { s.reveal = on }

// Refresh rescans the media folders and recomputes visibility for the active
// mode. The filter setting is kept.
func (s *Session) Refresh() map[media.Kind]int {
	start := time.Now()
	s.scan()
	s.recompute()

	counts := s.Index.Counts()
	s.log.Info("media refreshed",
		zap.Int("image", counts[media.KindImage]),
		zap.Int("3dxml", counts[media.Kind3DXML]),
		zap.Int("fbx", counts[media.KindFBX]),
		zap.Int("anomalies", len(s.Index.Anomalies())),
		zap.Duration("elapsed", time.Since(start)))
	return counts
}

// Reload rereads the spreadsheet and rebuilds the tree. The selection is
// dropped since node ids change.
func (s *Session) Reload() error {
	s.loadTree()
	s.recompute()
	s.selected = bom.NoNode
	if s.TreeErr != nil {
		return s.TreeErr
	}
	s.log.Info("tree rebuilt",
		zap.Int("parts", s.Report.TotalParts),
		zap.Int("nodes", s.Tree.Len()))
	return nil
}

// SetMode switches the active media kind, recomputes visibility and turns
// the filter off.
func (s *Session) SetMode(kind media.Kind) {
	s.mode = kind
	s.filter = false
	s.recompute()
}

// SetFilter turns the visibility filter on or off and returns how many nodes
// are shown afterwards.
func (s *Session) SetFilter(on bool) int {
	s.filter = on
	if !on {
		return s.Tree.Len()
	}
	return visibility.Count(s.Tree)
}

// Shown returns the nodes to display in pre-order, honoring the filter.
func (s *Session) Shown() ([]bom.NodeID, error) {
	if s.Tree == nil {
		return nil, s.noTree()
	}
	if s.filter {
		return visibility.Filter(s.Tree)
	}
	ids := make([]bom.NodeID, 0, s.Tree.Len())
	s.Tree.Walk(func(n *bom.Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids, nil
}

func (s *Session) noTree() error {
	if s.TreeErr != nil {
		return fmt.Errorf("%w: %v", ErrNoTree, s.TreeErr)
	}
	return ErrNoTree
}
