package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/media"
)

// CopyFolderLayout is the timestamp suffix of bulk-copy folder names.
const CopyFolderLayout = "20060102-150405"

// CopiedFile is one file written by BulkCopy.
type CopiedFile struct {
	Kind   media.Kind `json:"kind"`
	Key    string     `json:"key"`
	Source string     `json:"source"`
	Dest   string     `json:"dest"`
}

// CopyFailure is a file BulkCopy could not copy.
type CopyFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// CopyReport summarizes a bulk copy.
type CopyReport struct {
	Folder string       `json:"folder"`
	Parts  int          `json:"parts"`
	Copied []CopiedFile `json:"copied"`
	// NoMedia lists parts in the subtree with no file of any kind.
	NoMedia []string      `json:"no_media,omitempty"`
	Failed  []CopyFailure `json:"failed,omitempty"`
}

// BulkCopy copies every media file of every kind for a node and all of its
// descendants into a new folder under destRoot named after the part and the
// current time. An existing folder of that name is never reused.
func (s *Session) BulkCopy(key, destRoot string) (*CopyReport, error) {
	id, err := s.Find(key)
	if err != nil {
		return nil, err
	}
	root := s.Tree.Node(id)

	name := slug.Make(root.Key)
	if name == "" {
		name = "part"
	}
	folder := filepath.Join(destRoot, name+"-"+s.now().Format(CopyFolderLayout))

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destRoot, err)
	}
	if err := os.Mkdir(folder, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrDestExists, folder)
		}
		return nil, fmt.Errorf("failed to create %s: %w", folder, err)
	}

	report := &CopyReport{Folder: folder}
	done := make(map[string]bool)
	for _, nid := range s.Tree.Subtree(id) {
		k := s.Tree.Node(nid).Key
		if done[k] {
			continue
		}
		done[k] = true
		report.Parts++

		found := false
		for _, kind := range media.Kinds {
			src, ok := s.Index.Lookup(kind, k)
			if !ok {
				continue
			}
			found = true
			dest := filepath.Join(folder, filepath.Base(src))
			if err := copyFile(src, dest, false); err != nil {
				report.Failed = append(report.Failed, CopyFailure{Source: src, Error: err.Error()})
				s.log.Warn("copy failed", zap.String("file", src), zap.Error(err))
				continue
			}
			report.Copied = append(report.Copied, CopiedFile{Kind: kind, Key: k, Source: src, Dest: dest})
		}
		if !found {
			report.NoMedia = append(report.NoMedia, k)
		}
	}

	s.log.Info("bulk copy finished",
		zap.String("key", root.Key),
		zap.String("dir", folder),
		zap.Int("count", len(report.Copied)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("no_media", len(report.NoMedia)))
	return report, nil
}

// copyFile copies src to dest. Without overwrite an existing dest is
// rejected with ErrDestExists; dest is always rejected when it is src.
func copyFile(src, dest string, overwrite bool) (err error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileMissing, src)
		}
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if srcInfo, err := in.Stat(); err == nil {
		if destInfo, err := os.Stat(dest); err == nil && os.SameFile(srcInfo, destInfo) {
			return fmt.Errorf("%w: %s is the source file", ErrDestExists, dest)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := os.OpenFile(dest, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestExists, dest)
		}
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dest, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}
