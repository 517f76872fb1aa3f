// Package testutil builds throwaway bomview workspaces for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/media"
)

// TestWorkspace is a temporary workspace under construction.
type TestWorkspace struct {
	Path string
	t    *testing.T

	headers []string
	rows    [][]string
	media   map[media.Kind][]string
	files   map[string]string
	noSheet bool
}

// NewTestWorkspace creates a workspace builder. Call Build to write it.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:       t,
		headers: []string{"PartNo", "NextPart"},
		media:   make(map[media.Kind][]string),
		files:   make(map[string]string),
	}
}

// WithRelations adds PartNo/NextPart rows given as alternating pairs.
func (w *TestWorkspace) WithRelations(pairs ...string) *TestWorkspace {
	for i := 0; i+1 < len(pairs); i += 2 {
		w.rows = append(w.rows, []string{pairs[i], pairs[i+1]})
	}
	return w
}

// WithSheet replaces the spreadsheet contents.
func (w *TestWorkspace) WithSheet(headers []string, rows [][]string) *TestWorkspace {
	w.headers = headers
	w.rows = rows
	return w
}

// WithoutSheet skips writing the spreadsheet.
func (w *TestWorkspace) WithoutSheet() *TestWorkspace {
	w.noSheet = true
	return w
}

// WithMedia adds media files for the given part keys.
func (w *TestWorkspace) WithMedia(kind media.Kind, keys ...string) *TestWorkspace {
	w.media[kind] = append(w.media[kind], keys...)
	return w
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(relPath, content string) *TestWorkspace {
	w.files[relPath] = content
	return w
}

// WithConfig sets the bomview.yaml content.
func (w *TestWorkspace) WithConfig(yaml string) *TestWorkspace {
	w.files[config.WorkspaceFile] = yaml
	return w
}

// MediaName is the file name used for a part's media of kind.
func MediaName(kind media.Kind, key string) string {
	return "FA50_LINE_V1_" + key + kind.Extensions()[0]
}

// Build writes the default layout plus everything configured.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()
	w.Path = w.t.TempDir()

	for path, content := range w.files {
		w.writeFile(path, content)
	}

	ws := w.Workspace()
	for kind, dir := range ws.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.t.Fatalf("failed to create directory %s: %v", dir, err)
		}
		for _, key := range w.media[kind] {
			p := filepath.Join(dir, MediaName(kind, key))
			if err := os.WriteFile(p, []byte(kind.String()+":"+key), 0o644); err != nil {
				w.t.Fatalf("failed to write media %s: %v", p, err)
			}
		}
	}

	if !w.noSheet {
		w.writeSheet(ws.SheetPath(), ws.SheetName())
	}
	return w
}

func (w *TestWorkspace) writeSheet(path, sheetName string) {
	w.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheetName != "Sheet1" {
		if _, err := f.NewSheet(sheetName); err != nil {
			w.t.Fatalf("failed to add sheet %s: %v", sheetName, err)
		}
	}

	all := append([][]string{w.headers}, w.rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.t.Fatalf("cell name: %v", err)
		}
		values := make([]any, len(r))
		for j, v := range r {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			w.t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		w.t.Fatalf("failed to save %s: %v", path, err)
	}
}

// Workspace loads the built workspace.
func (w *TestWorkspace) Workspace() *config.Workspace {
	w.t.Helper()
	ws, err := config.LoadWorkspace(w.Path)
	if err != nil {
		w.t.Fatalf("failed to load workspace: %v", err)
	}
	return ws
}

// MediaPath returns the path of a part's media file of kind.
func (w *TestWorkspace) MediaPath(kind media.Kind, key string) string {
	return filepath.Join(w.Workspace().Dirs()[kind], MediaName(kind, key))
}

func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file relative to the workspace root.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(filepath.Join(w.Path, relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}
