package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bomview/bomview/internal/atomicfile"
	"github.com/bomview/bomview/internal/media"
)

// WorkspaceFile is the per-workspace settings file name.
const WorkspaceFile = "bomview.yaml"

// Default workspace layout.
const (
	DefaultImageDir   = "00_image"
	DefaultModel3DDir = "02_3dxml"
	DefaultFBXDir     = "03_fbx"
	DefaultSheetPath  = "01_excel/data.xlsx"
	DefaultSheetName  = "Sheet1"
	DefaultMemoPath   = "01_excel/memo.json"
)

// WorkspaceConfig represents workspace-level configuration from bomview.yaml.
// Relative paths resolve against the workspace root.
type WorkspaceConfig struct {
	ImageDir   string `yaml:"image_dir,omitempty"`
	Model3DDir string `yaml:"model3d_dir,omitempty"`
	FBXDir     string `yaml:"fbx_dir,omitempty"`

	Sheet SheetConfig `yaml:"sheet,omitempty"`
	Memo  MemoConfig  `yaml:"memo,omitempty"`

	// DefaultMode is the media kind used when neither --mode nor state set one.
	DefaultMode string `yaml:"default_mode,omitempty"`

	// Reveal makes "open" show the file in the file manager instead of
	// launching it.
	Reveal bool `yaml:"reveal,omitempty"`
}

// SheetConfig locates the BOM spreadsheet.
type SheetConfig struct {
	Path string `yaml:"path,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// MemoConfig locates the memo document.
type MemoConfig struct {
	Path string `yaml:"path,omitempty"`
}

// DefaultWorkspaceConfig returns the default workspace configuration.
func DefaultWorkspaceConfig() *WorkspaceConfig {
	cfg := &WorkspaceConfig{}
	cfg.applyDefaults()
	return cfg
}

func (wc *WorkspaceConfig) applyDefaults() {
	if wc.ImageDir == "" {
		wc.ImageDir = DefaultImageDir
	}
	if wc.Model3DDir == "" {
		wc.Model3DDir = DefaultModel3DDir
	}
	if wc.FBXDir == "" {
		wc.FBXDir = DefaultFBXDir
	}
	if wc.Sheet.Path == "" {
		wc.Sheet.Path = DefaultSheetPath
	}
	if wc.Sheet.Name == "" {
		wc.Sheet.Name = DefaultSheetName
	}
	if wc.Memo.Path == "" {
		wc.Memo.Path = DefaultMemoPath
	}
	if wc.DefaultMode == "" {
		wc.DefaultMode = string(media.KindImage)
	}
}

// Workspace is a workspace root together with its resolved configuration.
type Workspace struct {
	Root   string
	Config *WorkspaceConfig
}

// LoadWorkspace reads bomview.yaml under root. A missing file yields the
// default layout.
func LoadWorkspace(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", abs)
	}

	cfg, err := LoadWorkspaceConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Workspace{Root: abs, Config: cfg}, nil
}

// LoadWorkspaceConfig loads bomview.yaml from root with defaults applied.
func LoadWorkspaceConfig(root string) (*WorkspaceConfig, error) {
	configPath := filepath.Join(root, WorkspaceFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultWorkspaceConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config %s: %w", configPath, err)
	}

	var cfg WorkspaceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config %s: %w", configPath, err)
	}
	if cfg.DefaultMode != "" {
		if _, err := media.ParseKind(cfg.DefaultMode); err != nil {
			return nil, fmt.Errorf("workspace config %s: default_mode: %w", configPath, err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// CreateDefaultWorkspaceConfig writes a commented bomview.yaml under root.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultWorkspaceConfig(root string) (bool, error) {
	configPath := filepath.Join(root, WorkspaceFile)

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# bomview workspace configuration
# Paths are relative to this directory.

# Media folders; file names look like A_B_C_<PARTNO>_... with the part
# number in the fourth underscore-separated segment.
image_dir: 00_image       # .png, .jpg
model3d_dir: 02_3dxml     # .3dxml
fbx_dir: 03_fbx           # .fbx

# BOM spreadsheet (.xlsx or .csv) with PartNo and NextPart columns.
sheet:
  path: 01_excel/data.xlsx
  name: Sheet1

# Per-part notes.
memo:
  path: 01_excel/memo.json

# Media kind highlighted by default: image, 3dxml or fbx.
default_mode: image

# Reveal files in the file manager instead of opening them.
reveal: false
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write workspace config: %w", err)
	}
	return true, nil
}

// SaveWorkspaceConfig writes cfg back to bomview.yaml.
func SaveWorkspaceConfig(root string, cfg *WorkspaceConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace config: %w", err)
	}
	if err := atomicfile.WriteFile(filepath.Join(root, WorkspaceFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", WorkspaceFile, err)
	}
	return nil
}

func (w *Workspace) resolve(p string) string {
	p = filepath.FromSlash(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(w.Root, p)
}

// Dirs returns the absolute media folder for every kind.
func (w *Workspace) Dirs() map[media.Kind]string {
	return map[media.Kind]string{
		media.KindImage: w.resolve(w.Config.ImageDir),
		media.Kind3DXML: w.resolve(w.Config.Model3DDir),
		media.KindFBX:   w.resolve(w.Config.FBXDir),
	}
}

// SheetPath returns the absolute spreadsheet path.
func (w *Workspace) SheetPath() string { return w.resolve(w.Config.Sheet.Path) }

// SheetName returns the worksheet holding the BOM.
func (w *Workspace) SheetName() string { return w.Config.Sheet.Name }

// MemoPath returns the absolute memo document path.
func (w *Workspace) MemoPath() string { return w.resolve(w.Config.Memo.Path) }

// DefaultMode returns the configured default media kind.
func (w *Workspace) DefaultMode() media.Kind {
	kind, err := media.ParseKind(w.Config.DefaultMode)
	if err != nil {
		return media.KindImage
	}
	return kind
}

// Init creates the folder layout under root: the three media folders, the
// spreadsheet folder, and bomview.yaml. Existing files are left alone.
func Init(root string) (*Workspace, bool, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create workspace %s: %w", root, err)
	}
	created, err := CreateDefaultWorkspaceConfig(root)
	if err != nil {
		return nil, false, err
	}
	ws, err := LoadWorkspace(root)
	if err != nil {
		return nil, false, err
	}
	for _, dir := range ws.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	for _, p := range []string{ws.SheetPath(), ws.MemoPath()} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, false, fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
		}
	}
	return ws, created, nil
}
