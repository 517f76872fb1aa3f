package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/launcher"
	"github.com/bomview/bomview/internal/logging"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/ui"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path
	configPath        string
	statePathFlag     string
	modeFlag          string
	logLevelFlag      string

	// Resolved values
	resolvedConfigPath string
	resolvedStatePath  string
	cfg                *config.Config
	state              *config.State
	workspace          *config.Workspace
	workspaceSource    config.Source
	logger             = zap.NewNop()
)

// Replaced in tests.
var (
	newOpener = func(c *config.Config) launcher.Opener {
		return launcher.NewSystem(c.Opener)
	}
	now = time.Now
)

// errReported is returned after a JSON error was already written.
var errReported = errors.New("error already reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bomv",
	Short: "bomview - browse a bill of materials and its part files",
	Long: `bomview shows the parts tree of a bill of materials spreadsheet and
links every part to its image, 3DXML and FBX files.

A workspace is a folder holding the spreadsheet (01_excel/data.xlsx), the
memo file, and one folder per media kind (00_image, 02_3dxml, 03_fbx).
Media files are matched to parts by the fourth underscore-separated
segment of their names, e.g. FA50_LINE_V1_P1234.png belongs to part P1234.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "Explicit path to workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "Media kind for this command: image, 3dxml or fbx")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
}

func preRun(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
		return nil
	}

	var err error
	cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
	if err != nil {
		return preRunError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "")
	}
	resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
	ui.ConfigureTheme(cfg.UI.Accent)
	logger = newLogger(cmd)

	state, err = config.LoadState(resolvedStatePath)
	if err != nil {
		return preRunError(ErrConfigInvalid, fmt.Errorf("failed to load state: %w", err), "")
	}

	if !needsWorkspace(cmd) {
		return nil
	}

	root, source, err := config.ResolveWorkspaceRoot(config.ResolveRequest{
		Path:   workspacePathFlag,
		Name:   workspaceName,
		Config: cfg,
		State:  state,
	})
	if err != nil {
		return preRunError(ErrWorkspaceNotFound, err, "Run 'bomv workspace list' to see configured workspaces")
	}
	ws, err := config.LoadWorkspace(root)
	if err != nil {
		return preRunError(ErrWorkspaceNotFound, err, fmt.Sprintf("Run 'bomv init %s' to create it", root))
	}
	workspace, workspaceSource = ws, source
	logger.Debug("workspace resolved",
		zap.String("dir", ws.Root),
		zap.String("source", string(source)))
	return nil
}

// needsWorkspace reports whether cmd operates on a workspace. init and the
// workspace registry commands only touch config files.
func needsWorkspace(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "init", "workspace":
			return false
		}
	}
	return true
}

func preRunError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputError(code, err.Error(), nil, suggestion)
		return errReported
	}
	return handleError(code, err, suggestion)
}

// newLogger builds the logger for cmd. scan and watch print their summaries
// at info unless a level is configured.
func newLogger(cmd *cobra.Command) *zap.Logger {
	logCfg := logging.Config{}
	if cfg != nil {
		logCfg = cfg.Log
	}
	if lvl := strings.TrimSpace(logLevelFlag); lvl != "" {
		logCfg.Level = lvl
	} else if strings.TrimSpace(logCfg.Level) == "" {
		switch cmd.Name() {
		case "scan", "watch":
			logCfg.Level = "info"
		}
	}
	return logging.NewOrNop(logCfg)
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}

// modeSource names where activeMode found the mode.
type modeSource string

const (
	modeFromFlag      modeSource = "flag"
	modeFromState     modeSource = "state"
	modeFromWorkspace modeSource = "workspace"
)

// activeMode resolves the media kind: --mode, then state.toml, then the
// workspace default.
func activeMode() (media.Kind, modeSource, error) {
	if s := strings.TrimSpace(modeFlag); s != "" {
		kind, err := media.ParseKind(s)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", errInvalidInput, err)
		}
		return kind, modeFromFlag, nil
	}
	if state != nil && state.Mode != "" {
		kind, err := media.ParseKind(state.Mode)
		if err == nil {
			return kind, modeFromState, nil
		}
		logger.Warn("ignoring unknown mode in state", zap.String("mode", state.Mode))
	}
	return workspace.DefaultMode(), modeFromWorkspace, nil
}

// openSession loads the resolved workspace in the active mode.
func openSession() (*session.Session, error) {
	mode, _, err := activeMode()
	if err != nil {
		return nil, err
	}
	return openSessionIn(mode)
}

func openSessionIn(mode media.Kind) (*session.Session, error) {
	return session.Open(workspace, session.Options{
		Mode:   mode,
		Opener: newOpener(cfg),
		Logger: logger,
		Now:    now,
	})
}

func sessionMeta(s *session.Session) *Meta {
	return &Meta{Mode: s.Mode().String(), Workspace: s.Workspace.Root}
}
