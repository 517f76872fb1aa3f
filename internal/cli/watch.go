package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/ui"
	"github.com/bomview/bomview/internal/visibility"
	"github.com/bomview/bomview/internal/watcher"
)

type watchEvent struct {
	Change    watcher.Change `json:"change"`
	Kind      string         `json:"kind,omitempty"`
	Files     []string       `json:"files"`
	Counts    map[string]int `json:"counts,omitempty"`
	Nodes     int            `json:"nodes"`
	Visible   int            `json:"visible_nodes"`
	TreeError string         `json:"tree_error,omitempty"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and refresh on changes",
	Long: `Watches the media folders and the spreadsheet and refreshes as files
change. Media changes rescan the folders; a spreadsheet change rebuilds the
tree. Each refresh prints a one-line summary (one JSON document with --json).

Changes are debounced: a burst of file events triggers one refresh.

Examples:
  bomv watch
  bomv watch --mode fbx --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}

	w, err := watcher.New(watcher.Config{
		MediaDirs: s.Workspace.Dirs(),
		SheetPath: s.Workspace.SheetPath(),
		Logger:    logger,
		OnChange: func(ev watcher.Event) {
			reportWatchEvent(applyWatchEvent(s, ev))
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !isJSONOutput() {
		fmt.Printf("Watching workspace: %s\n", ui.FilePath(s.Workspace.Root))
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	}

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	if !isJSONOutput() {
		fmt.Println("\nStopped watching.")
	}
	return nil
}

// applyWatchEvent refreshes s for ev and summarizes the result.
func applyWatchEvent(s *session.Session, ev watcher.Event) watchEvent {
	out := watchEvent{Change: ev.Change, Kind: ev.Kind.String(), Files: ev.Paths}
	switch ev.Change {
	case watcher.ChangeSheet:
		if err := s.Reload(); err != nil {
			out.TreeError = err.Error()
			logger.Warn("tree rebuild failed", zap.Error(err))
		}
	case watcher.ChangeMedia:
		counts := s.Refresh()
		out.Counts = make(map[string]int, len(counts))
		for kind, n := range counts {
			out.Counts[kind.String()] = n
		}
	}
	out.Nodes = s.Tree.Len()
	out.Visible = visibility.Count(s.Tree)
	return out
}

func reportWatchEvent(ev watchEvent) {
	if isJSONOutput() {
		outputSuccess(ev, nil)
		return
	}
	stamp := ui.Hint(now().Format("15:04:05"))
	switch {
	case ev.TreeError != "":
		fmt.Printf("%s %s\n", stamp, ui.Warningf("spreadsheet changed, tree not built: %s", ev.TreeError))
	case ev.Change == watcher.ChangeSheet:
		fmt.Printf("%s %s\n", stamp, ui.Infof("spreadsheet changed: %s", ui.Plural("node", ev.Nodes)))
	default:
		fmt.Printf("%s %s\n", stamp, ui.Infof("%s files changed: %d image, %d 3dxml, %d fbx", ev.Kind, ev.Counts["image"], ev.Counts["3dxml"], ev.Counts["fbx"]))
	}
}
