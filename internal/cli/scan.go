package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/bom"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/ui"
)

type scanFolder struct {
	Kind  media.Kind `json:"kind"`
	Dir   string     `json:"dir"`
	Files int        `json:"files"`
}

type scanResult struct {
	Folders   []scanFolder    `json:"folders"`
	Anomalies []media.Anomaly `json:"anomalies,omitempty"`
	Report    *bom.Report     `json:"tree,omitempty"`
	TreeError string          `json:"tree_error,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Index the media folders and check the spreadsheet",
	Long: `Scans the image, 3DXML and FBX folders, builds the tree and reports
what was skipped: files whose names have no part key, keys found twice,
missing folders, and spreadsheet rows that do not fit the tree.

Examples:
  bomv scan
  bomv scan --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		res := collectScan(s)

		if isJSONOutput() {
			var warnings []Warning
			for _, a := range res.Anomalies {
				warnings = append(warnings, Warning{Code: WarnScanAnomaly, Message: anomalyText(a), Key: a.Key, File: a.File})
			}
			warnings = append(warnings, treeWarnings(s)...)
			warnings = append(warnings, memoWarnings(s)...)
			meta := sessionMeta(s)
			meta.ElapsedMs = time.Since(start).Milliseconds()
			outputSuccessWithWarnings(res, warnings, meta)
			return nil
		}

		fmt.Println(ui.Header("Media"))
		tbl := ui.NewTable("KIND", "FILES", "FOLDER")
		for _, f := range res.Folders {
			tbl.AddRow(f.Kind.Label(), fmt.Sprintf("%d", f.Files), f.Dir)
		}
		fmt.Print(tbl.String())

		if len(res.Anomalies) > 0 {
			fmt.Println()
			fmt.Println(ui.Header("Skipped " + ui.Count(len(res.Anomalies), "file")))
			skipped := ui.NewTable()
			for _, a := range res.Anomalies {
				name := a.File
				if name != "" {
					name = filepath.Base(name)
				}
				skipped.AddRow(a.Media.Label(), name, anomalyText(a))
			}
			fmt.Print(skipped.String())
		}

		fmt.Println()
		fmt.Println(ui.Header("Tree"))
		if res.TreeError != "" {
			fmt.Println(ui.Warning(res.TreeError))
			return nil
		}
		r := res.Report
		fmt.Printf("%s, %s from root %s", ui.Plural("part", r.TotalParts), ui.Plural("node", r.NodeCount), ui.AccentBold.Render(r.Root))
		if r.Duplicates > 0 {
			fmt.Printf(" %s", ui.Hint(fmt.Sprintf("(%d repeated)", r.Duplicates)))
		}
		fmt.Println()
		for _, w := range treeWarnings(s) {
			if w.Key != "" {
				fmt.Println(ui.Warningf("%s: %s", w.Key, w.Message))
			} else {
				fmt.Println(ui.Warning(w.Message))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func collectScan(s *session.Session) scanResult {
	res := scanResult{Anomalies: s.Index.Anomalies(), Report: s.Report}
	counts := s.Index.Counts()
	dirs := s.Workspace.Dirs()
	for _, kind := range media.Kinds {
		res.Folders = append(res.Folders, scanFolder{Kind: kind, Dir: dirs[kind], Files: counts[kind]})
	}
	if s.TreeErr != nil {
		res.TreeError = s.TreeErr.Error()
	}
	return res
}

func anomalyText(a media.Anomaly) string {
	switch a.Kind {
	case media.AnomalyMissingDir:
		return "folder does not exist: " + a.Dir
	case media.AnomalyInvalidName:
		return "name has no part key"
	case media.AnomalyDuplicateKey:
		return fmt.Sprintf("key %s already taken by %s", a.Key, filepath.Base(a.Existing))
	}
	if a.Detail != "" {
		return strings.ReplaceAll(string(a.Kind), "_", " ") + ": " + a.Detail
	}
	return strings.ReplaceAll(string(a.Kind), "_", " ")
}
