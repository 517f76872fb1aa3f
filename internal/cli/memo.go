package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/ui"
)

var memoClearYes bool

type memoSummary struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Last  string `json:"last"`
}

var memoCmd = &cobra.Command{
	Use:   "memo",
	Short: "Read and write part memos",
	Long: `Memos are timestamped notes kept per part in the workspace memo file
(01_excel/memo.json by default). Notes on a repeated part (P1234dup1) are
stored under the part's own key.`,
	Args: cobra.NoArgs,
	RunE: runMemoList,
}

var memoListCmd = &cobra.Command{
	Use:   "list [part]",
	Short: "List memos of a part, or every part with memos",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMemoList,
}

var memoAddCmd = &cobra.Command{
	Use:   "add <part> <text>...",
	Short: "Append a memo to a part",
	Long: `Appends a timestamped memo. The remaining arguments are joined with
spaces.

Examples:
  bomv memo add P1234 "torque spec changed, see ECN 42"
  bomv memo add P1234dup1 check fit`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		entry, err := s.AddMemo(args[0], text)
		if err != nil {
			return fail(err)
		}

		key := memoKey(s, args[0])
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"key":   key,
				"entry": entry,
				"memos": s.Memos.Get(key),
			}, sessionMeta(s))
			return nil
		}
		fmt.Println(ui.Successf("Saved memo for %s at %s", ui.AccentBold.Render(key), entry.Timestamp))
		return nil
	},
}

var memoClearCmd = &cobra.Command{
	Use:   "clear <part>",
	Short: "Delete every memo of a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		if _, err := s.Find(args[0]); err != nil {
			return fail(err)
		}
		key := memoKey(s, args[0])

		ok, err := confirmOrRequireYes(memoClearYes, fmt.Sprintf("Delete %s of %s?", ui.Plural("memo", len(s.Memos.Get(key))), key))
		if err != nil || !ok {
			if err == nil && !isJSONOutput() {
				fmt.Println("Cancelled.")
			}
			return err
		}

		removed, err := s.ClearMemo(args[0])
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"key":     key,
				"removed": removed,
			}, sessionMeta(s))
			return nil
		}
		if !removed {
			fmt.Printf("%s has no memos.\n", key)
			return nil
		}
		fmt.Println(ui.Successf("Cleared memos of %s", ui.AccentBold.Render(key)))
		return nil
	},
}

func init() {
	memoClearCmd.Flags().BoolVarP(&memoClearYes, "yes", "y", false, "Do not ask for confirmation")
	memoCmd.AddCommand(memoListCmd, memoAddCmd, memoClearCmd)
	rootCmd.AddCommand(memoCmd)
}

func runMemoList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	if len(args) == 1 {
		key := memoKey(s, args[0])
		entries := s.MemosFor(args[0])
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"key":   key,
				"memos": entries,
			}, memoWarnings(s), &Meta{Count: len(entries), Workspace: s.Workspace.Root})
			return nil
		}
		if len(entries) == 0 {
			fmt.Printf("No memos for %s.\n", key)
			return nil
		}
		fmt.Println(memo.Format(entries))
		return nil
	}

	var rows []memoSummary
	for _, key := range s.Memos.Keys() {
		entries := s.Memos.Get(key)
		row := memoSummary{Key: key, Count: len(entries)}
		if len(entries) > 0 {
			row.Last = entries[len(entries)-1].Timestamp
		}
		rows = append(rows, row)
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"file":  s.Memos.Path(),
			"parts": rows,
		}, memoWarnings(s), &Meta{Count: len(rows), Workspace: s.Workspace.Root})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No memos yet.")
		fmt.Println(ui.Hint("Add one with 'bomv memo add <part> <text>'"))
		return nil
	}
	tbl := ui.NewTable("PART", "MEMOS", "LAST")
	for _, r := range rows {
		tbl.AddRow(r.Key, fmt.Sprintf("%d", r.Count), r.Last)
	}
	fmt.Print(tbl.String())
	return nil
}

// memoKey is the key memos of arg are stored under: the part behind a
// display key, or arg itself when it is not in the tree.
func memoKey(s *session.Session, arg string) string {
	if id, err := s.Find(arg); err == nil {
		return s.Tree.Node(id).Key
	}
	return memo.NormalizeKey(arg)
}

func memoWarnings(s *session.Session) []Warning {
	if s.Memos.ResetReason == "" {
		return nil
	}
	return []Warning{{
		Code:    WarnMemoReset,
		Message: "memo file unreadable, starting empty: " + s.Memos.ResetReason,
		File:    s.Memos.Path(),
	}}
}
