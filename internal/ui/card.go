package ui

import (
	"strings"

	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/session"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "#", `\#`, "<", `\<`, ">", `\>`, "|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func codeSpan(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

// PartCard formats a selection as markdown for RenderMarkdown: the part
// metadata, its files of each kind and its memos.
func PartCard(sel *session.Selection) string {
	var b strings.Builder

	b.WriteString("# " + escapeMarkdown(sel.Node.DisplayKey) + "\n\n")
	if len(sel.Path) > 1 {
		b.WriteString("*" + escapeMarkdown(strings.Join(sel.Path, " › ")) + "*\n\n")
	}

	if sel.Found {
		for _, f := range sel.Fields {
			b.WriteString("- **" + escapeMarkdown(f.Label) + ":** " + escapeMarkdown(f.Value) + "\n")
		}
	} else {
		b.WriteString("> " + escapeMarkdown(sel.Node.Key) + " has no row in the spreadsheet.\n")
	}

	b.WriteString("\n## Files\n\n")
	for _, kind := range media.Kinds {
		b.WriteString("- **" + kind.Label() + ":** ")
		if p, ok := sel.Media[kind]; ok {
			b.WriteString(codeSpan(p))
		} else {
			b.WriteString("none")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Memos\n\n")
	if len(sel.Memos) == 0 {
		b.WriteString("none\n")
	}
	for _, e := range sel.Memos {
		text := strings.ReplaceAll(escapeMarkdown(e.Text), "\n", "  \n  ")
		b.WriteString("- " + codeSpan(e.Timestamp) + " " + text + "\n")
	}
	return b.String()
}
