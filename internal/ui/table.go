package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders aligned columns without borders. Widths are measured in
// terminal cells, so Korean headers line up.
type Table struct {
	headers    []string
	rows       [][]string
	colPadding int
}

// NewTable creates a table with the given header cells. With no headers the
// table has no header row.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, colPadding: 2}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetPadding sets the padding between columns
func (t *Table) SetPadding(padding int) {
	t.colPadding = padding
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col > 0 {
				style = style.PaddingLeft(t.colPadding)
			}
			if row == table.HeaderRow {
				style = style.Inherit(Bold)
			}
			return style
		})
	if len(t.headers) > 0 {
		tbl = tbl.Headers(t.headers...)
	}

	lines := strings.Split(tbl.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}
