// Package sheet loads the BOM spreadsheet and answers part metadata lookups.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bomview/bomview/internal/bom"
)

// DefaultSheet is the worksheet read when none is configured.
const DefaultSheet = "Sheet1"

// Relation column names and their positional fallbacks (0-based).
const (
	ColPartNo       = "PartNo"
	ColNextPart     = "NextPart"
	partFallbackCol = 3
	nextFallbackCol = 13
)

var (
	// ErrSheetNotFound is returned when the workbook lacks the requested sheet.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrNoRelationColumns is returned when neither the named nor the
	// positional relation columns exist.
	ErrNoRelationColumns = errors.New("no part/parent columns")
)

// Table is a worksheet as trimmed strings. Every row has len(Headers) cells.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// Columns are the resolved part and parent column indexes.
type Columns struct {
	Part  int
	Next  int
	Named bool
}

// Load reads the table from an .xlsx/.xlsm workbook or a .csv file. The
// first row is the header row.
func Load(path, sheetName string) (*Table, error) {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = DefaultSheet
	}

	var (
		raw [][]string
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		raw, err = readCSV(path)
		sheetName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	default:
		raw, err = readWorkbook(path, sheetName)
	}
	if err != nil {
		return nil, err
	}
	return newTable(sheetName, raw), nil
}

func readWorkbook(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheetName, filepath.Base(path))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// NewTable builds a table from a header row and data rows.
func NewTable(sheetName string, headers []string, data [][]string) *Table {
	raw := make([][]string, 0, len(data)+1)
	raw = append(raw, headers)
	raw = append(raw, data...)
	return newTable(sheetName, raw)
}

func newTable(sheetName string, raw [][]string) *Table {
	t := &Table{Sheet: sheetName}
	if len(raw) == 0 {
		return t
	}

	width := 0
	for _, r := range raw {
		if len(r) > width {
			width = len(r)
		}
	}
	pad := func(r []string) []string {
		out := make([]string, width)
		for i, v := range r {
			out[i] = strings.TrimSpace(v)
		}
		return out
	}

	t.Headers = pad(raw[0])
	for _, r := range raw[1:] {
		t.Rows = append(t.Rows, pad(r))
	}
	return t
}

// Column returns the index of the header named name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// ColumnPrefix returns the first header starting with prefix, or -1.
func (t *Table) ColumnPrefix(prefix string) int {
	for i, h := range t.Headers {
		if strings.HasPrefix(h, prefix) {
			return i
		}
	}
	return -1
}

// RelationColumns prefers the PartNo/NextPart headers and falls back to the
// fourth and fourteenth columns.
func (t *Table) RelationColumns() (Columns, error) {
	part, next := t.Column(ColPartNo), t.Column(ColNextPart)
	if part >= 0 && next >= 0 {
		return Columns{Part: part, Next: next, Named: true}, nil
	}
	if len(t.Headers) > nextFallbackCol {
		return Columns{Part: partFallbackCol, Next: nextFallbackCol}, nil
	}
	return Columns{}, fmt.Errorf("%w: need %s and %s headers or at least %d columns, have %d",
		ErrNoRelationColumns, ColPartNo, ColNextPart, nextFallbackCol+1, len(t.Headers))
}

// RelationRows returns the part/parent pairs in table order.
func (t *Table) RelationRows() ([]bom.Row, error) {
	cols, err := t.RelationColumns()
	if err != nil {
		return nil, err
	}
	out := make([]bom.Row, 0, len(t.Rows))
	for i, r := range t.Rows {
		out = append(out, bom.Row{
			PartNo:   r[cols.Part],
			NextPart: r[cols.Next],
			Line:     i + 2, // header is line 1
		})
	}
	return out, nil
}
