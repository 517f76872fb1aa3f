package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bomview/bomview/internal/bom"
)

var displayHeaders = []string{
	"S/N", "Level", "Type", "Part No", "Part Rev", "Part Status", "Latest",
	"Nomenclature", "Instance ID 총수량(ALL DB)", "Qty", "PartNo", "NextPart",
}

func writeWorkbook(t *testing.T, sheetName string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheetName != "Sheet1" {
		_, err := f.NewSheet(sheetName)
		require.NoError(t, err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbookNamedColumns(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"S/N", "PartNo", "NextPart"},
		{1, " A ", ""},
		{2, "B", "A"},
		{3, "C", "A"},
	})

	table, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", table.Sheet)
	assert.Equal(t, []string{"S/N", "PartNo", "NextPart"}, table.Headers)

	rows, err := table.RelationRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bom.Row{PartNo: "A", NextPart: "", Line: 2}, rows[0])
	assert.Equal(t, bom.Row{PartNo: "C", NextPart: "A", Line: 4}, rows[2])
}

func TestLoadWorkbookMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"PartNo", "NextPart"}})
	_, err := Load(path, "Parts")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.xlsx"), "")
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffPartNo,NextPart\nTOP,nan\nSUB,TOP\n"), 0o644))

	table, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "PartNo", table.Headers[0])

	rows, err := table.RelationRows()
	require.NoError(t, err)
	tree, _, err := bom.Build(rows)
	require.NoError(t, err)
	assert.Equal(t, "TOP", tree.Node(tree.Root).Key)
}

func TestRelationColumnsPositionalFallback(t *testing.T) {
	headers := make([]string, 14)
	for i := range headers {
		headers[i] = "c"
	}
	row := make([]string, 14)
	row[3], row[13] = "P", "Q"
	table := NewTable("Sheet1", headers, [][]string{row})

	cols, err := table.RelationColumns()
	require.NoError(t, err)
	assert.Equal(t, Columns{Part: 3, Next: 13}, cols)

	rows, err := table.RelationRows()
	require.NoError(t, err)
	assert.Equal(t, "P", rows[0].PartNo)
	assert.Equal(t, "Q", rows[0].NextPart)
}

func TestRelationColumnsMissing(t *testing.T) {
	table := NewTable("Sheet1", []string{"PartNo", "Parent"}, nil)
	_, err := table.RelationColumns()
	assert.ErrorIs(t, err, ErrNoRelationColumns)
}

func TestLookupAndFormat(t *testing.T) {
	table := NewTable("Sheet1", displayHeaders, [][]string{
		{"7", "2.0", "ASSY", "ab-100", "B", "Released", "Y", "Bracket", "12", "", "AB-100", "TOP"},
		{"8", "x", "PART", "ab-100", "C", "", "", "", "", "", "AB-100", "TOP"},
	})
	lookup := NewLookup(table)

	rec, err := lookup.Find(" AB-100 ")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Row)

	fields := FormatRecord(rec)
	got := make(map[string]string, len(fields))
	var labels []string
	for _, f := range fields {
		got[f.Label] = f.Value
		labels = append(labels, f.Label)
	}
	assert.Equal(t, "S/N", labels[0])
	assert.Equal(t, "NextPart", labels[len(labels)-1])
	assert.Equal(t, "2", got["Level"])
	assert.Equal(t, "12", got["Instance ID total quantity (ALL DB)"])
	assert.Equal(t, Blank, got["Qty"])
	assert.Equal(t, "Bracket", got["Nomenclature"])

	_, err = lookup.Find("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormatRecordMissingColumns(t *testing.T) {
	table := NewTable("Sheet1", []string{"PartNo", "NextPart"}, [][]string{{"A", ""}})
	rec, err := NewLookup(table).Find("a")
	require.NoError(t, err)

	for _, f := range FormatRecord(rec) {
		switch f.Label {
		case "NextPart":
			assert.Equal(t, Blank, f.Value)
		default:
			assert.Equal(t, Missing, f.Value, f.Label)
		}
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "3", FormatInt("3"))
	assert.Equal(t, "3", FormatInt("3.0"))
	assert.Equal(t, "-2", FormatInt("-2.7"))
	assert.Equal(t, "abc", FormatInt("abc"))
	assert.Equal(t, Blank, FormatInt(""))
	assert.Equal(t, Blank, FormatInt("NaN"))
	assert.Equal(t, "1e20", FormatInt("1e20"))
	assert.Equal(t, "-1e19", FormatInt("-1e19"))
	assert.Equal(t, "inf", FormatInt("inf"))
}

func TestFormatRecordTotalQuantityUsesFirstColumn(t *testing.T) {
	table := NewTable("Sheet1",
		[]string{"PartNo", "NextPart", "Instance ID total", "Instance ID (ALL DB)"},
		[][]string{{"A", "", "5", "9"}})
	rec, err := NewLookup(table).Find("A")
	require.NoError(t, err)

	for _, f := range FormatRecord(rec) {
		if f.Label == "Instance ID total quantity (ALL DB)" {
			assert.Equal(t, "5", f.Value)
			return
		}
	}
	t.Fatal("total quantity field missing")
}
