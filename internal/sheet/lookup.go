package sheet

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no row carries the requested part number.
var ErrNotFound = errors.New("part not found in sheet")

// Display columns.
const (
	ColPartNoDisplay = "Part No"
	colTotalQtyStem  = "Instance ID"
)

// Placeholders for missing data.
const (
	Blank   = "nan"
	Missing = "N/A"
)

// PartRecord is one spreadsheet row keyed by header.
type PartRecord struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
	// Headers lists the keys of Fields in table order.
	Headers []string `json:"-"`
}

// Get returns the value under header and whether the column exists.
func (r PartRecord) Get(header string) (string, bool) {
	v, ok := r.Fields[header]
	return v, ok
}

// Field is one formatted line of part metadata.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Lookup finds rows by part number. The first row wins when a part number
// repeats.
type Lookup struct {
	table *Table
	col   int
	index map[string]int
}

// NewLookup indexes t on the "Part No" column, or on the relation part
// column when that header is absent.
func NewLookup(t *Table) *Lookup {
	l := &Lookup{table: t, col: -1, index: make(map[string]int)}
	if t == nil {
		return l
	}
	l.col = t.Column(ColPartNoDisplay)
	if l.col < 0 {
		if cols, err := t.RelationColumns(); err == nil {
			l.col = cols.Part
		}
	}
	if l.col < 0 {
		return l
	}
	for i, r := range t.Rows {
		key := strings.ToUpper(strings.TrimSpace(r[l.col]))
		if key == "" {
			continue
		}
		if _, ok := l.index[key]; !ok {
			l.index[key] = i
		}
	}
	return l
}

// Find returns the row for key, compared on trimmed, uppercased values.
func (l *Lookup) Find(key string) (PartRecord, error) {
	i, ok := l.index[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return PartRecord{}, ErrNotFound
	}
	row := l.table.Rows[i]
	fields := make(map[string]string, len(row))
	headers := make([]string, 0, len(row))
	for c, h := range l.table.Headers {
		if h == "" {
			continue
		}
		if _, dup := fields[h]; dup {
			continue
		}
		fields[h] = row[c]
		headers = append(headers, h)
	}
	return PartRecord{Row: i + 2, Fields: fields, Headers: headers}, nil
}

type displayField struct {
	label  string
	header string
	prefix bool
	number bool
}

var displayFields = []displayField{
	{label: "S/N", header: "S/N"},
	{label: "Level", header: "Level", number: true},
	{label: "Type", header: "Type"},
	{label: "Part No", header: ColPartNoDisplay},
	{label: "Part Rev", header: "Part Rev"},
	{label: "Part Status", header: "Part Status"},
	{label: "Latest", header: "Latest"},
	{label: "Nomenclature", header: "Nomenclature"},
	{label: "Instance ID total quantity (ALL DB)", header: colTotalQtyStem, prefix: true, number: true},
	{label: "Qty", header: "Qty", number: true},
	{label: "NextPart", header: ColNextPart},
}

// FormatRecord renders the display fields of rec in their fixed order.
func FormatRecord(rec PartRecord) []Field {
	out := make([]Field, 0, len(displayFields))
	for _, df := range displayFields {
		v, ok := rec.value(df)
		switch {
		case !ok:
			v = Missing
		case isBlankValue(v):
			v = Blank
		case df.number:
			v = FormatInt(v)
		}
		out = append(out, Field{Label: df.label, Value: v})
	}
	return out
}

func (r PartRecord) value(df displayField) (string, bool) {
	if !df.prefix {
		return r.Get(df.header)
	}
	headers := r.Headers
	if headers == nil {
		for h := range r.Fields {
			headers = append(headers, h)
		}
		sort.Strings(headers)
	}
	for _, h := range headers {
		if strings.HasPrefix(h, df.header) {
			return r.Fields[h], true
		}
	}
	return "", false
}

func isBlankValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "nan")
}

// FormatInt renders numeric text as an integer ("3.0" → "3"); anything else
// is returned unchanged. Fractions are truncated toward zero.
func FormatInt(v string) string {
	s := strings.TrimSpace(v)
	if isBlankValue(s) {
		return Blank
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return v
	}
	return strconv.FormatInt(int64(f), 10)
}
