package excel

import (
	"strings"

	"pvsynergy/domain/core"
)

// Table is a raw tabular file: trimmed headers and string cells in file order.
type Table struct {
	Source  string     // file path, used in error messages
	Headers []string   // column headers
	Rows    [][]string // data rows, padded to len(Headers)

	index map[string]int
}

func newTable(source string, headers []string, rows [][]string) *Table {
	t := &Table{Source: source, Headers: headers, Rows: rows, index: make(map[string]int, len(headers))}
	for i, h := range headers {
		// first occurrence of a duplicated header wins
		if _, seen := t.index[h]; !seen {
			t.index[h] = i
		}
	}
	return t
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, core.NewMissingColumnError(t.Source, name)
	}
	return i, nil
}

// Columns resolves several columns at once; the first missing one fails.
func (t *Table) Columns(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Cell returns row[col] with surrounding whitespace removed.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
