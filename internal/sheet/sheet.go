// Package sheet provides column-name addressed access to xlsx tables.
//
// The first worksheet is treated as a table: row 1 holds column labels,
// every following row is data. Cell values are normalized before use so
// that full-width punctuation and ideographic spaces typed by operators
// behave like their ASCII forms.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

// Table is an in-memory snapshot of the first worksheet of an xlsx file
type Table struct {
	Path   string
	Sheet  string
	header map[string]int
	rows   [][]string
}

// Open loads the first worksheet of the xlsx file at path
func Open(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", path, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s!%s is empty", path, sheets[0])
	}

	header := make(map[string]int, len(rows[0]))
	for i, label := range rows[0] {
		label = Normalize(label)
		if label == "" {
			continue
		}
		if _, dup := header[label]; !dup {
			header[label] = i
		}
	}

	return &Table{
		Path:   path,
		Sheet:  sheets[0],
		header: header,
		rows:   rows[1:],
	}, nil
}

// HasColumns reports whether every named column is present
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if _, ok := t.header[n]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// RowNumber returns the spreadsheet row number of data row i, for
// operator-facing diagnostics (row 1 is the header).
func (t *Table) RowNumber(i int) int {
	return i + 2
}

// Cell returns the normalized value of the named column in data row i.
// Absent columns and ragged rows yield the empty string.
func (t *Table) Cell(i int, column string) string {
	col, ok := t.header[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return ""
	}
	row := t.rows[i]
	if col >= len(row) {
		return ""
	}
	return Normalize(row[col])
}

// Normalize folds full-width characters to their narrow forms and trims
// surrounding whitespace, so values like "　ａ＠ｘ．ｃｏｍ " compare and
// split like plain ASCII.
func Normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
