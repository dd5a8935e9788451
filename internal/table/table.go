// Package table holds the raw, string-typed sheet handed over by a loader.
//
// A Table is treated as an immutable snapshot: every helper that changes
// shape returns a new Table and never writes into the receiver, so one cached
// load can be re-transformed any number of times.
package table

import "strings"

// Table is a header row plus data rows. Every row has exactly len(Header)
// cells after construction through New.
type Table struct {
	Header []string
	Rows   [][]string

	// SerialDates marks cells read raw from a workbook, where a date column
	// holds Excel day serials rather than formatted text.
	SerialDates bool
}

// New copies header and rows into a fresh Table, padding short rows with ""
// and truncating rows wider than the header.
func New(header []string, rows [][]string) *Table {
	h := make([]string, len(header))
	copy(h, header)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, len(h))
		copy(row, r)
		out = append(out, row)
	}
	return &Table{Header: h, Rows: out}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at (row, col) or "" when either index is out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := New(t.Header, t.Rows)
	c.SerialDates = t.SerialDates
	return c
}

// DropBlankRows returns a copy of t without rows whose cells are all blank.
func (t *Table) DropBlankRows() *Table {
	keep := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !isBlank(r) {
			keep = append(keep, r)
		}
	}
	out := New(t.Header, keep)
	out.SerialDates = t.SerialDates
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
