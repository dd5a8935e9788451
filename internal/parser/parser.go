// Package parser turns raw source bytes into a table.Table. Each format lives
// in a subpackage (csv, xlsx, xls); they share the row-to-table layout rules
// defined here.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// Parser reads one sheet from r.
type Parser interface {
	Parse(r io.Reader) (*table.Table, error)
}

var (
	// ErrNoSheet is returned when a workbook does not contain the requested sheet.
	ErrNoSheet = errors.New("sheet not found")
	// ErrNoHeader is returned when no header row remains after skipping.
	ErrNoHeader = errors.New("no header row")
)

// Layout describes where the header and data sit in a grid of cells.
type Layout struct {
	// SkipRows drops this many leading rows before anything else (title rows,
	// banners).
	SkipRows int

	// Columns, when set, names the columns explicitly and every remaining row
	// is data. Names beyond the grid width are dropped; unnamed extra columns
	// get "COL<n>". When empty, the first remaining row is the header.
	Columns []string

	// KeepBlankRows disables dropping rows whose cells are all blank.
	KeepBlankRows bool
}

// Build applies l to rows and returns the resulting table.
func (l Layout) Build(rows [][]string) (*table.Table, error) {
	if l.SkipRows < 0 {
		return nil, fmt.Errorf("parser: skip_rows must be >= 0, got %d", l.SkipRows)
	}
	if l.SkipRows >= len(rows) {
		rows = nil
	} else {
		rows = rows[l.SkipRows:]
	}

	var header []string
	if len(l.Columns) > 0 {
		header = namedHeader(l.Columns, maxWidth(rows))
	} else {
		if len(rows) == 0 {
			return nil, ErrNoHeader
		}
		header, rows = rows[0], rows[1:]
	}

	t := table.New(header, rows)
	if !l.KeepBlankRows {
		t = t.DropBlankRows()
	}
	return t, nil
}

func namedHeader(names []string, width int) []string {
	if width == 0 || width >= len(names) {
		out := make([]string, 0, width)
		out = append(out, names...)
		for i := len(names); i < width; i++ {
			out = append(out, "COL"+strconv.Itoa(i))
		}
		return out
	}
	return append([]string(nil), names[:width]...)
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// PickSheet chooses a worksheet from names. An exact match wins over a match
// that ignores case and surrounding spaces; an empty want picks the first.
func PickSheet(names []string, want string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrNoSheet)
	}
	if want == "" {
		return names[0], nil
	}
	for _, n := range names {
		if n == want {
			return n, nil
		}
	}
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(want)) {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q (have %s)", ErrNoSheet, want, strings.Join(names, ", "))
}
