// Package xls reads one worksheet of a legacy BIFF (.xls) workbook into a
// table.Table.
package xls

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"

	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// Options configures the parser.
type Options struct {
	// Sheet names the worksheet; empty selects the first.
	Sheet string

	// Charset passed to the BIFF reader. Defaults to "utf-8".
	Charset string

	// Layout places the header and data rows.
	Layout parser.Layout
}

// Parser parses .xls workbooks.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse buffers r (the BIFF reader needs to seek) and reads the configured
// sheet.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xls: read: %w", err)
	}
	charset := p.opt.Charset
	if charset == "" {
		charset = "utf-8"
	}

	wb, err := openWorkbook(data, charset)
	if err != nil {
		return nil, err
	}

	sheets := make([]*xls.WorkSheet, 0, wb.NumSheets())
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			sheets = append(sheets, ws)
			names = append(names, ws.Name)
		}
	}
	name, err := parser.PickSheet(names, p.opt.Sheet)
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}
	var ws *xls.WorkSheet
	for i, n := range names {
		if n == name {
			ws = sheets[i]
			break
		}
	}

	t, err := p.opt.Layout.Build(sheetRows(ws))
	if err != nil {
		return nil, fmt.Errorf("xls: sheet %q: %w", name, err)
	}
	t.SerialDates = true
	return t, nil
}

// openWorkbook converts panics from the BIFF decoder on malformed input into
// errors.
func openWorkbook(data []byte, charset string) (wb *xls.WorkBook, err error) {
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("xls: malformed workbook: %v", r)
		}
	}()
	wb, err = xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, fmt.Errorf("xls: open: %w", err)
	}
	return wb, nil
}

func sheetRows(ws *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows
}
