// Package xlsx reads one worksheet of an Office Open XML workbook (the
// uploaded BTST tracker) into a table.Table.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// DefaultSheet is the tab the tracker workbook keeps its receipts on.
const DefaultSheet = "BTST - AVX AND TML"

// Options configures the parser.
type Options struct {
	// Sheet names the worksheet. Matching ignores case and surrounding
	// spaces. Empty selects the first sheet.
	Sheet string

	// Layout places the header and data rows. The tracker has two banner
	// rows above its header, i.e. SkipRows: 2.
	Layout parser.Layout
}

// Parser parses xlsx workbooks.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the configured sheet. Cells are read raw, so dates arrive as
// Excel serial numbers and quantities without display formatting.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := parser.PickSheet(f.GetSheetList(), p.opt.Sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}

	t, err := p.opt.Layout.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, err)
	}
	t.SerialDates = true
	return t, nil
}
