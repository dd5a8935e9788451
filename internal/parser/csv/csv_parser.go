// Package csv parses delimited text (a Google Sheet CSV export, or a CSV file
// saved from Excel) into a table.Table.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// Options configures the parser. The zero value reads comma-separated UTF-8
// with a header row.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding is "utf-8" (default) or "windows-1252". A UTF-8 byte order
	// mark is stripped in either case.
	Encoding string

	// Strict disables LazyQuotes. Sheet exports routinely contain stray
	// quotes inside unquoted cells, so lenient is the default.
	Strict bool

	// Layout places the header and data rows.
	Layout parser.Layout
}

// Parser parses CSV input according to Options.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads every record from r and lays them out into a table. Rows may
// have differing widths; the table pads or truncates them to the header.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	dec, err := decoder(p.opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = !p.opt.Strict
	cr.ReuseRecord = false

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read: %w", err)
		}
		rows = append(rows, rec)
	}

	t, err := p.opt.Layout.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return t, nil
}

func decoder(enc string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return unicode.BOMOverride(charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("csv: unsupported encoding %q", enc)
	}
}
