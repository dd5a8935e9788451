package datasource

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ssaurabh5135/storedashboard/internal/config"
	"github.com/ssaurabh5135/storedashboard/internal/datasource/file"
	"github.com/ssaurabh5135/storedashboard/internal/datasource/gsheet"
	"github.com/ssaurabh5135/storedashboard/internal/datasource/httpds"
	"github.com/ssaurabh5135/storedashboard/internal/datasource/sqlsource"
	"github.com/ssaurabh5135/storedashboard/internal/parser"
	csvparser "github.com/ssaurabh5135/storedashboard/internal/parser/csv"
	xlsparser "github.com/ssaurabh5135/storedashboard/internal/parser/xls"
	xlsxparser "github.com/ssaurabh5135/storedashboard/internal/parser/xlsx"
)

// New builds the Loader described by cfg. The returned Closer releases any
// pooled resources (database connections) and is never nil.
func New(cfg config.Dashboard) (Loader, io.Closer, error) {
	src := cfg.Source
	pcfg := cfg.Parser

	if src.Kind == config.SourceSQL {
		s, err := sqlsource.Open(src.SQL.Driver, src.SQL.DSN, src.SQL.Query)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}

	// The gsheet export is header-less; default its layout unless the config
	// says otherwise.
	if src.Kind == config.SourceGSheet {
		if len(pcfg.Columns) == 0 {
			pcfg.Columns = gsheet.DefaultColumns
			if pcfg.SkipRows == 0 {
				pcfg.SkipRows = gsheet.DefaultSkipRows
			}
		}
		pcfg.Kind = config.ParserCSV
	}

	p, err := NewParser(pcfg)
	if err != nil {
		return nil, nil, err
	}

	var s Source
	switch src.Kind {
	case config.SourceFile:
		s = file.NewLocal(src.File.Path)
	case config.SourceHTTP:
		hdr := http.Header{}
		for k, v := range src.HTTP.Headers {
			hdr.Set(k, v)
		}
		s = httpds.NewSource(httpClient(src.HTTP), src.HTTP.URL, hdr)
	case config.SourceGSheet:
		s = gsheet.New(httpClient(src.HTTP), "", src.GSheet.SheetID, src.GSheet.Sheet)
	default:
		return nil, nil, fmt.Errorf("source: %w %q", ErrUnknownKind, src.Kind)
	}
	return Parsed{Source: s, Parser: p}, nopCloser{}, nil
}

// NewParser builds the parser described by cfg. Uploads use it directly.
func NewParser(cfg config.Parser) (parser.Parser, error) {
	layout := parser.Layout{
		SkipRows:      cfg.SkipRows,
		Columns:       cfg.Columns,
		KeepBlankRows: cfg.Options.Bool("keep_blank_rows", false),
	}
	switch cfg.Kind {
	case config.ParserCSV, "":
		var comma rune
		if r := []rune(cfg.Comma); len(r) > 0 {
			comma = r[0]
		}
		return csvparser.NewParser(csvparser.Options{
			Comma:    comma,
			Encoding: cfg.Encoding,
			Strict:   !cfg.Options.Bool("lazy_quotes", true),
			Layout:   layout,
		}), nil
	case config.ParserXLSX:
		return xlsxparser.NewParser(xlsxparser.Options{Sheet: cfg.Sheet, Layout: layout}), nil
	case config.ParserXLS:
		return xlsparser.NewParser(xlsparser.Options{Sheet: cfg.Sheet, Layout: layout}), nil
	default:
		return nil, fmt.Errorf("parser: %w %q", ErrUnknownKind, cfg.Kind)
	}
}

// UploadParser picks a parser for an uploaded file by its extension and
// applies the upload layout.
func UploadParser(cfg config.Parser, ext string) (parser.Parser, error) {
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm":
		cfg.Kind = config.ParserXLSX
	case ".xls":
		cfg.Kind = config.ParserXLS
	case ".csv", ".txt":
		cfg.Kind = config.ParserCSV
	default:
		return nil, fmt.Errorf("upload: %w file type %q", ErrUnknownKind, ext)
	}
	return NewParser(cfg)
}

func httpClient(c config.SourceHTTP) *httpds.Client {
	return httpds.NewClient(httpds.Config{
		Timeout:            c.HTTPTimeout(),
		MaxRetries:         c.MaxRetries,
		InsecureSkipVerify: c.InsecureSkipVerify,
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
