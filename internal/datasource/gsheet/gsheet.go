// Package gsheet loads one tab of a shared Google Sheet through its CSV
// export endpoint.
//
// The export of the BTST tracker has two banner rows and no usable header
// row, so the sheet is read header-less with DefaultColumns naming its
// columns in order.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ssaurabh5135/storedashboard/internal/datasource/httpds"
)

// DefaultSheet is the tab holding the receipts.
const DefaultSheet = "BTST - AVX AND TML"

// DefaultSkipRows is the number of banner rows above the data.
const DefaultSkipRows = 2

// DefaultColumns names the export's columns in order. The first column is an
// unnamed serial number.
var DefaultColumns = []string{
	"Col0",
	"Supplier Name",
	"PLANT",
	"Inwarding PO",
	"Part No.",
	"Part Description",
	"Qty",
	"Unit",
	"AVX Challan No.",
	"AVX Challan Date",
	"AVX PHY Material Recipt DATE",
	"AVX Invoice Ack. Handover Date",
	"AVX invoice Ack. Copy recevied by",
	"TML Challan No.",
	"TML Challan Date",
	"Qty (GRN)",
	"TML INVOICE RECEIVE DATE",
	"GRN Days",
}

// ErrNotShared is returned when the export answers with an HTML page, which
// is what Google serves for a sheet that is not shared by link.
var ErrNotShared = errors.New("sheet is not shared or does not exist")

// BaseURL is the spreadsheet endpoint; tests point it elsewhere.
const BaseURL = "https://docs.google.com/spreadsheets/d/"

// ExportURL returns the CSV export URL of one tab.
func ExportURL(base, sheetID, sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", sheet)
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(sheetID) + "/gviz/tq?" + q.Encode()
}

// Source fetches the CSV export of one tab.
type Source struct {
	http *httpds.Source
}

// New returns a Source for the tab. An empty sheet selects DefaultSheet; an
// empty base selects BaseURL.
func New(c *httpds.Client, base, sheetID, sheet string) *Source {
	if base == "" {
		base = BaseURL
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	hdr := http.Header{"Accept": {"text/csv"}}
	return &Source{http: httpds.NewSource(c, ExportURL(base, sheetID, sheet), hdr)}
}

// URL returns the export URL.
func (s *Source) URL() string { return s.http.URL() }

// Open fetches the export.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	body, err := s.http.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("gsheet: %w", err)
	}
	rc := &peekedBody{ReadCloser: body}
	if rc.looksLikeHTML() {
		_ = body.Close()
		return nil, fmt.Errorf("gsheet: %s: %w", s.URL(), ErrNotShared)
	}
	return rc, nil
}

// peekedBody reads the first bytes ahead to sniff the payload, then replays
// them.
type peekedBody struct {
	io.ReadCloser
	head []byte
}

func (p *peekedBody) looksLikeHTML() bool {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(p.ReadCloser, buf)
	p.head = buf[:n]
	s := strings.ToLower(strings.TrimSpace(string(p.head)))
	return strings.HasPrefix(s, "<!doctype html") || strings.HasPrefix(s, "<html")
}

func (p *peekedBody) Read(b []byte) (int, error) {
	if len(p.head) > 0 {
		n := copy(b, p.head)
		p.head = p.head[n:]
		return n, nil
	}
	return p.ReadCloser.Read(b)
}
