package transformer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Logical column keys, already in normalized form. The receipt header keeps
// the sheet's own spelling ("RECIPT").
const (
	KeyCustomer    = "SUPPLIER NAME"
	KeyPartNo      = "PART NO."
	KeySupplierQty = "QTY"
	KeyGRNQty      = "QTY (GRN)"
	KeyAVXChallan  = "AVX CHALLAN DATE"
	KeyHandover    = "AVX INVOICE ACK. HANDOVER DATE"
	KeyTMLChallan  = "TML CHALLAN DATE"
	KeyPhyReceipt  = "AVX PHY MATERIAL RECIPT DATE"
)

// RequiredKeys lists every key the downstream stages read.
var RequiredKeys = []string{
	KeyCustomer,
	KeyPartNo,
	KeySupplierQty,
	KeyGRNQty,
	KeyAVXChallan,
	KeyHandover,
	KeyTMLChallan,
	KeyPhyReceipt,
}

// ErrMissingColumn is matched by every *MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// maxListedHeaders bounds the header list quoted in MissingColumnError.Error.
const maxListedHeaders = 20

// MissingColumnError reports a required key with no matching header.
type MissingColumnError struct {
	Key       string
	Available []string // normalized headers, in sheet order
}

func (e *MissingColumnError) Error() string {
	avail := e.Available
	suffix := ""
	if len(avail) > maxListedHeaders {
		suffix = fmt.Sprintf(", ... (%d more)", len(avail)-maxListedHeaders)
		avail = avail[:maxListedHeaders]
	}
	return fmt.Sprintf("missing column %q; available: [%s%s]",
		e.Key, strings.Join(quoteAll(avail), ", "), suffix)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// NormalizeHeader folds compatibility characters (NFKC turns a no-break space
// into a plain space), collapses whitespace runs, trims and upper-cases.
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Resolve maps every key to the index of the header that normalizes to it.
// Matching is exact after normalization; when two headers collide the first
// one wins. The first key without a match fails the whole call.
func Resolve(headers []string, keys []string) (map[string]int, error) {
	normalized := make([]string, len(headers))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		n := NormalizeHeader(h)
		normalized[i] = n
		if _, dup := index[n]; !dup {
			index[n] = i
		}
	}

	out := make(map[string]int, len(keys))
	for _, k := range keys {
		i, ok := index[k]
		if !ok {
			return nil, &MissingColumnError{Key: k, Available: normalized}
		}
		out[k] = i
	}
	return out, nil
}

// Columns holds the resolved header position of each logical field.
type Columns struct {
	Customer    int
	PartNo      int
	SupplierQty int
	GRNQty      int
	AVXChallan  int
	Handover    int
	TMLChallan  int
	PhyReceipt  int
}

// ResolveColumns resolves RequiredKeys against headers.
func ResolveColumns(headers []string) (Columns, error) {
	m, err := Resolve(headers, RequiredKeys)
	if err != nil {
		return Columns{}, err
	}
	return Columns{
		Customer:    m[KeyCustomer],
		PartNo:      m[KeyPartNo],
		SupplierQty: m[KeySupplierQty],
		GRNQty:      m[KeyGRNQty],
		AVXChallan:  m[KeyAVXChallan],
		Handover:    m[KeyHandover],
		TMLChallan:  m[KeyTMLChallan],
		PhyReceipt:  m[KeyPhyReceipt],
	}, nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
