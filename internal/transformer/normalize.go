package transformer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// Normalize coerces every row of t into a receipt.Record and keeps only rows
// with a part number. Each cell is coerced on its own: a cell that does not
// parse is recorded as absent and never fails the row or the column.
func Normalize(t *table.Table, cols Columns) []receipt.Record {
	parseDate := ParseDate
	if t.SerialDates {
		parseDate = ParseWorkbookDate
	}
	toDate := func(s string) receipt.NullDate {
		d, ok := parseDate(s)
		if !ok {
			return receipt.NullDate{}
		}
		return receipt.DateOf(d)
	}

	out := make([]receipt.Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rec := receipt.Record{
			Customer:       ParseCustomer(t.Cell(i, cols.Customer)),
			PartNo:         ParsePartNo(t.Cell(i, cols.PartNo)),
			SupplierQty:    ParseQty(t.Cell(i, cols.SupplierQty)),
			GRNQty:         ParseQty(t.Cell(i, cols.GRNQty)),
			AVXChallanDate: toDate(t.Cell(i, cols.AVXChallan)),
			HandoverDate:   toDate(t.Cell(i, cols.Handover)),
			TMLChallanDate: toDate(t.Cell(i, cols.TMLChallan)),
			PhyReceiptDate: toDate(t.Cell(i, cols.PhyReceipt)),
		}
		if strings.TrimSpace(rec.PartNo) == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// maxExponent bounds the decimal exponent of a numeric cell. Arithmetic on
// decimals rescales to a common exponent, so "1e999999999" would expand to a
// billion-digit integer.
const maxExponent = 18

// parseNumber reads s as a decimal whose exponent is within maxExponent.
func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseQty reads a numeric quantity. Thousands separators and surrounding
// spaces are ignored; anything else that is not a number, or whose exponent
// is out of range, yields an absent value.
func ParseQty(s string) decimal.NullDecimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || isNullLiteral(s) {
		return decimal.NullDecimal{}
	}
	d, ok := parseNumber(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParsePartNo canonicalizes a part number. Whole numbers lose any fractional
// zeros ("4500100.0" becomes "4500100"); everything else keeps its trimmed
// literal form. Blank and null literals become "".
func ParsePartNo(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || isNullLiteral(s) {
		return ""
	}
	d, ok := parseNumber(s)
	if !ok {
		return s
	}
	if d.IsInteger() {
		return d.BigInt().String()
	}
	return s
}

// ParseCustomer returns the trimmed customer name, with "nan" read as blank.
func ParseCustomer(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
