package views

import (
	"strconv"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// ReceiptView is the part x day-of-month receipt quantity pivot. Cells[i][j]
// holds the summed supplier quantity of Parts[i] on day Days[j] as an integer
// string, or "" when nothing was received.
type ReceiptView struct {
	NoData bool       `json:"no_data"`
	Month  string     `json:"month,omitempty"` // "2006-01"
	Days   []int      `json:"days,omitempty"`
	Parts  []string   `json:"parts,omitempty"`
	Cells  [][]string `json:"cells,omitempty"`
}

// DaysIn returns the number of days in the month of d.
func DaysIn(d civil.Date) int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ReceiptsByDay pivots supplier quantity by part and receipt day-of-month.
//
// Columns run from day 1 to the last day of now's month. Receipts are placed
// by day-of-month only, whatever their month; a day past the end of now's
// month has no column and is dropped. Every part present in recs gets a row,
// in first-seen order, even when it has no qualifying receipt. Only records
// with a receipt date and a positive supplier quantity contribute.
func ReceiptsByDay(recs []receipt.Record, now civil.Date) ReceiptView {
	recs = withPartNo(recs)
	if len(recs) == 0 {
		return ReceiptView{NoData: true}
	}

	nDays := DaysIn(now)
	rowOf := make(map[string]int)
	var parts []string
	for _, r := range recs {
		if _, ok := rowOf[r.PartNo]; !ok {
			rowOf[r.PartNo] = len(parts)
			parts = append(parts, r.PartNo)
		}
	}

	sums := make([][]decimal.Decimal, len(parts))
	for i := range sums {
		sums[i] = make([]decimal.Decimal, nDays)
	}
	for _, r := range recs {
		qty := r.SupplierQtyOrZero()
		if !r.PhyReceiptDate.Valid || !qty.IsPositive() {
			continue
		}
		day := r.PhyReceiptDate.Date.Day
		if day < 1 || day > nDays {
			continue
		}
		i := rowOf[r.PartNo]
		sums[i][day-1] = sums[i][day-1].Add(qty)
	}

	v := ReceiptView{
		Month: civil.Date{Year: now.Year, Month: now.Month, Day: 1}.In(time.UTC).Format("2006-01"),
		Days:  make([]int, nDays),
		Parts: parts,
		Cells: make([][]string, len(parts)),
	}
	for j := range v.Days {
		v.Days[j] = j + 1
	}
	for i, row := range sums {
		cells := make([]string, nDays)
		for j, s := range row {
			cells[j] = formatQty(s)
		}
		v.Cells[i] = cells
	}
	return v
}

// formatQty renders a whole-unit quantity, or "" for zero.
func formatQty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return strconv.FormatInt(d.IntPart(), 10)
}
