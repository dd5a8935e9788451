// Package receipt defines the typed shipment line produced by the field
// normalizer and consumed by the metric calculator and the views.
package receipt

import (
	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
)

// NullDate is a calendar date that may be absent, shaped like
// decimal.NullDecimal.
type NullDate struct {
	Date  civil.Date
	Valid bool
}

// DateOf returns a present NullDate.
func DateOf(d civil.Date) NullDate { return NullDate{Date: d, Valid: true} }

// Days is an optional whole-day count.
type Days struct {
	N     int
	Valid bool
}

// DaysOf returns a present Days value.
func DaysOf(n int) Days { return Days{N: n, Valid: true} }

// Record is one inbound shipment line.
type Record struct {
	Customer string
	PartNo   string

	SupplierQty decimal.NullDecimal
	GRNQty      decimal.NullDecimal

	AVXChallanDate NullDate
	HandoverDate   NullDate
	TMLChallanDate NullDate
	PhyReceiptDate NullDate

	// Derived by the metric calculator.
	AgeDays    Days
	GapDays    Days
	AgeingDays Days
}

// PendingQty is max(0, supplier - grn) with absent quantities read as zero.
func (r Record) PendingQty() decimal.Decimal {
	diff := orZero(r.SupplierQty).Sub(orZero(r.GRNQty))
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// SupplierQtyOrZero returns the supplier quantity, or zero when absent.
func (r Record) SupplierQtyOrZero() decimal.Decimal { return orZero(r.SupplierQty) }

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
