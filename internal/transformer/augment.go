package transformer

import (
	"github.com/golang-sql/civil"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// Ageing bucket labels, in display order.
const (
	Bucket0to7   = "0-7"
	Bucket8to15  = "8-15"
	Bucket16to25 = "16-25"
	BucketOver25 = ">25"

	// NoDataBucket labels an absent day count. The ageing pivot drops it.
	NoDataBucket = "No Data"
)

// Buckets lists the ageing bucket labels in their fixed order.
var Buckets = []string{Bucket0to7, Bucket8to15, Bucket16to25, BucketOver25}

// Augment derives the day-count fields of every record relative to Now. The
// caller captures Now once per run; Augment never reads the clock.
type Augment struct {
	Now civil.Date
}

func (a Augment) Apply(in []receipt.Record) []receipt.Record {
	out := make([]receipt.Record, len(in))
	for i, r := range in {
		r.AgeDays = AgeDays(r, a.Now)
		r.GapDays = GapDays(r, a.Now)
		r.AgeingDays = AgeingDays(r, a.Now)
		out[i] = r
	}
	return out
}

// AgeDays is now minus the TML challan date.
func AgeDays(r receipt.Record, now civil.Date) receipt.Days {
	if !r.TMLChallanDate.Valid {
		return receipt.Days{}
	}
	return receipt.DaysOf(now.DaysSince(r.TMLChallanDate.Date))
}

// GapDays is the TML challan date minus the physical receipt date. Without a
// TML challan it falls back to now minus the receipt date, and without a
// receipt date it is absent.
func GapDays(r receipt.Record, now civil.Date) receipt.Days {
	if !r.PhyReceiptDate.Valid {
		return receipt.Days{}
	}
	if r.TMLChallanDate.Valid {
		return receipt.DaysOf(r.TMLChallanDate.Date.DaysSince(r.PhyReceiptDate.Date))
	}
	return receipt.DaysOf(now.DaysSince(r.PhyReceiptDate.Date))
}

// AgeingDays is GapDays restricted to rows that name a customer.
func AgeingDays(r receipt.Record, now civil.Date) receipt.Days {
	if r.Customer == "" {
		return receipt.Days{}
	}
	return GapDays(r, now)
}

// AgeBucket maps a day count to its bucket label. Negative counts (receipt
// after challan) fall in the first bucket.
func AgeBucket(d receipt.Days) string {
	switch {
	case !d.Valid:
		return NoDataBucket
	case d.N <= 7:
		return Bucket0to7
	case d.N <= 15:
		return Bucket8to15
	case d.N <= 25:
		return Bucket16to25
	default:
		return BucketOver25
	}
}
