package views

import (
	"math"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// Counters are the four headline cards.
type Counters struct {
	AVXChallan int `json:"avx_challan"` // invoices received from AVX
	Handover   int `json:"handover"`    // invoice handovers done
	TMLChallan int `json:"tml_challan"` // TML GRNs done
	AvgGapDays int `json:"avg_gap_days"`
}

// ComputeCounters counts present dates and averages the defined gap days,
// rounding half to even. The average is 0 when no gap is defined.
func ComputeCounters(recs []receipt.Record) Counters {
	var c Counters
	var sum, n int
	for _, r := range withPartNo(recs) {
		if r.AVXChallanDate.Valid {
			c.AVXChallan++
		}
		if r.HandoverDate.Valid {
			c.Handover++
		}
		if r.TMLChallanDate.Valid {
			c.TMLChallan++
		}
		if r.GapDays.Valid {
			sum += r.GapDays.N
			n++
		}
	}
	if n > 0 {
		c.AvgGapDays = int(math.RoundToEven(float64(sum) / float64(n)))
	}
	return c
}
