// Package views reduces augmented receipt records into the dashboard's data
// products: headline counters, pending quantity by part, the ageing bucket
// pivot and the receipt-by-day pivot.
//
// Every reducer is a pure function over its input slice. Records with a blank
// part number never reach a view.
package views

import (
	"sort"
	"strings"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// withPartNo returns the records that carry a part number.
func withPartNo(recs []receipt.Record) []receipt.Record {
	out := make([]receipt.Record, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.PartNo) != "" {
			out = append(out, r)
		}
	}
	return out
}

// Customers returns the distinct non-blank customers in ascending order.
func Customers(recs []receipt.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		if r.Customer == "" {
			continue
		}
		if _, ok := seen[r.Customer]; ok {
			continue
		}
		seen[r.Customer] = struct{}{}
		out = append(out, r.Customer)
	}
	sort.Strings(out)
	return out
}
