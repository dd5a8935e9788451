package views

import (
	"sort"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
	"github.com/ssaurabh5135/storedashboard/internal/transformer"
)

// AgeingView is the bucket x customer count pivot. Counts[i][j] is the number
// of records in Buckets[i] for Customers[j]; Totals[i] is the row sum.
type AgeingView struct {
	NoData    bool     `json:"no_data"`
	Buckets   []string `json:"buckets,omitempty"`
	Customers []string `json:"customers,omitempty"`
	Counts    [][]int  `json:"counts,omitempty"`
	Totals    []int    `json:"totals,omitempty"`
}

// CustomerTotals sums each customer column.
func (v AgeingView) CustomerTotals() []int {
	out := make([]int, len(v.Customers))
	for _, row := range v.Counts {
		for j, n := range row {
			out[j] += n
		}
	}
	return out
}

// GrandTotal is the sum of all row totals.
func (v AgeingView) GrandTotal() int {
	n := 0
	for _, t := range v.Totals {
		n += t
	}
	return n
}

// AgeingPivot counts records per ageing bucket and customer. Only records with
// a customer and a physical receipt date are in scope; a record whose bucket
// is NoDataBucket is dropped. Bucket rows keep their fixed order and customer
// columns are sorted ascending. An empty scope yields NoData.
func AgeingPivot(recs []receipt.Record) AgeingView {
	type key struct{ bucket, customer string }
	counts := make(map[key]int)
	seen := make(map[string]struct{})
	var customers []string
	inScope := 0

	for _, r := range withPartNo(recs) {
		if r.Customer == "" || !r.PhyReceiptDate.Valid {
			continue
		}
		inScope++
		b := transformer.AgeBucket(r.AgeingDays)
		if b == transformer.NoDataBucket {
			continue
		}
		counts[key{b, r.Customer}]++
		if _, ok := seen[r.Customer]; !ok {
			seen[r.Customer] = struct{}{}
			customers = append(customers, r.Customer)
		}
	}
	if inScope == 0 {
		return AgeingView{NoData: true}
	}
	sort.Strings(customers)

	v := AgeingView{
		Buckets:   append([]string(nil), transformer.Buckets...),
		Customers: customers,
		Counts:    make([][]int, len(transformer.Buckets)),
		Totals:    make([]int, len(transformer.Buckets)),
	}
	for i, b := range v.Buckets {
		row := make([]int, len(customers))
		for j, c := range customers {
			row[j] = counts[key{b, c}]
			v.Totals[i] += row[j]
		}
		v.Counts[i] = row
	}
	return v
}
