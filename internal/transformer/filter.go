package transformer

import (
	"strings"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// AllCustomers is the filter value that keeps every record.
const AllCustomers = "All"

// RequirePartNo drops records whose part number is blank.
type RequirePartNo struct{}

func (RequirePartNo) Apply(in []receipt.Record) []receipt.Record {
	out := make([]receipt.Record, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.PartNo) != "" {
			out = append(out, r)
		}
	}
	return out
}

// CustomerFilter keeps records whose customer equals Customer exactly. The
// empty string and AllCustomers keep everything.
type CustomerFilter struct {
	Customer string
}

func (f CustomerFilter) Apply(in []receipt.Record) []receipt.Record {
	out := make([]receipt.Record, 0, len(in))
	for _, r := range in {
		if f.keeps(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f CustomerFilter) keeps(r receipt.Record) bool {
	if f.Customer == "" || f.Customer == AllCustomers {
		return true
	}
	return r.Customer == f.Customer
}
