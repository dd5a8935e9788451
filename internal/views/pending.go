package views

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

// PartPending is one row of the pending-by-part table.
type PartPending struct {
	PartNo  string          `json:"part_no"`
	Pending decimal.Decimal `json:"pending_qty"`
}

// MarshalJSON writes pending_qty as a JSON number; decimal.Decimal on its own
// encodes as a string.
func (p PartPending) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PartNo  string      `json:"part_no"`
		Pending json.Number `json:"pending_qty"`
	}{p.PartNo, json.Number(p.Pending.String())})
}

// PendingByPart sums PendingQty per part number. Rows are sorted ascending by
// part number (byte order), so "10" sorts before "9".
func PendingByPart(recs []receipt.Record) []PartPending {
	sums := make(map[string]decimal.Decimal)
	var parts []string
	for _, r := range withPartNo(recs) {
		cur, ok := sums[r.PartNo]
		if !ok {
			parts = append(parts, r.PartNo)
		}
		sums[r.PartNo] = cur.Add(r.PendingQty())
	}
	sort.Strings(parts)

	out := make([]PartPending, 0, len(parts))
	for _, p := range parts {
		out = append(out, PartPending{PartNo: p, Pending: sums[p]})
	}
	return out
}
