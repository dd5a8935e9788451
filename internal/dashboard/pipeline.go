// Package dashboard runs the receipt pipeline end to end and hosts the cached
// sheet that the CLI and the web UI query.
//
// Run is the pure core: (raw sheet, now, customer) -> Result. Service wraps it
// with the process-level concerns (loading, caching, the clock, logging and
// metrics) and is the only stateful type in the module.
package dashboard

import (
	"github.com/golang-sql/civil"

	"github.com/ssaurabh5135/storedashboard/internal/table"
	"github.com/ssaurabh5135/storedashboard/internal/transformer"
	"github.com/ssaurabh5135/storedashboard/internal/views"
)

// Result is everything the presentation layer renders for one filter value.
type Result struct {
	// RunID and Fingerprint are set by Service; Run leaves them empty so that
	// identical inputs give identical results.
	RunID       string `json:"run_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	Now       civil.Date `json:"now"`
	Customer  string     `json:"customer"`
	Customers []string   `json:"customers"` // filter choices from the whole sheet
	Rows      int        `json:"rows"`      // records after the customer filter

	Counters views.Counters      `json:"counters"`
	Pending  []views.PartPending `json:"pending"`
	Ageing   views.AgeingView    `json:"ageing"`
	Receipts views.ReceiptView   `json:"receipts"`
}

// Run resolves, normalizes, filters and augments raw, then builds every view.
// A missing required column is the only error. raw is never modified.
func Run(raw *table.Table, now civil.Date, customer string) (*Result, error) {
	cols, err := transformer.ResolveColumns(raw.Header)
	if err != nil {
		return nil, err
	}
	all := transformer.Normalize(raw, cols)

	if customer == "" {
		customer = transformer.AllCustomers
	}
	recs := transformer.Chain{
		transformer.RequirePartNo{},
		transformer.CustomerFilter{Customer: customer},
		transformer.Augment{Now: now},
	}.Apply(all)

	return &Result{
		Now:       now,
		Customer:  customer,
		Customers: views.Customers(all),
		Rows:      len(recs),
		Counters:  views.ComputeCounters(recs),
		Pending:   views.PendingByPart(recs),
		Ageing:    views.AgeingPivot(recs),
		Receipts:  views.ReceiptsByDay(recs, now),
	}, nil
}
