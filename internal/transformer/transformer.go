// Package transformer turns a raw sheet into typed, derived receipt records.
//
// The stages run strictly forward: Resolve maps logical keys to header
// positions, Normalize coerces cells into receipt.Record values, and the
// record transformers (filters and Augment) run as an ordered Chain. No stage
// writes into its input; each returns fresh storage so a cached sheet can be
// re-run any number of times with identical results.
package transformer

import "github.com/ssaurabh5135/storedashboard/internal/receipt"

// Transformer is one record-level stage. Apply must not modify in.
type Transformer interface {
	Apply(in []receipt.Record) []receipt.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []receipt.Record) []receipt.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
