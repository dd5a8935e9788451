package dashboard

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"

	"github.com/ssaurabh5135/storedashboard/internal/table"
	"github.com/ssaurabh5135/storedashboard/internal/transformer"
)

var testNow = civil.Date{Year: 2025, Month: time.March, Day: 20}

var sheetHeader = []string{
	"Supplier Name", "Part No.", "Qty", "Qty (GRN)", "AVX Challan Date",
	"AVX Invoice Ack. Handover Date", "TML Challan Date", "AVX PHY Material Recipt DATE",
}

func ago(n int) string { return testNow.AddDays(-n).String() }

func sheet(rows ...[]string) *table.Table { return table.New(sheetHeader, rows) }

func fixture() *table.Table {
	return sheet(
		//      customer  part        qty    grn    avx       handover  tml      receipt
		[]string{"ACME", "4500100.0", "100", "40", ago(12), ago(11), "", ago(10)},
		[]string{"ACME", "4500200", "", "", ago(3), "", ago(1), ago(2)},
		[]string{"ZETA", "4500100", "5", "5", "", "", "", ago(30)},
		[]string{"ZETA", "", "999", "", "", "", "", ago(1)},
		[]string{"nan", "77", "3", "", "", "", "", ago(1)},
	)
}

func TestRun_PendingFromFloatPartNo(t *testing.T) {
	res, err := Run(sheet([]string{"ACME", "4500100.0", "100", "40", "", "", "", ""}), testNow, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Pending) != 1 {
		t.Fatalf("Pending = %+v", res.Pending)
	}
	p := res.Pending[0]
	if p.PartNo != "4500100" || !p.Pending.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("Pending[0] = %s/%s; want 4500100/60", p.PartNo, p.Pending)
	}
}

func TestRun_MissingGRNColumn(t *testing.T) {
	header := []string{
		"Supplier Name", "Part No.", "Qty", "AVX Challan Date",
		"AVX Invoice Ack. Handover Date", "TML Challan Date", "AVX PHY Material Recipt DATE",
	}
	_, err := Run(table.New(header, nil), testNow, "")
	if !errors.Is(err, transformer.ErrMissingColumn) {
		t.Fatalf("err = %v; want ErrMissingColumn", err)
	}
	var mc *transformer.MissingColumnError
	if !errors.As(err, &mc) || mc.Key != "QTY (GRN)" {
		t.Fatalf("err = %#v; want MissingColumnError for QTY (GRN)", err)
	}
}

func TestRun_GapFallsBackToNow(t *testing.T) {
	res, err := Run(sheet([]string{"ACME", "1", "1", "", "", "", "", ago(10)}), testNow, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Counters.AvgGapDays != 10 {
		t.Fatalf("AvgGapDays = %d; want 10", res.Counters.AvgGapDays)
	}
	want := [][]int{{0}, {1}, {0}, {0}}
	if !reflect.DeepEqual(res.Ageing.Counts, want) {
		t.Fatalf("Ageing.Counts = %v; want %v", res.Ageing.Counts, want)
	}
}

func TestRun_AgeingNoData(t *testing.T) {
	res, err := Run(sheet(
		[]string{"", "1", "1", "", "", "", "", ago(3)},
		[]string{"ACME", "2", "1", "", "", "", "", ""},
	), testNow, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ageing.NoData {
		t.Fatalf("Ageing = %+v; want NoData", res.Ageing)
	}
}

func TestRun_BothQuantitiesAbsent(t *testing.T) {
	res, err := Run(sheet([]string{"ACME", "9", "", "", "", "", "", ""}), testNow, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Pending) != 1 || !res.Pending[0].Pending.IsZero() {
		t.Fatalf("Pending = %+v; want one zero row", res.Pending)
	}
}

func TestRun_Idempotent(t *testing.T) {
	raw := fixture()
	before := raw.Clone()

	a, err := Run(raw, testNow, "ACME")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(raw, testNow, "ACME")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
	if !reflect.DeepEqual(raw, before) {
		t.Fatalf("Run modified its input")
	}
}

/*
TestRun_CustomerFilter verifies that a specific customer keeps only that
customer's rows in every view while the choice list still covers the whole
sheet.
*/
func TestRun_CustomerFilter(t *testing.T) {
	res, err := Run(fixture(), testNow, "ZETA")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Rows != 1 {
		t.Fatalf("Rows = %d; want 1", res.Rows)
	}
	if !reflect.DeepEqual(res.Customers, []string{"ACME", "ZETA"}) {
		t.Fatalf("Customers = %v", res.Customers)
	}
	if !reflect.DeepEqual(res.Ageing.Customers, []string{"ZETA"}) {
		t.Fatalf("Ageing.Customers = %v", res.Ageing.Customers)
	}
	if len(res.Pending) != 1 || res.Pending[0].PartNo != "4500100" || !res.Pending[0].Pending.IsZero() {
		t.Fatalf("Pending = %+v", res.Pending)
	}
	if !reflect.DeepEqual(res.Receipts.Parts, []string{"4500100"}) {
		t.Fatalf("Receipts.Parts = %v", res.Receipts.Parts)
	}
}

func TestRun_AllCustomers(t *testing.T) {
	res, err := Run(fixture(), testNow, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Customer != transformer.AllCustomers {
		t.Fatalf("Customer = %q; want %q", res.Customer, transformer.AllCustomers)
	}
	// The row without a part number is gone; the blank-customer row stays.
	if res.Rows != 4 {
		t.Fatalf("Rows = %d; want 4", res.Rows)
	}
	for _, p := range res.Pending {
		if p.PartNo == "" {
			t.Fatalf("pending row without part number: %+v", res.Pending)
		}
		if p.Pending.IsNegative() {
			t.Fatalf("negative pending for %s", p.PartNo)
		}
	}
	want := []string{"4500100", "4500200", "77"}
	if !reflect.DeepEqual(res.Receipts.Parts, want) {
		t.Fatalf("Receipts.Parts = %v; want %v", res.Receipts.Parts, want)
	}
	// Three rows have both a customer and a receipt date.
	if got := res.Ageing.GrandTotal(); got != 3 {
		t.Fatalf("Ageing.GrandTotal = %d; want 3", got)
	}
	c := res.Counters
	if c.AVXChallan != 2 || c.Handover != 1 || c.TMLChallan != 1 {
		t.Fatalf("Counters = %+v", c)
	}
}
