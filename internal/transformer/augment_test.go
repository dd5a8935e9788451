package transformer

import (
	"testing"
	"time"

	"github.com/ssaurabh5135/storedashboard/internal/receipt"
)

var testNow = date(2025, time.March, 20)

func TestGapDays(t *testing.T) {
	cases := []struct {
		name string
		rec  receipt.Record
		want receipt.Days
	}{
		{
			name: "challan minus receipt",
			rec: receipt.Record{
				TMLChallanDate: receipt.DateOf(date(2025, time.March, 15)),
				PhyReceiptDate: receipt.DateOf(date(2025, time.March, 5)),
			},
			want: receipt.DaysOf(10),
		},
		{
			name: "no challan falls back to now",
			rec: receipt.Record{
				PhyReceiptDate: receipt.DateOf(testNow.AddDays(-10)),
			},
			want: receipt.DaysOf(10),
		},
		{
			name: "no receipt is absent",
			rec: receipt.Record{
				TMLChallanDate: receipt.DateOf(date(2025, time.March, 15)),
			},
			want: receipt.Days{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GapDays(tc.rec, testNow); got != tc.want {
				t.Fatalf("GapDays = %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestAgeDays(t *testing.T) {
	r := receipt.Record{TMLChallanDate: receipt.DateOf(date(2025, time.February, 28))}
	if got := AgeDays(r, testNow); got != receipt.DaysOf(20) {
		t.Fatalf("AgeDays = %+v; want 20", got)
	}
	if got := AgeDays(receipt.Record{}, testNow); got.Valid {
		t.Fatalf("AgeDays without challan = %+v; want absent", got)
	}
}

func TestAgeingDays_RequiresCustomer(t *testing.T) {
	r := receipt.Record{PhyReceiptDate: receipt.DateOf(testNow.AddDays(-3))}
	if got := AgeingDays(r, testNow); got.Valid {
		t.Fatalf("AgeingDays without customer = %+v; want absent", got)
	}
	r.Customer = "ACME"
	if got := AgeingDays(r, testNow); got != receipt.DaysOf(3) {
		t.Fatalf("AgeingDays = %+v; want 3", got)
	}
}

func TestAgeBucket(t *testing.T) {
	cases := []struct {
		d    receipt.Days
		want string
	}{
		{receipt.DaysOf(-2), Bucket0to7},
		{receipt.DaysOf(0), Bucket0to7},
		{receipt.DaysOf(7), Bucket0to7},
		{receipt.DaysOf(8), Bucket8to15},
		{receipt.DaysOf(15), Bucket8to15},
		{receipt.DaysOf(16), Bucket16to25},
		{receipt.DaysOf(25), Bucket16to25},
		{receipt.DaysOf(26), BucketOver25},
		{receipt.Days{}, NoDataBucket},
	}
	for _, tc := range cases {
		if got := AgeBucket(tc.d); got != tc.want {
			t.Errorf("AgeBucket(%+v) = %q; want %q", tc.d, got, tc.want)
		}
	}
}

/*
TestAugment_UsesFixedNowAndCopies verifies that Augment derives every field
from the single Now it was given and leaves its input slice untouched.
*/
func TestAugment_UsesFixedNowAndCopies(t *testing.T) {
	in := []receipt.Record{
		{Customer: "ACME", PartNo: "1", PhyReceiptDate: receipt.DateOf(testNow.AddDays(-10))},
		{Customer: "", PartNo: "2", PhyReceiptDate: receipt.DateOf(testNow.AddDays(-30))},
	}
	out := Augment{Now: testNow}.Apply(in)

	if in[0].GapDays.Valid || in[1].GapDays.Valid {
		t.Fatalf("Augment wrote into its input")
	}
	if out[0].GapDays != receipt.DaysOf(10) || out[0].AgeingDays != receipt.DaysOf(10) {
		t.Fatalf("out[0] = %+v", out[0])
	}
	if AgeBucket(out[0].AgeingDays) != Bucket8to15 {
		t.Fatalf("bucket = %q; want %q", AgeBucket(out[0].AgeingDays), Bucket8to15)
	}
	if out[1].GapDays != receipt.DaysOf(30) || out[1].AgeingDays.Valid {
		t.Fatalf("out[1] = %+v", out[1])
	}
}

func TestChain_FilterThenAugment(t *testing.T) {
	in := []receipt.Record{
		{Customer: "ACME", PartNo: "1"},
		{Customer: "BETA", PartNo: "2"},
		{Customer: "ACME", PartNo: " "},
	}
	out := Chain{
		RequirePartNo{},
		CustomerFilter{Customer: "ACME"},
		Augment{Now: testNow},
	}.Apply(in)

	if len(out) != 1 || out[0].PartNo != "1" {
		t.Fatalf("out = %+v", out)
	}
	if len(in) != 3 {
		t.Fatalf("input slice changed")
	}
}

func TestCustomerFilter_AllKeepsEverything(t *testing.T) {
	in := []receipt.Record{{Customer: "A"}, {Customer: ""}}
	for _, c := range []string{"", AllCustomers} {
		if got := (CustomerFilter{Customer: c}).Apply(in); len(got) != 2 {
			t.Fatalf("CustomerFilter(%q) kept %d; want 2", c, len(got))
		}
	}
	if got := (CustomerFilter{Customer: "A"}).Apply(in); len(got) != 1 || got[0].Customer != "A" {
		t.Fatalf("CustomerFilter(A) = %+v", got)
	}
}
