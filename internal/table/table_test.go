package table

import (
	"reflect"
	"testing"
)

func TestNew_PadsAndTruncatesRows(t *testing.T) {
	tb := New([]string{"A", "B", "C"}, [][]string{
		{"1"},
		{"1", "2", "3", "4"},
	})
	want := [][]string{
		{"1", "", ""},
		{"1", "2", "3"},
	}
	if !reflect.DeepEqual(tb.Rows, want) {
		t.Fatalf("rows = %#v; want %#v", tb.Rows, want)
	}
}

// TestNew_DoesNotAliasInput verifies that later writes to the caller's slices
// never leak into the constructed table.
func TestNew_DoesNotAliasInput(t *testing.T) {
	header := []string{"A"}
	rows := [][]string{{"x"}}
	tb := New(header, rows)

	header[0] = "changed"
	rows[0][0] = "changed"

	if tb.Header[0] != "A" || tb.Rows[0][0] != "x" {
		t.Fatalf("table aliased caller input: %#v", tb)
	}
}

func TestCell_OutOfRange(t *testing.T) {
	tb := New([]string{"A"}, [][]string{{"x"}})
	cases := []struct {
		row, col int
		want     string
	}{
		{0, 0, "x"},
		{1, 0, ""},
		{0, 1, ""},
		{-1, 0, ""},
		{0, -1, ""},
	}
	for _, tc := range cases {
		if got := tb.Cell(tc.row, tc.col); got != tc.want {
			t.Errorf("Cell(%d,%d) = %q; want %q", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestDropBlankRows(t *testing.T) {
	tb := New([]string{"A", "B"}, [][]string{
		{"", "  "},
		{"x", ""},
		{"", ""},
	})
	got := tb.DropBlankRows()
	if got.Len() != 1 || got.Rows[0][0] != "x" {
		t.Fatalf("DropBlankRows = %#v", got.Rows)
	}
	if tb.Len() != 3 {
		t.Fatalf("receiver mutated: len=%d", tb.Len())
	}
}

func TestClone_IsDeep(t *testing.T) {
	tb := New([]string{"A"}, [][]string{{"x"}})
	c := tb.Clone()
	c.Rows[0][0] = "y"
	if tb.Rows[0][0] != "x" {
		t.Fatalf("Clone shares row storage")
	}
}

func TestSerialDatesSurvivesCopies(t *testing.T) {
	tb := New([]string{"d"}, [][]string{{"45000"}, {" "}})
	tb.SerialDates = true
	if !tb.Clone().SerialDates || !tb.DropBlankRows().SerialDates {
		t.Fatalf("SerialDates lost on copy")
	}
}
