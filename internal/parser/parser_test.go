package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestLayoutBuild_HeaderRowAfterSkip(t *testing.T) {
	rows := [][]string{
		{"BTST - AVX AND TML"},
		{""},
		{"Part No.", "Qty"},
		{"1", "5"},
		{"", ""},
		{"2", "6"},
	}
	tb, err := Layout{SkipRows: 2}.Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(tb.Header, []string{"Part No.", "Qty"}) {
		t.Fatalf("Header = %v", tb.Header)
	}
	if tb.Len() != 2 || tb.Rows[1][0] != "2" {
		t.Fatalf("Rows = %v", tb.Rows)
	}
}

func TestLayoutBuild_NamedColumnsTruncateToWidth(t *testing.T) {
	rows := [][]string{
		{"junk"}, {"junk"},
		{"a", "b"},
		{"c"},
	}
	tb, err := Layout{SkipRows: 2, Columns: []string{"X", "Y", "Z"}}.Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(tb.Header, []string{"X", "Y"}) {
		t.Fatalf("Header = %v", tb.Header)
	}
	if !reflect.DeepEqual(tb.Rows, [][]string{{"a", "b"}, {"c", ""}}) {
		t.Fatalf("Rows = %v", tb.Rows)
	}
}

func TestLayoutBuild_NamedColumnsPadWide(t *testing.T) {
	tb, err := Layout{Columns: []string{"X"}}.Build([][]string{{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(tb.Header, []string{"X", "COL1", "COL2"}) {
		t.Fatalf("Header = %v", tb.Header)
	}
}

func TestLayoutBuild_Errors(t *testing.T) {
	if _, err := (Layout{SkipRows: 5}).Build([][]string{{"a"}}); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("err = %v; want ErrNoHeader", err)
	}
	if _, err := (Layout{SkipRows: -1}).Build(nil); err == nil {
		t.Fatalf("expected error for negative skip")
	}
}

func TestPickSheet(t *testing.T) {
	names := []string{"Summary", "btst - avx and tml ", "BTST - AVX AND TML"}
	cases := map[string]string{
		"":                   "Summary",
		"BTST - AVX AND TML": "BTST - AVX AND TML",
		"SUMMARY":            "Summary",
	}
	for want, got := range cases {
		name, err := PickSheet(names, want)
		if err != nil || name != got {
			t.Errorf("PickSheet(%q) = %q, %v; want %q", want, name, err, got)
		}
	}
	if _, err := PickSheet(names, "Other"); !errors.Is(err, ErrNoSheet) {
		t.Fatalf("err = %v; want ErrNoSheet", err)
	}
	if _, err := PickSheet(nil, ""); !errors.Is(err, ErrNoSheet) {
		t.Fatalf("err = %v; want ErrNoSheet", err)
	}
}
