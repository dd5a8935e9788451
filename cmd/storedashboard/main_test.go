package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-sql/civil"

	"github.com/ssaurabh5135/storedashboard/internal/dashboard"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

var trackerHeader = "Supplier Name,Part No.,Qty,Qty (GRN),AVX Challan Date," +
	"AVX Invoice Ack. Handover Date,TML Challan Date,AVX PHY Material Recipt DATE"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("source:\n  kind: file\n  file: { path: tracker.csv }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "validate", "--config", good)
	if err != nil || !strings.Contains(out, "configuration is valid") {
		t.Fatalf("validate good: err=%v out=%s", err, out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("source:\n  kind: file\nparser:\n  skip_rows: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "validate", "--config", bad)
	if err == nil || !strings.Contains(out, "parser.skip_rows") {
		t.Fatalf("validate bad: err=%v out=%s", err, out)
	}
}

func TestReportCommand_JSONFromInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.csv")
	body := "BTST - AVX AND TML,\n,\n" + trackerHeader + "\n" +
		"ACME,4500100.0,10,4,,,,\n" +
		"ZETA,4500200,3,3,,,,\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "report", "--input", path, "--format", "json", "--customer", "ACME")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	var res struct {
		Customer  string   `json:"customer"`
		Customers []string `json:"customers"`
		Rows      int      `json:"rows"`
		Pending   []struct {
			PartNo  string      `json:"part_no"`
			Pending json.Number `json:"pending_qty"`
		} `json:"pending"`
	}
	if err := json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &res); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if res.Customer != "ACME" || res.Rows != 1 || len(res.Customers) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Pending) != 1 || res.Pending[0].PartNo != "4500100" || res.Pending[0].Pending != "6" {
		t.Fatalf("pending = %+v", res.Pending)
	}
}

func TestWriteReport(t *testing.T) {
	now := civil.Date{Year: 2025, Month: time.March, Day: 20}
	raw := table.New(strings.Split(trackerHeader, ","), [][]string{
		{"ACME", "4500100", "100", "40", "2025-03-08", "2025-03-09", "", "2025-03-10"},
	})
	res, err := dashboard.Run(raw, now, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, res); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Rows:  1 (Customer: All)",
		"TML GRN Average Days",
		"4500100   60",
		"TML GRN Ageing Day",
		"Total   1     1",
		"Part No. / 2025-03",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
