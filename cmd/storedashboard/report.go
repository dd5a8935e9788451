package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssaurabh5135/storedashboard/internal/dashboard"
	"github.com/ssaurabh5135/storedashboard/internal/datasource"
)

var (
	reportCustomer string
	reportFormat   string
	reportInput    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the dashboard once and print it",
	Long: `report loads the sheet from the configured source (or from --input),
computes every view for one customer filter and prints the result as
aligned text or JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if reportFormat != "text" && reportFormat != "json" {
			return fmt.Errorf("report: unknown format %q (want text or json)", reportFormat)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if reportInput != "" {
			err = a.loadFile(reportInput)
		} else {
			err = a.svc.Reload(ctx)
		}
		if err != nil {
			return err
		}

		res, err := a.svc.Dashboard(ctx, reportCustomer)
		if err != nil {
			return err
		}
		if reportFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return writeReport(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportCustomer, "customer", "All", "customer filter")
	f.StringVar(&reportFormat, "format", "text", "output format: text or json")
	f.StringVar(&reportInput, "input", "", "read a local tracker workbook (.xlsx, .xls, .csv) with the upload layout instead of the source")
}

// loadFile parses path with the upload layout and installs it.
func (a *app) loadFile(path string) error {
	p, err := datasource.UploadParser(a.cfg.Upload, filepath.Ext(path))
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()
	raw, err := p.Parse(f)
	if err != nil {
		return fmt.Errorf("report: parse %s: %w", path, err)
	}
	return a.svc.Replace(raw, dashboard.OriginUpload)
}

// writeReport prints res as tab-aligned sections in page order.
func writeReport(w io.Writer, res *dashboard.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Date:\t%s\n", res.Now)
	fmt.Fprintf(tw, "Rows:\t%d (Customer: %s)\n", res.Rows, res.Customer)
	fmt.Fprintln(tw)

	c := res.Counters
	fmt.Fprintf(tw, "BTST Invoice Qty Rec'd from AVX\t%d\n", c.AVXChallan)
	fmt.Fprintf(tw, "BTST Invoice Handover Status\t%d\n", c.Handover)
	fmt.Fprintf(tw, "BTST TML GRN Status\t%d\n", c.TMLChallan)
	fmt.Fprintf(tw, "TML GRN Average Days\t%d\n", c.AvgGapDays)

	fmt.Fprintln(tw, "\nTML Part Wise GRN Pending Qty")
	if len(res.Pending) == 0 {
		fmt.Fprintln(tw, "No data")
	} else {
		fmt.Fprintln(tw, "Part No.\tPending Qty")
		for _, p := range res.Pending {
			fmt.Fprintf(tw, "%s\t%s\n", p.PartNo, p.Pending)
		}
	}

	fmt.Fprintln(tw, "\nTML GRN Ageing Day")
	if ag := res.Ageing; ag.NoData {
		fmt.Fprintln(tw, "No data")
	} else {
		fmt.Fprintf(tw, "Bucket\t%s\tTotal\n", strings.Join(ag.Customers, "\t"))
		for i, b := range ag.Buckets {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", b, joinInts(ag.Counts[i]), ag.Totals[i])
		}
		fmt.Fprintf(tw, "Total\t%s\t%d\n", joinInts(ag.CustomerTotals()), ag.GrandTotal())
	}

	fmt.Fprintln(tw, "\nPartwise Material Receipt Qty")
	if rc := res.Receipts; rc.NoData {
		fmt.Fprintln(tw, "No data")
	} else {
		fmt.Fprintf(tw, "Part No. / %s\t%s\n", rc.Month, joinInts(rc.Days))
		for i, p := range rc.Parts {
			fmt.Fprintf(tw, "%s\t%s\n", p, strings.Join(rc.Cells[i], "\t"))
		}
	}

	return tw.Flush()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, "\t")
}
