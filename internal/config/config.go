// Package config defines the file-based configuration of the dashboard: where
// the receipt sheet comes from, how it is parsed, and how the service runs.
//
// Files ending in .yaml or .yml are decoded with gopkg.in/yaml.v3; anything
// else is treated as JSON. Field names are identical in both encodings.
//
// Example (trimmed):
//
//	source:
//	  kind: gsheet
//	  gsheet: { sheet_id: "1AbC...", sheet: "BTST - AVX AND TML" }
//	parser:
//	  kind: csv
//	  skip_rows: 2
//	server:
//	  addr: ":8080"
//	  refresh: "@every 15m"
//	timezone: Asia/Kolkata
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceGSheet = "gsheet"
	SourceSQL    = "sql"
)

// Parser kinds.
const (
	ParserCSV  = "csv"
	ParserXLSX = "xlsx"
	ParserXLS  = "xls"
)

// Metrics backends.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// Dashboard is the top-level configuration object.
type Dashboard struct {
	// Job labels metrics and log lines. Defaults to "storedashboard".
	Job string `json:"job" yaml:"job"`

	Source Source `json:"source" yaml:"source"`
	Parser Parser `json:"parser" yaml:"parser"`
	Server Server `json:"server" yaml:"server"`

	// Upload is the layout of workbooks posted to the web UI. Its kind is
	// chosen per file from the extension.
	Upload Parser `json:"upload" yaml:"upload"`

	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Log     Log     `json:"log" yaml:"log"`

	// Timezone is the IANA zone in which "today" is taken. Empty means local.
	Timezone string `json:"timezone" yaml:"timezone"`
}

// Source identifies where the raw sheet is loaded from.
type Source struct {
	// Kind is one of "file", "http", "gsheet", "sql".
	Kind string `json:"kind" yaml:"kind"`

	File   SourceFile   `json:"file" yaml:"file"`
	HTTP   SourceHTTP   `json:"http" yaml:"http"`
	GSheet SourceGSheet `json:"gsheet" yaml:"gsheet"`
	SQL    SourceSQL    `json:"sql" yaml:"sql"`
}

// SourceFile reads a local file.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP downloads the sheet from a URL.
type SourceHTTP struct {
	URL                string            `json:"url" yaml:"url"`
	Headers            map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds     int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries         int               `json:"max_retries" yaml:"max_retries"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// SourceGSheet exports one tab of a shared Google Sheet as CSV.
type SourceGSheet struct {
	SheetID string `json:"sheet_id" yaml:"sheet_id"`
	// Sheet is the tab name. Defaults to "BTST - AVX AND TML".
	Sheet string `json:"sheet" yaml:"sheet"`
}

// SourceSQL reads the sheet from a database query. Each result column
// becomes a sheet column named after it.
type SourceSQL struct {
	// Driver is "postgres", "mysql", "sqlite" or "mssql".
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Query  string `json:"query" yaml:"query"`
}

// Parser selects how raw bytes become a table.
type Parser struct {
	// Kind is one of "csv", "xlsx", "xls". The sql source ignores it.
	Kind string `json:"kind" yaml:"kind"`

	// Sheet names the workbook tab for xlsx/xls. Empty means the first.
	Sheet string `json:"sheet" yaml:"sheet"`

	// SkipRows drops leading rows before the header (or before the data when
	// Columns is set).
	SkipRows int `json:"skip_rows" yaml:"skip_rows"`

	// Columns, when non-empty, makes the input header-less and names its
	// columns in order.
	Columns []string `json:"columns" yaml:"columns"`

	// Comma is the CSV delimiter. Defaults to ",".
	Comma string `json:"comma" yaml:"comma"`

	// Encoding of CSV input: "utf-8" (default) or "windows-1252".
	Encoding string `json:"encoding" yaml:"encoding"`

	// Options carries parser-specific extras:
	//   lazy_quotes (bool, default true), keep_blank_rows (bool)
	Options Options `json:"options" yaml:"options"`
}

// Server configures the web UI.
type Server struct {
	Addr string `json:"addr" yaml:"addr"`
	// Refresh is a cron spec ("@every 15m", "0 */2 * * *") for reloading the
	// source. Empty disables periodic reloads.
	Refresh string `json:"refresh" yaml:"refresh"`
	// MaxUploadMB caps POST /upload bodies. Defaults to 32.
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend   string   `json:"backend" yaml:"backend"`
	URL       string   `json:"url" yaml:"url"`   // Pushgateway base URL
	Addr      string   `json:"addr" yaml:"addr"` // DogStatsD address
	Namespace string   `json:"namespace" yaml:"namespace"`
	Tags      []string `json:"tags" yaml:"tags"`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // json|console
}

// Defaults returns a Dashboard with every optional field filled in.
func Defaults() Dashboard {
	return Dashboard{
		Job:    "storedashboard",
		Source: Source{GSheet: SourceGSheet{Sheet: "BTST - AVX AND TML"}},
		Parser: Parser{Kind: ParserCSV, Comma: ","},
		Upload: Parser{Sheet: "BTST - AVX AND TML", SkipRows: 2, Comma: ","},
		Server: Server{Addr: ":8080", MaxUploadMB: 32},
		Metrics: Metrics{
			Backend: MetricsNone,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Load reads path over Defaults.
func Load(path string) (Dashboard, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dashboard{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	d, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Dashboard{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return d, nil
}

// Decode parses b over Defaults. ext selects the format (".yaml", ".yml" or
// anything else for JSON). Unknown fields are rejected.
func Decode(b []byte, ext string) (Dashboard, error) {
	d := Defaults()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return Dashboard{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Dashboard{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return d, nil
}

// Location resolves Timezone. Empty means time.Local.
func (d Dashboard) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// HTTPTimeout returns the configured timeout, or zero for the client default.
func (s SourceHTTP) HTTPTimeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
