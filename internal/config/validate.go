package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks startup.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block startup.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the config
// (e.g. "source.gsheet.sheet_id").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate lints d without modifying it.
func Validate(d Dashboard) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(d.Job) == "" {
		add(SeverityWarning, "job", "job is empty; metrics will use the default label")
	}

	switch d.Source.Kind {
	case "":
		add(SeverityWarning, "source.kind", "no source configured; the dashboard only accepts uploads")
	case SourceFile:
		if strings.TrimSpace(d.Source.File.Path) == "" {
			add(SeverityError, "source.file.path", "file source requires a path")
		}
	case SourceHTTP:
		u := d.Source.HTTP.URL
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			add(SeverityError, "source.http.url", "http source requires an http(s) URL, got %q", u)
		}
		if d.Source.HTTP.InsecureSkipVerify {
			add(SeverityWarning, "source.http.insecure_skip_verify", "TLS verification is disabled")
		}
	case SourceGSheet:
		if strings.TrimSpace(d.Source.GSheet.SheetID) == "" {
			add(SeverityError, "source.gsheet.sheet_id", "gsheet source requires a sheet_id")
		}
		if d.Parser.Kind != "" && d.Parser.Kind != ParserCSV {
			add(SeverityError, "parser.kind", "gsheet exports CSV; parser.kind must be csv, got %q", d.Parser.Kind)
		}
	case SourceSQL:
		switch d.Source.SQL.Driver {
		case "postgres", "mysql", "sqlite", "mssql":
		default:
			add(SeverityError, "source.sql.driver", "unknown driver %q (want postgres, mysql, sqlite or mssql)", d.Source.SQL.Driver)
		}
		if strings.TrimSpace(d.Source.SQL.DSN) == "" {
			add(SeverityError, "source.sql.dsn", "sql source requires a dsn")
		}
		q := strings.ToUpper(strings.TrimSpace(d.Source.SQL.Query))
		if !strings.HasPrefix(q, "SELECT") && !strings.HasPrefix(q, "WITH") {
			add(SeverityError, "source.sql.query", "sql source requires a SELECT query")
		}
	default:
		add(SeverityError, "source.kind", "unknown source kind %q", d.Source.Kind)
	}

	if d.Source.Kind != SourceSQL {
		switch d.Parser.Kind {
		case ParserCSV, ParserXLSX, ParserXLS:
		default:
			add(SeverityError, "parser.kind", "unknown parser kind %q (want csv, xlsx or xls)", d.Parser.Kind)
		}
	}
	if d.Parser.SkipRows < 0 {
		add(SeverityError, "parser.skip_rows", "skip_rows must be >= 0")
	}
	if d.Upload.SkipRows < 0 {
		add(SeverityError, "upload.skip_rows", "skip_rows must be >= 0")
	}
	if d.Parser.Kind == ParserCSV && len([]rune(d.Parser.Comma)) > 1 {
		add(SeverityError, "parser.comma", "comma must be a single character, got %q", d.Parser.Comma)
	}
	switch strings.ToLower(d.Parser.Encoding) {
	case "", "utf-8", "utf8", "windows-1252", "cp1252":
	default:
		add(SeverityError, "parser.encoding", "unsupported encoding %q", d.Parser.Encoding)
	}

	if d.Server.Refresh != "" {
		if _, err := cron.ParseStandard(d.Server.Refresh); err != nil {
			add(SeverityError, "server.refresh", "invalid cron spec %q: %v", d.Server.Refresh, err)
		}
		if d.Source.Kind == SourceFile {
			add(SeverityWarning, "server.refresh", "periodic refresh of a local file rereads it on every tick")
		}
	}

	switch d.Metrics.Backend {
	case "", MetricsNone:
	case MetricsPushgateway:
		if d.Metrics.URL == "" {
			add(SeverityError, "metrics.url", "pushgateway backend requires a url")
		}
	case MetricsDatadog:
		if d.Metrics.Addr == "" {
			add(SeverityError, "metrics.addr", "datadog backend requires an agent addr")
		}
	default:
		add(SeverityError, "metrics.backend", "unknown metrics backend %q", d.Metrics.Backend)
	}

	if d.Timezone != "" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			add(SeverityError, "timezone", "unknown time zone %q", d.Timezone)
		}
	}
	return issues
}
