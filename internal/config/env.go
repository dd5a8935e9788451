package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from each existing file into the process
// environment. Variables already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides d with any of these variables that getenv reports as set:
//
//	DASH_SOURCE_URL       source.http.url (and source.kind=http when kind is empty)
//	DASH_SHEET_ID         source.gsheet.sheet_id (and source.kind=gsheet when kind is empty)
//	DASH_ADDR             server.addr
//	DASH_LOG_LEVEL        log.level
//	DASH_METRICS_BACKEND  metrics.backend
//	PUSHGATEWAY_URL       metrics.url
//	DD_AGENT_HOST         metrics.addr (port 8125 when none is given)
//	DASH_TZ               timezone
func ApplyEnv(d Dashboard, getenv func(string) string) Dashboard {
	if v := strings.TrimSpace(getenv("DASH_SOURCE_URL")); v != "" {
		d.Source.HTTP.URL = v
		if d.Source.Kind == "" {
			d.Source.Kind = SourceHTTP
		}
	}
	if v := strings.TrimSpace(getenv("DASH_SHEET_ID")); v != "" {
		d.Source.GSheet.SheetID = v
		if d.Source.Kind == "" {
			d.Source.Kind = SourceGSheet
		}
	}
	if v := strings.TrimSpace(getenv("DASH_ADDR")); v != "" {
		d.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv("DASH_LOG_LEVEL")); v != "" {
		d.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("DASH_METRICS_BACKEND")); v != "" {
		d.Metrics.Backend = v
	}
	if v := strings.TrimSpace(getenv("PUSHGATEWAY_URL")); v != "" {
		d.Metrics.URL = v
	}
	if v := strings.TrimSpace(getenv("DD_AGENT_HOST")); v != "" {
		if !strings.Contains(v, ":") {
			v += ":8125"
		}
		d.Metrics.Addr = v
	}
	if v := strings.TrimSpace(getenv("DASH_TZ")); v != "" {
		d.Timezone = v
	}
	return d
}
