// Package sqlsource reads the receipt sheet from a database query. It is a
// read-only view: each result column becomes a sheet column named after it
// and each row a sheet row with every value rendered as text.
package sqlsource

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	// Drivers registered as "pgx", "mysql", "sqlserver" and "sqlite".
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// driverNames maps configured driver kinds to registered database/sql names.
var driverNames = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
	"mssql":    "sqlserver",
}

// Source runs one query per Load.
type Source struct {
	db    *sqlx.DB
	query string
}

// Open prepares a connection pool for kind ("postgres", "mysql", "sqlite",
// "mssql").
// No connection is made until the first Load.
func Open(kind, dsn, query string) (*Source, error) {
	name, ok := driverNames[kind]
	if !ok {
		return nil, fmt.Errorf("sqlsource: unknown driver %q", kind)
	}
	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: open %s: %w", kind, err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Source{db: db, query: query}, nil
}

// Close releases the pool.
func (s *Source) Close() error { return s.db.Close() }

// Load runs the query and returns its result as a table.
func (s *Source) Load(ctx context.Context) (*table.Table, error) {
	rows, err := s.db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: query: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlsource: columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("sqlsource: scan row %d: %w", len(out)+1, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = cellText(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlsource: rows: %w", err)
	}
	return table.New(header, out), nil
}

// cellText renders a scanned value the way a spreadsheet export would.
// Dates at midnight lose their time of day.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
