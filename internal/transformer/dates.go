package transformer

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// dayFirstLayouts are tried in order. Numeric dd/mm forms come before any
// month-first form so that 03/04/2025 reads as 3 April.
var dayFirstLayouts = []string{
	"2/1/2006", "2-1-2006", "2.1.2006",
	"2/1/06", "2-1-06", "2.1.06",
	"2006-1-2", "2006/1/2", "2006.1.2",
	"2-Jan-2006", "2-Jan-06", "2 Jan 2006", "2 Jan 06",
	"2-January-2006", "2 January 2006",
	"Jan 2, 2006", "January 2, 2006",
	"20060102",
}

// monthFirstLayouts only apply when no day-first reading is a real date
// (e.g. 03/25/2025), the same fallback a lenient day-first parser makes.
var monthFirstLayouts = []string{
	"1/2/2006", "1-2-2006", "1.2.2006",
	"1/2/06", "1-2-06", "1.2.06",
}

// Excel stores dates as days since 1899-12-30; 2958465 is 9999-12-31.
const (
	excelSerialMin = 1
	excelSerialMax = 2958465
)

var excelEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// ParseDate reads s as a calendar date with day-first precedence. A trailing
// time of day is ignored. ok is false for blank or unparseable input,
// including bare numbers.
func ParseDate(s string) (d civil.Date, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || isNullLiteral(s) {
		return civil.Date{}, false
	}
	s = stripTimeOfDay(s)

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// ParseWorkbookDate is ParseDate for raw workbook cells: a bare number in the
// Excel serial range is read as days since 1899-12-30.
func ParseWorkbookDate(s string) (civil.Date, bool) {
	if d, ok := ParseDate(s); ok {
		return d, true
	}
	return parseExcelSerial(strings.TrimSpace(s))
}

// stripTimeOfDay drops everything from the first hh:mm token onwards,
// including an ISO "T" separator.
func stripTimeOfDay(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]) {
		s = s[:i] + " " + s[i+1:]
	}
	fields := strings.Fields(s)
	for i, f := range fields {
		if i > 0 && strings.Contains(f, ":") {
			return strings.Join(fields[:i], " ")
		}
	}
	return s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseExcelSerial(s string) (civil.Date, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f >= excelSerialMin && f <= excelSerialMax) {
		return civil.Date{}, false
	}
	days := int(f)
	// Excel counts a fictitious 1900-02-29 (serial 60); serials before it are
	// one day early relative to the 1899-12-30 epoch.
	if days < 60 {
		days++
	}
	return excelEpoch.AddDays(days), true
}

func isNullLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "nat", "none", "null", "n/a", "-":
		return true
	}
	return false
}
